// Package process starts and supervises the external tool processes driven by
// the launcher pipelines.
//
// A Handle exposes a readiness channel for output chunks instead of a polling
// API: callers range over Output, then read Exit once Done closes. Processes
// stopped through Terminate (or through cancellation of the start context) are
// always reported as abnormal exits so pipelines can tell a crash or kill apart
// from a tool that returned a non-zero code.
//
// Prefer this package over ad-hoc exec.Command usage so working directories,
// stdin piping, and merged output modes behave the same in every pipeline.
package process
