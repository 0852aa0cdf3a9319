// Package pipeline runs the launcher's sequential tool pipelines.
//
// Two run kinds share one execution model: the command pipeline runs an
// ordered list of (program, args) tasks with merged output, and the conversion
// pipeline feeds export files through the export2bin converter and writes the
// binary results. Exactly one child process runs at a time, output is streamed
// as ordered Events, and cancellation terminates the current child and
// prevents any later task from starting.
//
// Launcher is the front door for callers: it enforces a single active run,
// executes it on a background goroutine, delivers events to one consumer in
// emission order, and fires the finished callback exactly once per run.
package pipeline
