// Package logging assembles structured slog loggers for modlauncher.
//
// It owns the console and JSON handlers, level and output plumbing, attribute
// helpers, and a no-op logger for tests. Diagnostic logs go through here;
// tool output streamed by a pipeline run does not.
package logging
