// Package logs reads the launcher's diagnostic log and saved run transcripts.
//
// Last returns the final lines of a file with bounded memory; Follow polls
// from an offset and hands each complete new line to a callback until the
// context ends.
package logs
