package process

import (
	"context"
	"errors"
)

// ErrStart wraps failures that prevent a child process from starting.
var ErrStart = errors.New("start process")

// Stream identifies which output channel produced a chunk.
type Stream int

const (
	// Combined carries merged stdout and stderr.
	Combined Stream = iota
	Stdout
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "combined"
	}
}

// Chunk is a slice of output read from a child process.
type Chunk struct {
	Stream Stream
	Data   []byte
}

// Spec describes a child process invocation.
type Spec struct {
	Program string
	Args    []string
	// Dir is the working directory. Empty inherits the launcher's.
	Dir string
	// Stdin, when non-nil, is written to the child's input which is then closed.
	Stdin []byte
	// MergeOutput routes stdout and stderr through a single pipe.
	MergeOutput bool
}

// Exit reports how a child process ended.
type Exit struct {
	Code int
	// Normal is false when the process crashed, was signalled, or was terminated.
	Normal bool
	Err    error
}

// Success reports a normal exit with code zero.
func (e Exit) Success() bool {
	return e.Normal && e.Code == 0
}

// Handle is a live child process owned by exactly one task.
type Handle interface {
	PID() int
	// Output delivers chunks as they become available and closes once every
	// output pipe reached EOF.
	Output() <-chan Chunk
	// Done closes after the process exited and Output has been closed.
	Done() <-chan struct{}
	// Exit is valid once Done is closed.
	Exit() Exit
	// Terminate forcibly stops the process. Safe to call more than once.
	Terminate() error
}

// Starter launches child processes.
type Starter interface {
	Start(ctx context.Context, spec Spec) (Handle, error)
}

// StarterFunc adapts a function to the Starter interface.
type StarterFunc func(ctx context.Context, spec Spec) (Handle, error)

// Start implements Starter.
func (f StarterFunc) Start(ctx context.Context, spec Spec) (Handle, error) {
	return f(ctx, spec)
}
