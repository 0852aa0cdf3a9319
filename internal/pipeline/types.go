package pipeline

import (
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

var (
	// ErrRunActive is returned when a run is started while another is in flight.
	ErrRunActive = errors.New("a pipeline run is already in progress")
	// ErrNoTasks is returned when a run is started with nothing to do.
	ErrNoTasks = errors.New("no tasks to run")
	// ErrOutputDir is returned when a conversion has no output directory.
	ErrOutputDir = errors.New("conversion output directory required")
)

// Task is one external tool invocation.
type Task struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Invocation renders the command line echoed before the task starts.
func (t Task) Invocation() string {
	if len(t.Args) == 0 {
		return t.Program
	}
	return t.Program + " " + strings.Join(t.Args, " ")
}

// Dir returns the directory containing the program, or empty when the program
// is a bare name resolved through PATH.
func (t Task) Dir() string {
	if !strings.ContainsAny(t.Program, `/\`) {
		return ""
	}
	abs, err := filepath.Abs(t.Program)
	if err != nil {
		return filepath.Dir(t.Program)
	}
	return filepath.Dir(abs)
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = Task{Program: t.Program, Args: append([]string(nil), t.Args...)}
	}
	return out
}

// Kind identifies a pipeline flavour.
type Kind string

const (
	KindCommands   Kind = "commands"
	KindConversion Kind = "conversion"
)

// EventKind classifies output events.
type EventKind int

const (
	// EventInvocation echoes a task's command line before it starts.
	EventInvocation EventKind = iota
	// EventOutput carries raw process output.
	EventOutput
	// EventNotice is launcher-generated progress text.
	EventNotice
	// EventError reports a failure detected by the pipeline.
	EventError
	// EventSummary is the final conversion tally.
	EventSummary
)

func (k EventKind) String() string {
	switch k {
	case EventInvocation:
		return "invocation"
	case EventOutput:
		return "output"
	case EventNotice:
		return "notice"
	case EventError:
		return "error"
	case EventSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Event is an immutable chunk of pipeline output.
type Event struct {
	RunID string
	Seq   uint64
	Kind  EventKind
	// Index is the task or file position, -1 for run-level events.
	Index int
	Text  string
	Time  time.Time
}

// Emitter receives events in emission order.
type Emitter func(Event)

type emitter struct {
	runID string
	seq   atomic.Uint64
	index int
	sink  Emitter
}

func newEmitter(runID string, sink Emitter) *emitter {
	return &emitter{runID: runID, index: -1, sink: sink}
}

func (e *emitter) send(kind EventKind, text string) {
	if e.sink == nil || text == "" {
		return
	}
	e.sink(Event{
		RunID: e.runID,
		Seq:   e.seq.Add(1),
		Kind:  kind,
		Index: e.index,
		Text:  text,
		Time:  time.Now().UTC(),
	})
}

// Outcome is the tri-state success flag of a run.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Counts tallies conversion results.
type Counts struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// Processed is the number of files that reached a terminal per-file state.
func (c Counts) Processed() int {
	return c.Succeeded + c.Skipped + c.Failed
}

// Result is the completion record of a run.
type Result struct {
	RunID   string
	Kind    Kind
	Outcome Outcome
	// Cancelled is set when cancellation was requested before the run ended.
	Cancelled bool
	// Aborted is set when a failure or cancellation halted the run.
	Aborted bool
	// Started counts tasks launched or files examined.
	Started    int
	Counts     Counts
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the run ended with OutcomeSucceeded.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}

// Duration is the wall time of the run.
func (r Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Result) settle(outcome Outcome) Result {
	if r.Outcome == OutcomeUnknown {
		r.Outcome = outcome
	}
	r.FinishedAt = time.Now().UTC()
	return *r
}
