package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"modlauncher/internal/process"
)

// script describes how a fake process behaves.
type script struct {
	stdout string
	stderr string
	code   int
	crash  bool
	// block keeps the process running until terminated.
	block bool
	err   error
	// transform builds stdout from stdin when set.
	transform func([]byte) []byte
}

type fakeStarter struct {
	mu      sync.Mutex
	specs   []process.Spec
	started chan process.Spec
	plan    func(spec process.Spec) script
}

func newFakeStarter(plan func(spec process.Spec) script) *fakeStarter {
	return &fakeStarter{plan: plan, started: make(chan process.Spec, 64)}
}

func (f *fakeStarter) Start(ctx context.Context, spec process.Spec) (process.Handle, error) {
	sc := f.plan(spec)
	if sc.err != nil {
		return nil, sc.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()
	f.started <- spec

	h := &fakeHandle{
		output: make(chan process.Chunk, 8),
		done:   make(chan struct{}),
		kill:   make(chan struct{}),
	}
	go h.run(spec, sc)
	return h, nil
}

func (f *fakeStarter) programs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.specs))
	for _, s := range f.specs {
		out = append(out, s.Program)
	}
	return out
}

type fakeHandle struct {
	output chan process.Chunk
	done   chan struct{}
	kill   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	exit process.Exit
}

func (h *fakeHandle) run(spec process.Spec, sc script) {
	stdout := sc.stdout
	if sc.transform != nil {
		stdout = string(sc.transform(spec.Stdin))
	}
	stdoutStream, stderrStream := process.Stdout, process.Stderr
	if spec.MergeOutput {
		stdoutStream, stderrStream = process.Combined, process.Combined
	}
	if stdout != "" {
		h.output <- process.Chunk{Stream: stdoutStream, Data: []byte(stdout)}
	}
	if sc.stderr != "" {
		h.output <- process.Chunk{Stream: stderrStream, Data: []byte(sc.stderr)}
	}

	exit := process.Exit{Code: sc.code, Normal: !sc.crash}
	if sc.block {
		<-h.kill
	}
	select {
	case <-h.kill:
		exit = process.Exit{Code: -1}
	default:
	}

	h.mu.Lock()
	h.exit = exit
	h.mu.Unlock()
	close(h.output)
	close(h.done)
}

func (h *fakeHandle) PID() int                     { return 4242 }
func (h *fakeHandle) Output() <-chan process.Chunk { return h.output }
func (h *fakeHandle) Done() <-chan struct{}        { return h.done }

func (h *fakeHandle) Exit() process.Exit {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exit
}

func (h *fakeHandle) Terminate() error {
	h.once.Do(func() { close(h.kill) })
	return nil
}

var errNotFound = errors.New("executable file not found")

func upper(b []byte) []byte { return []byte(strings.ToUpper(string(b))) }

// recorder collects events emitted by a Runner.
type recorder struct {
	mu     sync.Mutex
	events []eventRecord
}

type eventRecord struct {
	kind  string
	index int
	text  string
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.text)
	}
	return out
}

func (r *recorder) joined() string {
	return strings.Join(r.texts(), "")
}

func (r *recorder) ofKind(kind string) []eventRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []eventRecord
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}
