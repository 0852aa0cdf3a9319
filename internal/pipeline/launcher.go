package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"modlauncher/internal/logging"
	"modlauncher/internal/process"
)

const defaultEventBuffer = 256

// Launcher owns at most one active run at a time. Runs execute on a worker
// goroutine while a dispatcher delivers events to the output callback in
// emission order and then fires the finished callback once.
type Launcher struct {
	starter process.Starter
	logger  *slog.Logger
	buffer  int
	newID   func() string

	mu         sync.Mutex
	onOutput   func(Event)
	onFinished func(Result)
	active     *run
	latest     *run
}

type run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEventBuffer sets how many events may queue ahead of the output callback.
func WithEventBuffer(n int) Option {
	return func(l *Launcher) {
		if n >= 0 {
			l.buffer = n
		}
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(l *Launcher) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// NewLauncher constructs a launcher. A nil starter uses process.ExecStarter.
func NewLauncher(starter process.Starter, opts ...Option) *Launcher {
	if starter == nil {
		starter = process.ExecStarter{}
	}
	l := &Launcher{
		starter: starter,
		logger:  logging.NewNop(),
		buffer:  defaultEventBuffer,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.NewComponentLogger(l.logger, "launcher")
	return l
}

// OnOutput registers the sole consumer of output events. Runs already in
// flight keep the callback they started with.
func (l *Launcher) OnOutput(fn func(Event)) {
	l.mu.Lock()
	l.onOutput = fn
	l.mu.Unlock()
}

// OnFinished registers the sole consumer of the completion signal.
func (l *Launcher) OnFinished(fn func(Result)) {
	l.mu.Lock()
	l.onFinished = fn
	l.mu.Unlock()
}

// StartCommands begins a command pipeline run and returns its ID.
func (l *Launcher) StartCommands(ctx context.Context, tasks []Task, ignoreErrors bool) (string, error) {
	if len(tasks) == 0 {
		return "", ErrNoTasks
	}
	tasks = cloneTasks(tasks)
	return l.start(ctx, KindCommands, func(ctx context.Context, r Runner) Result {
		return r.Commands(ctx, tasks, ignoreErrors)
	})
}

// StartConversion begins a conversion run and returns its ID.
func (l *Launcher) StartConversion(ctx context.Context, req ConvertRequest) (string, error) {
	if len(req.Files) == 0 {
		return "", ErrNoTasks
	}
	if req.OutputDir == "" {
		return "", ErrOutputDir
	}
	req = req.clone()
	return l.start(ctx, KindConversion, func(ctx context.Context, r Runner) Result {
		return r.Convert(ctx, req)
	})
}

// Cancel requests cancellation of the active run. It is a no-op when idle.
func (l *Launcher) Cancel() {
	l.mu.Lock()
	active := l.active
	l.mu.Unlock()
	if active != nil {
		l.logger.Info("cancellation requested", logging.String("run_id", active.id))
		active.cancel()
	}
}

// Active reports whether a run is in flight.
func (l *Launcher) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active != nil
}

// Wait blocks until the most recent run's finished callback has returned.
func (l *Launcher) Wait() {
	l.mu.Lock()
	latest := l.latest
	l.mu.Unlock()
	if latest != nil {
		<-latest.done
	}
}

func (l *Launcher) start(parent context.Context, kind Kind, body func(context.Context, Runner) Result) (string, error) {
	if parent == nil {
		parent = context.Background()
	}

	l.mu.Lock()
	if l.active != nil {
		l.mu.Unlock()
		return "", ErrRunActive
	}
	ctx, cancel := context.WithCancel(parent)
	current := &run{id: l.newID(), cancel: cancel, done: make(chan struct{})}
	onOutput, onFinished := l.onOutput, l.onFinished
	l.active = current
	l.latest = current
	l.mu.Unlock()

	logger := l.logger.With(logging.String("run_id", current.id), logging.String("kind", string(kind)))
	logger.Info("run started")

	events := make(chan Event, l.buffer)
	results := make(chan Result, 1)

	go func() {
		runner := Runner{
			Starter: l.starter,
			RunID:   current.id,
			Emit:    func(e Event) { events <- e },
		}
		result := body(ctx, runner)
		close(events)
		results <- result
	}()

	go func() {
		defer close(current.done)
		for evt := range events {
			if onOutput != nil {
				onOutput(evt)
			}
		}
		result := <-results
		cancel()

		l.mu.Lock()
		if l.active == current {
			l.active = nil
		}
		l.mu.Unlock()

		logger.Info("run finished",
			logging.String("outcome", result.Outcome.String()),
			logging.Bool("cancelled", result.Cancelled),
			logging.Int("started", result.Started),
			logging.Duration("duration", result.Duration()),
		)
		if onFinished != nil {
			onFinished(result)
		}
	}()

	return current.id, nil
}
