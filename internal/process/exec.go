package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	readBufferSize   = 32 * 1024
	outputQueueDepth = 64
	// Grandchildren can keep inherited pipes open after the tool itself
	// exited; pipes, stdin included, are force-closed once this grace
	// period elapses.
	defaultPipeGrace = 2 * time.Second
)

var commandContext = exec.CommandContext

// ExecStarter launches processes with os/exec. The zero value is ready to use.
type ExecStarter struct {
	// Env replaces the child environment when non-nil.
	Env []string
	// PipeGrace bounds how long output pipes are drained after exit.
	PipeGrace time.Duration
}

// Start implements Starter.
func (s ExecStarter) Start(ctx context.Context, spec Spec) (Handle, error) {
	program := strings.TrimSpace(spec.Program)
	if program == "" {
		return nil, fmt.Errorf("%w: program required", ErrStart)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := commandContext(ctx, program, spec.Args...) //nolint:gosec
	cmd.Dir = spec.Dir
	if s.Env != nil {
		cmd.Env = s.Env
	}
	if spec.Stdin != nil {
		cmd.Stdin = bytes.NewReader(spec.Stdin)
	}

	h := &execHandle{
		cmd:    cmd,
		output: make(chan Chunk, outputQueueDepth),
		done:   make(chan struct{}),
		grace:  s.PipeGrace,
	}
	if h.grace <= 0 {
		h.grace = defaultPipeGrace
	}
	// Stdin is copied by os/exec, and Wait blocks on that copy unless
	// WaitDelay bounds it.
	cmd.WaitDelay = h.grace
	cmd.Cancel = func() error {
		h.killed.Store(true)
		return cmd.Process.Kill()
	}

	var pipes []pipePair
	closeAll := func() {
		for _, p := range pipes {
			_ = p.read.Close()
			_ = p.write.Close()
		}
	}
	if spec.MergeOutput {
		p, err := newPipePair(Combined)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrStart, program, err)
		}
		pipes = append(pipes, p)
		cmd.Stdout = p.write
		cmd.Stderr = p.write
	} else {
		for _, stream := range []Stream{Stdout, Stderr} {
			p, err := newPipePair(stream)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("%w: %s: %w", ErrStart, program, err)
			}
			pipes = append(pipes, p)
		}
		cmd.Stdout = pipes[0].write
		cmd.Stderr = pipes[1].write
	}

	if err := cmd.Start(); err != nil {
		closeAll()
		return nil, fmt.Errorf("%w: %s: %w", ErrStart, program, err)
	}

	// The child holds its own copies of the write ends.
	readEnds := make([]*os.File, 0, len(pipes))
	for _, p := range pipes {
		_ = p.write.Close()
		readEnds = append(readEnds, p.read)
		h.readers.Add(1)
		go h.pump(p.stream, p.read)
	}

	go h.supervise(readEnds)
	return h, nil
}

type pipePair struct {
	stream Stream
	read   *os.File
	write  *os.File
}

func newPipePair(stream Stream) (pipePair, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return pipePair{}, fmt.Errorf("create %s pipe: %w", stream, err)
	}
	return pipePair{stream: stream, read: r, write: w}, nil
}

type execHandle struct {
	cmd     *exec.Cmd
	output  chan Chunk
	done    chan struct{}
	readers sync.WaitGroup
	killed  atomic.Bool
	grace   time.Duration

	mu   sync.Mutex
	exit Exit
}

func (h *execHandle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *execHandle) Output() <-chan Chunk { return h.output }

func (h *execHandle) Done() <-chan struct{} { return h.done }

func (h *execHandle) Exit() Exit {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exit
}

func (h *execHandle) Terminate() error {
	h.killed.Store(true)
	if h.cmd.Process == nil {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill process %d: %w", h.cmd.Process.Pid, err)
	}
	return nil
}

func (h *execHandle) pump(stream Stream, r *os.File) {
	defer h.readers.Done()
	defer r.Close()
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			h.output <- Chunk{Stream: stream, Data: data}
		}
		if err != nil {
			return
		}
	}
}

func (h *execHandle) supervise(readEnds []*os.File) {
	waitErr := h.cmd.Wait()

	drained := make(chan struct{})
	go func() {
		h.readers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(h.grace):
		for _, f := range readEnds {
			_ = f.Close()
		}
		<-drained
	}

	exit := Exit{Code: -1}
	if state := h.cmd.ProcessState; state != nil {
		exit.Code = state.ExitCode()
		exit.Normal = state.Exited() && !h.killed.Load()
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		exit.Err = waitErr
	}

	h.mu.Lock()
	h.exit = exit
	h.mu.Unlock()

	close(h.output)
	close(h.done)
}
