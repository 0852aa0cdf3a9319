package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modlauncher/internal/process"
)

// Runner executes pipeline runs synchronously on the calling goroutine.
// Launcher wraps it with a background worker and completion signalling.
type Runner struct {
	Starter process.Starter
	RunID   string
	Emit    Emitter
}

// Commands runs tasks strictly in order. Abnormal termination of any task, a
// failed start, or cancellation stops the run. A normal non-zero exit stops
// the run unless ignoreErrors is set, in which case the outcome is still
// failed once all tasks have run.
func (r Runner) Commands(ctx context.Context, tasks []Task, ignoreErrors bool) Result {
	res := Result{RunID: r.RunID, Kind: KindCommands, StartedAt: time.Now().UTC()}
	res.Counts.Total = len(tasks)
	em := newEmitter(r.RunID, r.Emit)
	clean := true

	for i, task := range tasks {
		if ctx.Err() != nil {
			return r.cancelled(em, &res)
		}
		em.index = i
		res.Started++
		em.send(EventInvocation, task.Invocation()+"\n")

		h, err := r.Starter.Start(ctx, process.Spec{
			Program:     task.Program,
			Args:        task.Args,
			Dir:         task.Dir(),
			MergeOutput: true,
		})
		if err != nil {
			if ctx.Err() != nil {
				res.Started--
				return r.cancelled(em, &res)
			}
			em.send(EventError, fmt.Sprintf("ERROR: %v\n", err))
			res.Counts.Failed++
			res.Aborted = true
			return res.settle(OutcomeFailed)
		}

		exit := supervise(ctx, h, func(c process.Chunk) {
			em.send(EventOutput, string(c.Data))
		})

		switch {
		case !exit.Normal:
			res.Counts.Failed++
			res.Aborted = true
			if ctx.Err() != nil {
				return r.cancelled(em, &res)
			}
			em.send(EventError, fmt.Sprintf("ERROR: %s terminated abnormally\n", task.Program))
			return res.settle(OutcomeFailed)
		case exit.Code != 0:
			res.Counts.Failed++
			clean = false
			em.send(EventError, fmt.Sprintf("ERROR: %s exited with code %d\n", task.Program, exit.Code))
			if !ignoreErrors {
				res.Aborted = true
				return res.settle(OutcomeFailed)
			}
		default:
			res.Counts.Succeeded++
		}
	}

	if !clean {
		return res.settle(OutcomeFailed)
	}
	return res.settle(OutcomeSucceeded)
}

func (r Runner) cancelled(em *emitter, res *Result) Result {
	res.Cancelled = true
	res.Aborted = true
	em.index = -1
	em.send(EventNotice, "Cancelled\n")
	return res.settle(OutcomeFailed)
}

// supervise forwards output until the handle closes it and terminates the
// child as soon as ctx is done.
func supervise(ctx context.Context, h process.Handle, onChunk func(process.Chunk)) process.Exit {
	output := h.Output()
	cancelled := ctx.Done()
	for output != nil {
		select {
		case chunk, ok := <-output:
			if !ok {
				output = nil
				continue
			}
			onChunk(chunk)
		case <-cancelled:
			_ = h.Terminate()
			cancelled = nil
		}
	}
	if cancelled != nil {
		select {
		case <-h.Done():
		case <-cancelled:
			_ = h.Terminate()
			<-h.Done()
		}
	} else {
		<-h.Done()
	}
	exit := h.Exit()
	if errors.Is(exit.Err, context.Canceled) {
		exit.Normal = false
	}
	return exit
}
