package pipeline_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/pipeline"
	"modlauncher/internal/process"
)

func (r *recorder) emit(e pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventRecord{kind: e.Kind.String(), index: e.Index, text: e.Text})
}

func tasks(programs ...string) []pipeline.Task {
	out := make([]pipeline.Task, 0, len(programs))
	for _, p := range programs {
		out = append(out, pipeline.Task{Program: filepath.Join("tools", "bin", p), Args: []string{"-flag", p}})
	}
	return out
}

func byBase(plan map[string]script) func(process.Spec) script {
	return func(spec process.Spec) script {
		return plan[filepath.Base(spec.Program)]
	}
}

func TestCommandsRunSequentially(t *testing.T) {
	starter := newFakeStarter(byBase(map[string]script{
		"a": {stdout: "a out\n"},
		"b": {stdout: "b out\n"},
		"c": {stdout: "c out\n"},
	}))
	rec := &recorder{}
	runner := pipeline.Runner{Starter: starter, RunID: "run-1", Emit: rec.emit}

	res := runner.Commands(context.Background(), tasks("a", "b", "c"), false)

	require.Equal(t, pipeline.OutcomeSucceeded, res.Outcome)
	assert.True(t, res.Succeeded())
	assert.False(t, res.Aborted)
	assert.Equal(t, 3, res.Started)
	assert.Equal(t, 3, res.Counts.Succeeded)
	assert.Equal(t, []string{
		filepath.Join("tools", "bin", "a") + " -flag a\n", "a out\n",
		filepath.Join("tools", "bin", "b") + " -flag b\n", "b out\n",
		filepath.Join("tools", "bin", "c") + " -flag c\n", "c out\n",
	}, rec.texts())

	last := -1
	for _, e := range rec.events {
		assert.GreaterOrEqual(t, e.index, last, "events regressed to an earlier task")
		last = e.index
	}

	for _, spec := range starter.specs {
		assert.True(t, spec.MergeOutput)
		assert.True(t, filepath.IsAbs(spec.Dir))
		assert.Equal(t, "bin", filepath.Base(spec.Dir))
	}
}

func TestCommandsAbortOnAbnormalTermination(t *testing.T) {
	for _, ignore := range []bool{false, true} {
		t.Run(fmt.Sprintf("ignoreErrors=%v", ignore), func(t *testing.T) {
			starter := newFakeStarter(byBase(map[string]script{
				"a": {},
				"b": {stdout: "partial\n", crash: true},
				"c": {},
			}))
			rec := &recorder{}
			res := pipeline.Runner{Starter: starter, Emit: rec.emit}.Commands(context.Background(), tasks("a", "b", "c"), ignore)

			assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
			assert.True(t, res.Aborted)
			assert.Equal(t, 2, res.Started)
			assert.Len(t, starter.programs(), 2)
			require.Len(t, rec.ofKind("error"), 1)
			assert.Contains(t, rec.ofKind("error")[0].text, "terminated abnormally")
		})
	}
}

func TestCommandsStopOnNonZeroExit(t *testing.T) {
	starter := newFakeStarter(byBase(map[string]script{
		"a": {code: 2},
		"b": {},
	}))
	rec := &recorder{}
	res := pipeline.Runner{Starter: starter, Emit: rec.emit}.Commands(context.Background(), tasks("a", "b"), false)

	assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
	assert.True(t, res.Aborted)
	assert.Len(t, starter.programs(), 1)
	assert.Contains(t, rec.joined(), "exited with code 2")
}

func TestCommandsIgnoreErrorsContinues(t *testing.T) {
	starter := newFakeStarter(byBase(map[string]script{
		"a": {code: 1},
		"b": {},
	}))
	res := pipeline.Runner{Starter: starter}.Commands(context.Background(), tasks("a", "b"), true)

	assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
	assert.False(t, res.Aborted)
	assert.Len(t, starter.programs(), 2)
	assert.Equal(t, 1, res.Counts.Failed)
	assert.Equal(t, 1, res.Counts.Succeeded)
}

func TestCommandsIgnoreErrorsAllZeroSucceeds(t *testing.T) {
	starter := newFakeStarter(func(process.Spec) script { return script{} })
	res := pipeline.Runner{Starter: starter}.Commands(context.Background(), tasks("a", "b"), true)
	assert.Equal(t, pipeline.OutcomeSucceeded, res.Outcome)
}

func TestCommandsStartFailureIsFatal(t *testing.T) {
	starter := newFakeStarter(byBase(map[string]script{
		"a": {err: fmt.Errorf("%w: a: %w", process.ErrStart, errNotFound)},
		"b": {},
	}))
	rec := &recorder{}
	res := pipeline.Runner{Starter: starter, Emit: rec.emit}.Commands(context.Background(), tasks("a", "b"), true)

	assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
	assert.True(t, res.Aborted)
	assert.Empty(t, starter.programs())
	assert.Contains(t, rec.joined(), "executable file not found")
}

func TestCommandsCancellationTerminatesCurrentTask(t *testing.T) {
	starter := newFakeStarter(byBase(map[string]script{
		"a": {},
		"b": {stdout: "working\n", block: true},
		"c": {},
	}))
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for spec := range starter.started {
			if filepath.Base(spec.Program) == "b" {
				cancel()
				return
			}
		}
	}()

	done := make(chan pipeline.Result, 1)
	go func() {
		done <- pipeline.Runner{Starter: starter, Emit: rec.emit}.Commands(ctx, tasks("a", "b", "c"), true)
	}()

	var res pipeline.Result
	select {
	case res = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("cancelled run did not finish")
	}

	assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 2, res.Started)
	assert.Len(t, starter.programs(), 2)
	notices := rec.ofKind("notice")
	require.NotEmpty(t, notices)
	assert.Equal(t, "Cancelled\n", notices[len(notices)-1].text)
}

func TestCommandsCancelledBeforeStart(t *testing.T) {
	starter := newFakeStarter(func(process.Spec) script { return script{} })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := pipeline.Runner{Starter: starter}.Commands(ctx, tasks("a"), false)
	assert.True(t, res.Cancelled)
	assert.Equal(t, pipeline.OutcomeFailed, res.Outcome)
	assert.Zero(t, res.Started)
	assert.Empty(t, starter.programs())
}

func TestTaskInvocationAndDir(t *testing.T) {
	bare := pipeline.Task{Program: "linker_modtools"}
	assert.Equal(t, "linker_modtools", bare.Invocation())
	assert.Empty(t, bare.Dir())

	task := pipeline.Task{Program: filepath.Join("bin", "cod2map64"), Args: []string{"-platform", "pc"}}
	assert.Equal(t, filepath.Join("bin", "cod2map64")+" -platform pc", task.Invocation())
	abs, err := filepath.Abs("bin")
	require.NoError(t, err)
	assert.Equal(t, abs, task.Dir())
}
