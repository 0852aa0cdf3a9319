package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"modlauncher/internal/logging"
	"modlauncher/internal/pipeline"
	"modlauncher/internal/process"
)

// errPipelineFailed is returned after a run that did not succeed. The run
// output already explains the failure, so main does not print it again.
var errPipelineFailed = errors.New("pipeline run failed")

const (
	historyKeep       = 200
	transcriptPrefix  = "modlog_"
	transcriptPattern = transcriptPrefix + "*.txt"
)

// runOptions are shared by every command that drives the pipeline.
type runOptions struct {
	saveLog bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.saveLog, "save-log", false, "Write the run output to the log directory")
}

// pipelineStart begins a run on the launcher and returns its ID.
type pipelineStart func(ctx context.Context, l *pipeline.Launcher) (string, error)

// runPipeline holds the run lock, starts the run, streams its events to the
// command output and records the result. SIGINT and SIGTERM cancel the run.
func runPipeline(cmd *cobra.Command, ctx *commandContext, opts runOptions, start pipelineStart) (pipeline.Result, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return pipeline.Result{}, err
	}
	logger := ctx.loggerOrNop()

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return pipeline.Result{}, fmt.Errorf("another modlauncher run holds %s", cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := newEventRenderer(cmd.OutOrStdout(), ctx.colorEnabled())
	launcher := pipeline.NewLauncher(process.ExecStarter{}, pipeline.WithLogger(logger))
	launcher.OnOutput(renderer.handle)

	var result pipeline.Result
	launcher.OnFinished(func(res pipeline.Result) { result = res })

	runID, err := start(runCtx, launcher)
	if err != nil {
		return pipeline.Result{}, err
	}

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			launcher.Cancel()
		case <-watchDone:
		}
	}()
	launcher.Wait()
	close(watchDone)

	logger = logger.With(logging.String(logging.FieldRunID, runID))
	if store, err := ctx.ensureStore(); err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
	} else {
		if err := store.RecordRun(cmd.Context(), result, renderer.Summary()); err != nil {
			logger.Warn("record run failed", logging.Error(err))
		}
		if _, err := store.PruneRuns(cmd.Context(), historyKeep); err != nil {
			logger.Warn("prune run history failed", logging.Error(err))
		}
	}

	if opts.saveLog {
		path, err := saveTranscript(cfg.Paths.LogDir, renderer.Transcript(), result.StartedAt)
		if err != nil {
			logger.Warn("save run log failed", logging.Error(err))
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved run log to %s\n", path)
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: transcriptPattern,
		})
	}

	logger.Debug("run recorded",
		logging.String("kind", string(result.Kind)),
		logging.String("outcome", result.Outcome.String()),
		logging.Bool("cancelled", result.Cancelled),
		logging.Duration("duration", result.Duration()),
	)

	if !result.Succeeded() {
		return result, errPipelineFailed
	}
	return result, nil
}

func saveTranscript(dir, transcript string, startedAt time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("log directory is not configured")
	}
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	name := transcriptPrefix + startedAt.Local().Format("2006-01-02_15-04-05") + ".txt"
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return "", fmt.Errorf("write run log: %w", err)
	}
	return path, nil
}
