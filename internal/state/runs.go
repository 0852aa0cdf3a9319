package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modlauncher/internal/pipeline"
)

const runColumns = "id, kind, started_at, finished_at, outcome, cancelled, aborted, tasks, total, succeeded, skipped, failed, summary"

// Run is one recorded pipeline run.
type Run struct {
	pipeline.Result
	Summary string
}

// RecordRun stores a finished run. Recording the same run ID twice replaces
// the earlier row.
func (s *Store) RecordRun(ctx context.Context, res pipeline.Result, summary string) error {
	if res.RunID == "" {
		return errors.New("run id is empty")
	}
	_, err := s.exec(ctx,
		`INSERT OR REPLACE INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		string(res.Kind),
		formatTime(res.StartedAt),
		formatTime(res.FinishedAt),
		res.Outcome.String(),
		boolToInt(res.Cancelled),
		boolToInt(res.Aborted),
		res.Started,
		res.Counts.Total,
		res.Counts.Succeeded,
		res.Counts.Skipped,
		res.Counts.Failed,
		nullableString(summary),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY finished_at DESC, started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PruneRuns keeps the newest keep runs and deletes the rest.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.exec(ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY finished_at DESC, started_at DESC LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs rows affected: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		id, kind, outcome       string
		startedRaw, finishedRaw string
		cancelled, aborted      int
		started, total          int
		succeeded, skipped      int
		failed                  int
		summary                 sql.NullString
	)
	if err := scanner.Scan(
		&id, &kind, &startedRaw, &finishedRaw, &outcome,
		&cancelled, &aborted, &started, &total,
		&succeeded, &skipped, &failed, &summary,
	); err != nil {
		return Run{}, err
	}

	run := Run{
		Result: pipeline.Result{
			RunID:      id,
			Kind:       pipeline.Kind(kind),
			Outcome:    parseOutcome(outcome),
			Cancelled:  cancelled != 0,
			Aborted:    aborted != 0,
			Started:    started,
			StartedAt:  parseTime(startedRaw),
			FinishedAt: parseTime(finishedRaw),
			Counts: pipeline.Counts{
				Total:     total,
				Succeeded: succeeded,
				Skipped:   skipped,
				Failed:    failed,
			},
		},
		Summary: summary.String,
	}
	return run, nil
}

func parseOutcome(raw string) pipeline.Outcome {
	switch raw {
	case pipeline.OutcomeSucceeded.String():
		return pipeline.OutcomeSucceeded
	case pipeline.OutcomeFailed.String():
		return pipeline.OutcomeFailed
	default:
		return pipeline.OutcomeUnknown
	}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
