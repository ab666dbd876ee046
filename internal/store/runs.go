package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = "id, status, started_at, finished_at, extracts, rows_read, ingested, dropped, rejected, duplicates, survivors, anomalies, outputs, error_message"

// BeginRun records a run in the running state.
func (s *Store) BeginRun(ctx context.Context, id string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, RunRunning, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun persists the final state and counters of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished == nil {
		now := time.Now().UTC()
		finished = &now
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET status = ?, finished_at = ?, extracts = ?, rows_read = ?, ingested = ?,
             dropped = ?, rejected = ?, duplicates = ?, survivors = ?, anomalies = ?,
             outputs = ?, error_message = ?
         WHERE id = ?`,
		run.Status,
		nullableTime(finished),
		run.Extracts,
		run.RowsRead,
		run.Ingested,
		run.Dropped,
		run.Rejected,
		run.Duplicates,
		run.Survivors,
		run.Anomalies,
		joinList(run.Outputs),
		nullableString(run.ErrorMessage),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %s: not found", run.ID)
	}
	return nil
}

// RecordExtract stores the outcome of one extract of a run.
func (s *Store) RecordExtract(ctx context.Context, e Extract) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_extracts (
            run_id, position, period, path, profile, sha256, status, reason, detail,
            rows_read, incidents, dropped, field_errors
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID,
		e.Position,
		e.Period,
		e.Path,
		nullableString(e.Profile),
		nullableString(e.SHA256),
		e.Status,
		nullableString(e.Reason),
		nullableString(e.Detail),
		e.RowsRead,
		e.Incidents,
		e.Dropped,
		e.FieldErrors,
	)
	if err != nil {
		return fmt.Errorf("insert run extract: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier. A missing run returns nil, nil.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent run with the given status, or the most
// recent run of any status when status is empty.
func (s *Store) LatestRun(ctx context.Context, status RunStatus) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT 1`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first. A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// ListExtracts returns the extracts of a run in configured order.
func (s *Store) ListExtracts(ctx context.Context, runID string) ([]Extract, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, position, period, path, profile, sha256, status, reason, detail,
                rows_read, incidents, dropped, field_errors
         FROM run_extracts WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list extracts: %w", err)
	}
	defer rows.Close()

	var out []Extract
	for rows.Next() {
		var (
			e                            Extract
			profile, sha, reason, detail sql.NullString
			status                       string
		)
		if err := rows.Scan(&e.RunID, &e.Position, &e.Period, &e.Path, &profile, &sha, &status, &reason, &detail,
			&e.RowsRead, &e.Incidents, &e.Dropped, &e.FieldErrors); err != nil {
			return nil, fmt.Errorf("scan extract: %w", err)
		}
		e.Profile = profile.String
		e.SHA256 = sha.String
		e.Status = ExtractStatus(status)
		e.Reason = reason.String
		e.Detail = detail.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// PruneRuns deletes all but the newest keep runs that are not referenced by
// the canonical incident set. It returns the number of runs removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs
         WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?)
           AND id NOT IN (SELECT DISTINCT run_id FROM incidents)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		startedRaw  string
		finishedRaw sql.NullString
		outputs     sql.NullString
		errMessage  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&startedRaw,
		&finishedRaw,
		&run.Extracts,
		&run.RowsRead,
		&run.Ingested,
		&run.Dropped,
		&run.Rejected,
		&run.Duplicates,
		&run.Survivors,
		&run.Anomalies,
		&outputs,
		&errMessage,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	if started := parseTime(sql.NullString{String: startedRaw, Valid: true}); started != nil {
		run.StartedAt = *started
	}
	run.FinishedAt = parseTime(finishedRaw)
	run.Outputs = splitList(outputs)
	run.ErrorMessage = errMessage.String
	return &run, nil
}
