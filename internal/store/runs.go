package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/datallboy/gotube/internal/domain"
)

const runColumns = `id, output_dir, status, targets, ok, failed, skipped, stopped, error, started_at, finished_at`

const jobColumns = `id, run_id, url, item_index, item_total, outcome, title, folder, playlist, error, started_at, finished_at`

func (s *PersistentStore) CreateRun(ctx context.Context, run *domain.Run) error {
	var dbo runDBO
	dbo.FromDomain(run)

	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		dbo.ID, dbo.OutputDir, dbo.Status, dbo.Targets,
		dbo.OK, dbo.Failed, dbo.Skipped, dbo.Stopped,
		dbo.Error, dbo.StartedAt, dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", run.ID, err)
	}
	return nil
}

func (s *PersistentStore) FinishRun(ctx context.Context, run *domain.Run) error {
	var dbo runDBO
	dbo.FromDomain(run)

	query := `UPDATE runs SET status = ?, targets = ?, ok = ?, failed = ?, skipped = ?, stopped = ?, error = ?, finished_at = ?
              WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		dbo.Status, dbo.Targets, dbo.OK, dbo.Failed, dbo.Skipped, dbo.Stopped,
		dbo.Error, dbo.FinishedAt, dbo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRunNotFound, run.ID)
	}
	return nil
}

func (s *PersistentStore) SaveJob(ctx context.Context, job *domain.JobResult) error {
	var dbo jobDBO
	dbo.FromDomain(job)

	query := `INSERT OR REPLACE INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		dbo.ID, dbo.RunID, dbo.URL, dbo.Index, dbo.Total, dbo.Outcome,
		dbo.Title, dbo.Folder, dbo.Playlist, dbo.Error, dbo.StartedAt, dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// GetRun loads a run with its jobs in completion order.
func (s *PersistentStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ? LIMIT 1`, id)

	var dbo runDBO
	err := row.Scan(&dbo.ID, &dbo.OutputDir, &dbo.Status, &dbo.Targets,
		&dbo.OK, &dbo.Failed, &dbo.Skipped, &dbo.Stopped,
		&dbo.Error, &dbo.StartedAt, &dbo.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run := dbo.ToDomain()

	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE run_id = ? ORDER BY finished_at, rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var j jobDBO
		if err := rows.Scan(&j.ID, &j.RunID, &j.URL, &j.Index, &j.Total, &j.Outcome,
			&j.Title, &j.Folder, &j.Playlist, &j.Error, &j.StartedAt, &j.FinishedAt); err != nil {
			return nil, err
		}
		run.Jobs = append(run.Jobs, j.ToDomain())
	}

	return run, rows.Err()
}

// ListRuns returns the most recent runs first, without their jobs.
func (s *PersistentStore) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	// KSUIDs sort chronologically
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		var dbo runDBO
		if err := rows.Scan(&dbo.ID, &dbo.OutputDir, &dbo.Status, &dbo.Targets,
			&dbo.OK, &dbo.Failed, &dbo.Skipped, &dbo.Stopped,
			&dbo.Error, &dbo.StartedAt, &dbo.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, dbo.ToDomain())
	}

	return runs, rows.Err()
}
