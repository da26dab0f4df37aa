package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    output_dir   TEXT NOT NULL,
    status       TEXT NOT NULL,
    targets      INTEGER NOT NULL DEFAULT 0,
    ok           INTEGER NOT NULL DEFAULT 0,
    failed       INTEGER NOT NULL DEFAULT 0,
    skipped      INTEGER NOT NULL DEFAULT 0,
    stopped      BOOLEAN NOT NULL DEFAULT FALSE,
    error        TEXT,
    started_at   BIGINT NOT NULL,
    finished_at  BIGINT
);

CREATE TABLE IF NOT EXISTS jobs (
    id           TEXT PRIMARY KEY,
    run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    url          TEXT NOT NULL,
    item_index   INTEGER NOT NULL DEFAULT 0,
    item_total   INTEGER NOT NULL DEFAULT 0,
    outcome      TEXT NOT NULL,
    title        TEXT,
    folder       TEXT,
    playlist     BOOLEAN NOT NULL DEFAULT FALSE,
    error        TEXT,
    started_at   BIGINT NOT NULL,
    finished_at  BIGINT,
    seq          BIGSERIAL
);

CREATE INDEX IF NOT EXISTS idx_jobs_run_id ON jobs(run_id);
`

// PostgresStore keeps run history in PostgreSQL, for deployments where
// several instances share one history.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not apply postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *domain.Run) error {
	var dbo runDBO
	dbo.FromDomain(run)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		dbo.ID, dbo.OutputDir, dbo.Status, dbo.Targets,
		dbo.OK, dbo.Failed, dbo.Skipped, dbo.Stopped,
		dbo.Error, dbo.StartedAt, dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", run.ID, err)
	}
	return nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, run *domain.Run) error {
	var dbo runDBO
	dbo.FromDomain(run)

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, targets = $2, ok = $3, failed = $4, skipped = $5, stopped = $6, error = $7, finished_at = $8
         WHERE id = $9`,
		dbo.Status, dbo.Targets, dbo.OK, dbo.Failed, dbo.Skipped, dbo.Stopped,
		dbo.Error, dbo.FinishedAt, dbo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRunNotFound, run.ID)
	}
	return nil
}

func (s *PostgresStore) SaveJob(ctx context.Context, job *domain.JobResult) error {
	var dbo jobDBO
	dbo.FromDomain(job)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         ON CONFLICT (id) DO UPDATE SET outcome = EXCLUDED.outcome, error = EXCLUDED.error, finished_at = EXCLUDED.finished_at`,
		dbo.ID, dbo.RunID, dbo.URL, dbo.Index, dbo.Total, dbo.Outcome,
		dbo.Title, dbo.Folder, dbo.Playlist, dbo.Error, dbo.StartedAt, dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var dbo runDBO
	err := s.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id).Scan(
		&dbo.ID, &dbo.OutputDir, &dbo.Status, &dbo.Targets,
		&dbo.OK, &dbo.Failed, &dbo.Skipped, &dbo.Stopped,
		&dbo.Error, &dbo.StartedAt, &dbo.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run := dbo.ToDomain()

	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE run_id = $1 ORDER BY finished_at, seq`, id)
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

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT $1`, limit)
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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
