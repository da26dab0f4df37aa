package store

import (
	"database/sql"
	"time"

	"github.com/datallboy/gotube/internal/domain"
)

// runDBO maps to the runs table
type runDBO struct {
	ID         string         `db:"id"`
	OutputDir  string         `db:"output_dir"`
	Status     string         `db:"status"`
	Targets    int            `db:"targets"`
	OK         int            `db:"ok"`
	Failed     int            `db:"failed"`
	Skipped    int            `db:"skipped"`
	Stopped    bool           `db:"stopped"`
	Error      sql.NullString `db:"error"`
	StartedAt  int64          `db:"started_at"`
	FinishedAt sql.NullInt64  `db:"finished_at"`
}

// Mapper: DBO to Domain Run
func (r *runDBO) ToDomain() *domain.Run {
	return &domain.Run{
		ID:        r.ID,
		OutputDir: r.OutputDir,
		Status:    domain.RunStatus(r.Status),
		Targets:   r.Targets,
		Summary: domain.BatchSummary{
			OK:      r.OK,
			Failed:  r.Failed,
			Skipped: r.Skipped,
			Stopped: r.Stopped,
		},
		Error:      r.Error.String,
		StartedAt:  fromMillis(r.StartedAt),
		FinishedAt: fromNullMillis(r.FinishedAt),
	}
}

// Mapper: Domain Run to DBO
func (r *runDBO) FromDomain(run *domain.Run) {
	r.ID = run.ID
	r.OutputDir = run.OutputDir
	r.Status = string(run.Status)
	r.Targets = run.Targets
	r.OK = run.Summary.OK
	r.Failed = run.Summary.Failed
	r.Skipped = run.Summary.Skipped
	r.Stopped = run.Summary.Stopped
	r.Error = sql.NullString{String: run.Error, Valid: run.Error != ""}
	r.StartedAt = toMillis(run.StartedAt)
	r.FinishedAt = toNullMillis(run.FinishedAt)
}

// jobDBO maps to the jobs table
type jobDBO struct {
	ID         string         `db:"id"`
	RunID      string         `db:"run_id"`
	URL        string         `db:"url"`
	Index      int            `db:"item_index"`
	Total      int            `db:"item_total"`
	Outcome    string         `db:"outcome"`
	Title      sql.NullString `db:"title"`
	Folder     sql.NullString `db:"folder"`
	Playlist   bool           `db:"playlist"`
	Error      sql.NullString `db:"error"`
	StartedAt  int64          `db:"started_at"`
	FinishedAt sql.NullInt64  `db:"finished_at"`
}

// Mapper: DBO to Domain JobResult
func (j *jobDBO) ToDomain() domain.JobResult {
	return domain.JobResult{
		ID:         j.ID,
		RunID:      j.RunID,
		URL:        j.URL,
		Index:      j.Index,
		Total:      j.Total,
		Outcome:    domain.Outcome(j.Outcome),
		Title:      j.Title.String,
		Folder:     j.Folder.String,
		Playlist:   j.Playlist,
		Error:      j.Error.String,
		StartedAt:  fromMillis(j.StartedAt),
		FinishedAt: fromNullMillis(j.FinishedAt),
	}
}

// Mapper: Domain JobResult to DBO
func (j *jobDBO) FromDomain(job *domain.JobResult) {
	j.ID = job.ID
	j.RunID = job.RunID
	j.URL = job.URL
	j.Index = job.Index
	j.Total = job.Total
	j.Outcome = string(job.Outcome)
	j.Title = sql.NullString{String: job.Title, Valid: job.Title != ""}
	j.Folder = sql.NullString{String: job.Folder, Valid: job.Folder != ""}
	j.Playlist = job.Playlist
	j.Error = sql.NullString{String: job.Error, Valid: job.Error != ""}
	j.StartedAt = toMillis(job.StartedAt)
	j.FinishedAt = toNullMillis(job.FinishedAt)
}

// Timestamps are stored as unix milliseconds so both backends share one mapping

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func toNullMillis(t time.Time) sql.NullInt64 {
	return sql.NullInt64{Int64: toMillis(t), Valid: !t.IsZero()}
}

func fromNullMillis(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return fromMillis(n.Int64)
}
