package domain

import (
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// JobResult is the per-item outcome reported by the Single-Item Downloader.
type JobResult struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	URL        string    `json:"url"`
	Index      int       `json:"index"`
	Total      int       `json:"total"`
	Outcome    Outcome   `json:"outcome"`
	Title      string    `json:"title,omitempty"`
	Folder     string    `json:"folder,omitempty"`
	Playlist   bool      `json:"playlist"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Tag renders the [index/total] label used in log lines.
func (r JobResult) Tag() string {
	return Tag(r.Index, r.Total)
}

func Tag(index, total int) string {
	return fmt.Sprintf("[%d/%d]", index, total)
}

// BatchSummary aggregates one batch run.
type BatchSummary struct {
	OK      int  `json:"ok"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Stopped bool `json:"stopped"`
}

// Add counts a finished job.
func (s *BatchSummary) Add(r JobResult) {
	switch r.Outcome {
	case OutcomeOK:
		s.OK++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
