package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/infra/config"
	"github.com/segmentio/ksuid"
)

func sampleRun() (*domain.Run, []domain.JobResult) {
	started := time.UnixMilli(time.Now().UnixMilli())
	run := &domain.Run{
		ID:        ksuid.New().String(),
		OutputDir: "/data/yt",
		Status:    domain.RunRunning,
		Targets:   3,
		StartedAt: started,
	}

	jobs := []domain.JobResult{
		{
			ID: "job-1", RunID: run.ID, URL: "https://yt/playlist?list=A", Index: 1, Total: 2,
			Outcome: domain.OutcomeOK, Title: "Mix", Folder: "Mix", Playlist: true,
			StartedAt: started, FinishedAt: started.Add(time.Second),
		},
		{
			ID: "job-2", RunID: run.ID, URL: "https://yt/watch?v=1", Index: 2, Total: 2,
			Outcome: domain.OutcomeFailed, Error: "video is private or unavailable",
			StartedAt: started, FinishedAt: started.Add(2 * time.Second),
		},
	}
	return run, jobs
}

// exerciseStore runs the same round trip against any backend.
func exerciseStore(t *testing.T, s app.Store) {
	t.Helper()
	ctx := context.Background()
	run, jobs := sampleRun()

	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	for i := range jobs {
		if err := s.SaveJob(ctx, &jobs[i]); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	run.Status = domain.RunCompleted
	run.Summary = domain.BatchSummary{OK: 1, Failed: 1, Skipped: 1}
	run.FinishedAt = run.StartedAt.Add(3 * time.Second)
	if err := s.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Status != domain.RunCompleted || got.Summary != run.Summary || got.Targets != 3 {
		t.Errorf("unexpected run: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) || !got.FinishedAt.Equal(run.FinishedAt) {
		t.Errorf("timestamps lost: %v %v", got.StartedAt, got.FinishedAt)
	}
	if len(got.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got.Jobs))
	}
	if got.Jobs[0].ID != "job-1" || !got.Jobs[0].Playlist || got.Jobs[0].Folder != "Mix" {
		t.Errorf("unexpected first job: %+v", got.Jobs[0])
	}
	if got.Jobs[1].Error == "" || got.Jobs[1].Outcome != domain.OutcomeFailed {
		t.Errorf("unexpected second job: %+v", got.Jobs[1])
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	found := false
	for _, r := range runs {
		if r.ID == run.ID {
			found = true
		}
	}
	if !found {
		t.Error("run missing from ListRuns")
	}

	if _, err := s.GetRun(ctx, "does-not-exist"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	ghost := &domain.Run{ID: "ghost", Status: domain.RunCompleted}
	if err := s.FinishRun(ctx, ghost); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound for unknown run, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "gotube.db")
	s, err := NewPersistentStore(path)
	if err != nil {
		t.Fatalf("NewPersistentStore failed: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotube.db")

	s, err := NewPersistentStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewPersistentStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	s.Close()
}

func TestSQLiteListRunsNewestFirst(t *testing.T) {
	s, err := NewPersistentStore(filepath.Join(t.TempDir(), "gotube.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := ksuid.NewRandomWithTime(time.Now().Add(time.Duration(i) * time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id.String())
		if err := s.CreateRun(ctx, &domain.Run{ID: id.String(), Status: domain.RunRunning, StartedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("unexpected order: %v", runs)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Error("unfinished run should have a zero FinishedAt")
	}
}

func TestOpenNone(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: "none"})
	if err != nil || s != nil {
		t.Fatalf("expected nil store, got %v %v", s, err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GOTUBE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GOTUBE_TEST_POSTGRES_DSN not set")
	}

	s, err := NewPostgresStore(context.Background(), dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}
