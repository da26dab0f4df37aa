package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/options"
	"github.com/datallboy/gotube/internal/registry"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// PlanFunc resolves the batch phases once cookies are known. It is used for
// channel downloads, where listing the channel needs the same cookies.
type PlanFunc func(ctx context.Context, cookies domain.CookieConfig) ([]domain.Phase, error)

type BatchRequest struct {
	// RunID is generated when empty
	RunID string

	Phases []domain.Phase
	Plan   PlanFunc

	Options     domain.DownloadOptions
	CookieMode  domain.CookieMode
	CookieValue string

	// Aria2cPath enables the accelerated downloader when set
	Aria2cPath string

	OnDone func(domain.BatchSummary)
}

// Batch is the orchestrator: it filters completed playlists, runs the
// remaining items sequentially or on a bounded pool and aggregates a summary.
type Batch struct {
	log        app.Logger
	store      app.Store
	downloader *Downloader
	wait       WaitFunc
}

func NewBatch(appCtx *app.Context) *Batch {
	return &Batch{
		log:        appCtx.Logger,
		store:      appCtx.Store,
		downloader: NewDownloader(appCtx.Engine, appCtx.Logger),
		wait:       sleepWithContext,
	}
}

// Run executes the whole batch. Errors are only returned for problems that
// abort the batch before any item starts: cookies, planning, the output
// directory and the registry. Per-item failures are counted in the summary.
func (b *Batch) Run(ctx context.Context, req BatchRequest) (*domain.Run, error) {
	run := &domain.Run{
		ID:        req.RunID,
		OutputDir: req.Options.OutputDir,
		Status:    domain.RunRunning,
		StartedAt: time.Now(),
	}
	if run.ID == "" {
		run.ID = ksuid.New().String()
	}
	b.persist(ctx, "create run", func(c context.Context) error { return b.store.CreateRun(c, run) })

	session, phases, err := b.prepare(ctx, req)
	if err != nil {
		b.log.Error("Batch aborted: %v", err)
		run.Status = domain.RunAborted
		run.Error = err.Error()
		b.finish(ctx, run, req.OnDone)
		return run, err
	}

	for _, p := range phases {
		run.Targets += len(p.Targets)
	}

	rec := &recorder{
		summary: &run.Summary,
		save: func(res domain.JobResult) {
			b.persist(ctx, "save job", func(c context.Context) error { return b.store.SaveJob(c, &res) })
		},
	}

	for i, phase := range phases {
		if isCancelled(ctx) {
			run.Summary.Stopped = true
			break
		}

		if len(phases) > 1 {
			name := phase.Name
			if name == "" {
				name = fmt.Sprintf("Phase %d", i+1)
			}
			b.log.Info("%s", strings.Repeat("=", 50))
			b.log.Info("  PHASE %d: %s", i+1, name)
			b.log.Info("%s", strings.Repeat("=", 50))
		}

		if b.runPhase(ctx, run.ID, session, phase.Targets, rec) {
			run.Summary.Stopped = true
			break
		}
	}

	run.Jobs = rec.jobs
	if run.Summary.Stopped {
		run.Status = domain.RunStopped
	} else {
		run.Status = domain.RunCompleted
	}

	b.finish(ctx, run, req.OnDone)
	return run, nil
}

// prepare resolves everything shared by the batch's items.
func (b *Batch) prepare(ctx context.Context, req BatchRequest) (*Session, []domain.Phase, error) {
	cookies, err := options.BuildCookies(req.CookieMode, req.CookieValue)
	if err != nil {
		return nil, nil, err
	}

	phases := req.Phases
	if req.Plan != nil {
		phases, err = req.Plan(ctx, cookies)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to plan batch: %w", err)
		}
	}

	opts := req.Options
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create out_dir: %w", err)
		}
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}

	reg, err := registry.Load(opts.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	s := &Session{
		Options:    opts,
		Cookies:    cookies,
		Subtitles:  options.Subtitles(opts.Subtitles.Enabled, opts.Subtitles.Lang),
		Downloader: options.ExternalDownloader(req.Aria2cPath),
		Registry:   reg,
	}
	if opts.AudioOnly {
		s.Audio = options.AudioExtraction(opts.AudioFormat)
	}

	return s, phases, nil
}

// runPhase filters completed playlists and processes the rest. It reports
// whether the phase was cut short by a stop request.
func (b *Batch) runPhase(ctx context.Context, runID string, s *Session, targets []domain.Target, rec *recorder) bool {
	var pending []domain.Target
	skipped := 0

	for _, t := range targets {
		if s.Registry.IsDone(t.URL) {
			skipped++
			now := time.Now()
			rec.record(domain.JobResult{
				ID:         uuid.NewString(),
				RunID:      runID,
				URL:        t.URL,
				Outcome:    domain.OutcomeSkipped,
				StartedAt:  now,
				FinishedAt: now,
			})
			continue
		}
		pending = append(pending, t)
	}

	if skipped > 0 {
		b.log.Info("%d playlist(s) already downloaded, skipped", skipped)
	}

	if len(pending) == 0 {
		b.log.Info("Nothing to download, everything is up to date!")
		return false
	}

	items := make([]Item, len(pending))
	for i, t := range pending {
		items[i] = Item{RunID: runID, Target: t, Index: i + 1, Total: len(pending)}
	}

	b.log.Info("%d link(s) to download", len(items))
	b.log.Info("%d concurrent fragment(s) per video", s.Options.Fragments)
	b.log.Info("%d parallel download(s)", s.Options.Parallel)

	if s.Options.Parallel <= 1 {
		return b.runSequential(ctx, s, items, rec.record)
	}
	return b.runConcurrent(ctx, s, items, rec.record)
}

func (b *Batch) finish(ctx context.Context, run *domain.Run, onDone func(domain.BatchSummary)) {
	run.FinishedAt = time.Now()

	sum := run.Summary
	b.log.Info("%s", strings.Repeat("=", 50))
	switch run.Status {
	case domain.RunStopped:
		b.log.Info("  STOPPED: %d succeeded, %d failed, %d skipped", sum.OK, sum.Failed, sum.Skipped)
	case domain.RunAborted:
		b.log.Info("  ABORTED: %s", run.Error)
	default:
		b.log.Info("  DONE: %d succeeded, %d failed, %d skipped", sum.OK, sum.Failed, sum.Skipped)
	}
	b.log.Info("%s", strings.Repeat("=", 50))

	b.persist(ctx, "finish run", func(c context.Context) error { return b.store.FinishRun(c, run) })

	if onDone != nil {
		onDone(sum)
	}
}

// persist writes history without letting a failure or a stop request affect the batch.
func (b *Batch) persist(ctx context.Context, what string, fn func(context.Context) error) {
	if b.store == nil {
		return
	}
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		b.log.Warn("History: failed to %s: %v", what, err)
	}
}
