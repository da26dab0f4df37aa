package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// runSequential processes items one at a time with an interruptible cooldown
// between them. It reports whether a stop request cut the phase short.
func (b *Batch) runSequential(ctx context.Context, s *Session, items []Item, record func(domain.JobResult)) bool {
	cooldown := s.Options.Cooldown
	if cooldown <= 0 {
		cooldown = 5 * s.Options.RetryUnit
	}

	for i, item := range items {
		if isCancelled(ctx) {
			return true
		}

		if i > 0 {
			b.log.Info("Anti rate-limit pause (%v)...", cooldown)
			if err := b.wait(ctx, cooldown); err != nil {
				return true
			}
		}

		record(b.downloader.Download(ctx, s, item))
	}

	return isCancelled(ctx)
}

// runConcurrent submits items to a pool bounded by Options.Parallel. A
// failing or panicking item never cancels its siblings. Results are recorded
// as they complete and in-flight items are always drained.
func (b *Batch) runConcurrent(ctx context.Context, s *Session, items []Item, record func(domain.JobResult)) bool {
	var g errgroup.Group
	g.SetLimit(s.Options.Parallel)

	stopped := false
	for _, item := range items {
		if isCancelled(ctx) {
			stopped = true
			break
		}

		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("%s Unexpected failure: %v", domain.Tag(item.Index, item.Total), r)
					record(domain.JobResult{
						ID:         uuid.NewString(),
						RunID:      item.RunID,
						URL:        item.Target.URL,
						Index:      item.Index,
						Total:      item.Total,
						Outcome:    domain.OutcomeFailed,
						Error:      fmt.Sprintf("panic: %v", r),
						FinishedAt: time.Now(),
					})
				}
			}()

			// g.Go may have blocked on a full pool while the stop arrived
			if isCancelled(ctx) {
				return nil
			}

			record(b.downloader.Download(ctx, s, item))
			return nil
		})
	}

	_ = g.Wait()
	return stopped || isCancelled(ctx)
}

// recorder serialises summary updates coming from concurrent items.
type recorder struct {
	mu      sync.Mutex
	summary *domain.BatchSummary
	jobs    []domain.JobResult
	save    func(domain.JobResult)
}

func (r *recorder) record(res domain.JobResult) {
	r.mu.Lock()
	r.summary.Add(res)
	r.jobs = append(r.jobs, res)
	r.mu.Unlock()

	if r.save != nil {
		r.save(res)
	}
}
