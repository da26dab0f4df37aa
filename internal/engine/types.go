package engine

import (
	"context"
	"time"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/registry"
)

// Item is one pending target with its position in the current phase.
type Item struct {
	RunID  string
	Target domain.Target
	Index  int
	Total  int
}

// Session is resolved once per batch and shared read-only by every item.
// Registry is the only member mutated concurrently and guards itself.
type Session struct {
	Options    domain.DownloadOptions
	Cookies    domain.CookieConfig
	Audio      *domain.AudioExtraction
	Subtitles  *domain.SubtitleSpec
	Downloader *domain.ExternalDownloader
	Registry   *registry.Registry
}

// WaitFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type WaitFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isCancelled is a small utility to check context state
func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
