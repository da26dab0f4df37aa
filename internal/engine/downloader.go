package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/options"
	"github.com/datallboy/gotube/internal/registry"
	"github.com/google/uuid"
)

const (
	playlistTemplate = "%(playlist_index)03d - %(title)s.%(ext)s"
	videoTemplate    = "%(title)s.%(ext)s"

	// backoffUnits is multiplied by the attempt number and the retry unit
	backoffUnits = 60
)

// Downloader runs the per-item state machine: probe with retries, classify,
// transfer, then record playlist completion.
type Downloader struct {
	engine app.Engine
	log    app.Logger
	wait   WaitFunc
}

func NewDownloader(engine app.Engine, log app.Logger) *Downloader {
	return &Downloader{engine: engine, log: log, wait: sleepWithContext}
}

// Download processes one item from start to finish. Every failure is
// contained in the returned result.
func (d *Downloader) Download(ctx context.Context, s *Session, item Item) domain.JobResult {
	res := domain.JobResult{
		ID:        uuid.NewString(),
		RunID:     item.RunID,
		URL:       item.Target.URL,
		Index:     item.Index,
		Total:     item.Total,
		StartedAt: time.Now(),
	}
	tag := res.Tag()

	d.log.Info("%s %s", tag, item.Target.URL)

	info, err := d.probe(ctx, s, item, tag)
	if err != nil {
		return d.fail(res, err)
	}

	res.Playlist = info.IsPlaylist()
	res.Title = info.DisplayTitle()

	title := res.Title
	if item.Target.FolderOverride != "" {
		title = item.Target.FolderOverride
	}
	folder := options.SanitizeFolderName(title)

	outDir := s.Options.OutputDir
	if outDir == "" {
		outDir = "."
	}

	req := domain.TransferRequest{
		URL:         item.Target.URL,
		Format:      s.Options.Format,
		MergeFormat: s.Options.MergeFormat,
		Fragments:   s.Options.Fragments,
		Audio:       s.Audio,
		Subtitles:   s.Subtitles,
		Cookies:     s.Cookies,
		Downloader:  s.Downloader,
	}
	if s.Options.AudioOnly {
		req.MergeFormat = ""
	}

	if res.Playlist {
		res.Folder = folder
		d.log.Info("%s Playlist: %s", tag, res.Title)
		d.log.Info("%s Videos:   %d", tag, info.VideoCount())
		d.log.Info("%s Folder:   %s/", tag, folder)

		folderPath := filepath.Join(outDir, folder)
		req.OutputTemplate = filepath.Join(folderPath, playlistTemplate)
		req.ArchivePath = filepath.Join(folderPath, registry.MarkerName)

		if s.Options.HasRange() {
			req.PlaylistStart = s.Options.PlaylistStart
			req.PlaylistEnd = s.Options.PlaylistEnd
			d.log.Info("%s Range: videos %s to %s", tag, rangeBound(s.Options.PlaylistStart, "1"), rangeBound(s.Options.PlaylistEnd, "end"))
		}
	} else {
		d.log.Info("%s Video: %s", tag, res.Title)
		req.OutputTemplate = filepath.Join(outDir, videoTemplate)
		req.ArchivePath = filepath.Join(outDir, registry.MarkerName)
	}

	// A stop request never interrupts a running transfer
	err = d.engine.Download(context.WithoutCancel(ctx), req, d.progressReporter(tag))
	if err != nil {
		d.log.Error("%s Error during download: %v", tag, err)
		d.log.Warn("%s Partial download, moving on.", tag)
		return d.fail(res, fmt.Errorf("%w: %w", domain.ErrTransfer, err))
	}

	if res.Playlist {
		if err := s.Registry.MarkDone(item.Target.URL, folder); err != nil {
			d.log.Error("%s Failed to update registry: %v", tag, err)
			return d.fail(res, err)
		}
	}

	d.log.Info("%s '%s' OK!", tag, res.Title)
	res.Outcome = domain.OutcomeOK
	res.FinishedAt = time.Now()
	return res
}

// probe fetches metadata, retrying auth and rate-limit errors with a linear backoff.
func (d *Downloader) probe(ctx context.Context, s *Session, item Item, tag string) (*domain.MediaInfo, error) {
	maxAttempts := s.Options.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	req := domain.ProbeRequest{URL: item.Target.URL, Flat: true, Cookies: s.Cookies}

	for attempt := 1; ; attempt++ {
		if isCancelled(ctx) {
			d.log.Warn("%s Stopped by user.", tag)
			return nil, domain.ErrStopped
		}

		d.log.Info("%s Fetching info...", tag)
		info, err := d.engine.Probe(context.WithoutCancel(ctx), req)
		if err == nil {
			if info == nil {
				d.log.Error("%s No info found.", tag)
				return nil, domain.ErrNoEntries
			}
			return info, nil
		}

		switch {
		case errors.Is(err, domain.ErrPrivate):
			d.log.Warn("%s Private video, skipped.", tag)
			return nil, err

		case errors.Is(err, domain.ErrAuthRequired) && attempt < maxAttempts:
			wait := time.Duration(attempt*backoffUnits) * s.Options.RetryUnit
			d.log.Warn("%s Rate-limit detected! Waiting %v before retry (%d/%d)...", tag, wait, attempt, maxAttempts)
			if err := d.wait(ctx, wait); err != nil {
				d.log.Warn("%s Stopped by user.", tag)
				return nil, domain.ErrStopped
			}

		case errors.Is(err, domain.ErrAuthRequired):
			d.log.Error("%s ERROR: %v", tag, err)
			return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, attempt, err)

		default:
			d.log.Error("%s ERROR: %v", tag, err)
			return nil, err
		}
	}
}

func (d *Downloader) progressReporter(tag string) func(domain.Progress) {
	return func(p domain.Progress) {
		switch p.Status {
		case domain.ProgressDownloading:
			d.log.Progress("%s %s  %s", tag, p.Percent, p.Speed)
		case domain.ProgressFinished:
			d.log.Info("%s File finished.", tag)
		}
	}
}

func (d *Downloader) fail(res domain.JobResult, err error) domain.JobResult {
	res.Outcome = domain.OutcomeFailed
	res.Error = err.Error()
	res.FinishedAt = time.Now()
	return res
}

func rangeBound(n int, unset string) string {
	if n <= 0 {
		return unset
	}
	return fmt.Sprintf("%d", n)
}
