package options

import (
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/infra/config"
)

// FromConfig builds the batch options from the download section. quality
// overrides the configured preset when non-empty.
func FromConfig(cfg config.DownloadConfig, quality string) domain.DownloadOptions {
	if quality == "" {
		quality = cfg.Quality
	}
	format, audioOnly := Quality(quality)

	return domain.DownloadOptions{
		OutputDir:     cfg.OutDir,
		Format:        format,
		MergeFormat:   "mp4",
		AudioOnly:     audioOnly,
		AudioFormat:   cfg.AudioFormat,
		Fragments:     cfg.Fragments,
		Parallel:      cfg.Parallel,
		Subtitles:     domain.SubtitleSettings{Enabled: cfg.Subtitles, Lang: cfg.SubtitleLang},
		PlaylistStart: cfg.PlaylistStart,
		PlaylistEnd:   cfg.PlaylistEnd,
		RetryUnit:     cfg.RetryUnit,
		MaxAttempts:   cfg.MaxAttempts,
		Cooldown:      5 * cfg.RetryUnit,
	}
}
