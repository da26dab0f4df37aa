package domain

import "time"

// DownloadOptions is built once at batch start and shared read-only by every item.
type DownloadOptions struct {
	OutputDir string

	// Format is the engine's format selector string
	Format      string
	MergeFormat string

	AudioOnly   bool
	AudioFormat string

	Fragments int
	Parallel  int

	Subtitles SubtitleSettings

	// PlaylistStart and PlaylistEnd are 1-based and inclusive. Zero means unset.
	PlaylistStart int
	PlaylistEnd   int

	// RetryUnit is the base time unit for backoff and cooldown waits
	RetryUnit   time.Duration
	MaxAttempts int
	Cooldown    time.Duration
}

type SubtitleSettings struct {
	Enabled bool
	Lang    string
}

// HasRange reports whether either end of the playlist range is set.
func (o DownloadOptions) HasRange() bool {
	return o.PlaylistStart > 0 || o.PlaylistEnd > 0
}

// AudioExtraction is the engine's transcoding directive for audio-only downloads.
type AudioExtraction struct {
	Codec   string
	Quality string
}

// SubtitleSpec asks the engine for manual and automatic subtitles.
type SubtitleSpec struct {
	Manual bool
	Auto   bool
	Langs  []string
	Format string
}

// ExternalDownloader names an accelerated downloader and its arguments.
type ExternalDownloader struct {
	Name string
	Args []string
}

// TransferRequest is the fully resolved option set for one engine download call.
type TransferRequest struct {
	URL            string
	OutputTemplate string
	ArchivePath    string

	Format      string
	MergeFormat string
	Fragments   int

	PlaylistStart int
	PlaylistEnd   int

	Audio      *AudioExtraction
	Subtitles  *SubtitleSpec
	Cookies    CookieConfig
	Downloader *ExternalDownloader
}

// ProbeRequest asks the engine for metadata only.
type ProbeRequest struct {
	URL     string
	Flat    bool
	Cookies CookieConfig
}
