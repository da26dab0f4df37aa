package ytdlp

// General
const (
	BinaryName = "yt-dlp"

	DumpJSON          = "-J"
	FlatPlaylist      = "--flat-playlist"
	NoWarnings        = "--no-warnings"
	NoColors          = "--no-colors"
	Newline           = "--newline"
	ProgressTemplate  = "--progress-template"
	Output            = "-o"
	Format            = "-f"
	IgnoreErrors      = "--ignore-errors"
	DownloadArchive   = "--download-archive"
	ConcurrentFrags   = "--concurrent-fragments"
	PlaylistStart     = "--playlist-start"
	PlaylistEnd       = "--playlist-end"
	MergeOutputFormat = "--merge-output-format"
)

// Pacing
const (
	SleepInterval    = "--sleep-interval"
	MaxSleepInterval = "--max-sleep-interval"
	SleepRequests    = "--sleep-requests"
	SleepSubtitles   = "--sleep-subtitles"
)

// Post-processing
const (
	ExtractAudio = "-x"
	AudioFormat  = "--audio-format"
	AudioQuality = "--audio-quality"
)

// Subtitles
const (
	WriteSubs     = "--write-subs"
	WriteAutoSubs = "--write-auto-subs"
	SubLangs      = "--sub-langs"
	SubFormat     = "--sub-format"
)

// Auth
const (
	Cookies            = "--cookies"
	CookiesFromBrowser = "--cookies-from-browser"
)

// Downloaders
const (
	ExternalDownloader     = "--downloader"
	ExternalDownloaderArgs = "--downloader-args"
)

// JS challenge solving
const (
	JSRuntimes       = "--js-runtimes"
	RemoteComponents = "--remote-components"
	EJSGithub        = "ejs:github"
)

// progressMarker prefixes every templated progress line so it can be told
// apart from the engine's ordinary output.
const progressMarker = "gotube"

const progressFormat = "download:" + progressMarker +
	"|%(progress.status)s|%(progress._percent_str)s|%(progress._speed_str)s|%(progress.filename)s"

// Fixed pacing values applied to every transfer
const (
	sleepMin       = "3"
	sleepMax       = "5"
	sleepRequest   = "1"
	sleepSubtitles = "2"
)
