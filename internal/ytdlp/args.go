package ytdlp

import (
	"strconv"
	"strings"

	"github.com/datallboy/gotube/internal/domain"
)

// commonArgs are shared by probe and download calls.
func (c *CLI) commonArgs(cookies domain.CookieConfig) []string {
	args := []string{NoColors}

	if c.NodePath != "" {
		args = append(args, JSRuntimes, "node:"+c.NodePath)
	}
	args = append(args, RemoteComponents, EJSGithub)

	switch cookies.Mode {
	case domain.CookieFile:
		args = append(args, Cookies, cookies.Path)
	case domain.CookieBrowser:
		args = append(args, CookiesFromBrowser, cookies.Browser)
	}

	return args
}

func (c *CLI) probeArgs(req domain.ProbeRequest) []string {
	args := []string{DumpJSON, NoWarnings}
	if req.Flat {
		args = append(args, FlatPlaylist)
	}
	args = append(args, c.commonArgs(req.Cookies)...)

	// "--" stops option parsing so a URL can never be read as a flag
	return append(args, "--", req.URL)
}

func (c *CLI) downloadArgs(req domain.TransferRequest) []string {
	args := []string{
		Newline,
		ProgressTemplate, progressFormat,
		Output, req.OutputTemplate,
		IgnoreErrors,
		SleepInterval, sleepMin,
		MaxSleepInterval, sleepMax,
		SleepRequests, sleepRequest,
		SleepSubtitles, sleepSubtitles,
	}

	if req.Format != "" {
		args = append(args, Format, req.Format)
	}
	if req.Fragments > 0 {
		args = append(args, ConcurrentFrags, strconv.Itoa(req.Fragments))
	}
	if req.ArchivePath != "" {
		args = append(args, DownloadArchive, req.ArchivePath)
	}
	if req.PlaylistStart > 0 {
		args = append(args, PlaylistStart, strconv.Itoa(req.PlaylistStart))
	}
	if req.PlaylistEnd > 0 {
		args = append(args, PlaylistEnd, strconv.Itoa(req.PlaylistEnd))
	}

	if req.Audio != nil {
		args = append(args, ExtractAudio, AudioFormat, req.Audio.Codec, AudioQuality, req.Audio.Quality)
	} else if req.MergeFormat != "" {
		args = append(args, MergeOutputFormat, req.MergeFormat)
	}

	if s := req.Subtitles; s != nil {
		if s.Manual {
			args = append(args, WriteSubs)
		}
		if s.Auto {
			args = append(args, WriteAutoSubs)
		}
		if len(s.Langs) > 0 {
			args = append(args, SubLangs, strings.Join(s.Langs, ","))
		}
		if s.Format != "" {
			args = append(args, SubFormat, s.Format)
		}
	}

	if d := req.Downloader; d != nil {
		args = append(args, ExternalDownloader, d.Name)
		if len(d.Args) > 0 {
			args = append(args, ExternalDownloaderArgs, d.Name+":"+strings.Join(d.Args, " "))
		}
	}

	args = append(args, c.commonArgs(req.Cookies)...)
	return append(args, "--", req.URL)
}
