// Package options translates user-facing choices into the typed directives
// handed to the download engine. Everything here is free of side effects
// except the cookie file check.
package options

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/datallboy/gotube/internal/domain"
)

const DefaultFolderName = "download"

var illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFolderName strips filesystem-illegal characters, then dots and
// spaces from both ends (leading ones too, so a title cannot become a hidden
// folder). It never returns an empty string.
func SanitizeFolderName(name string) string {
	res := illegalChars.ReplaceAllString(name, "")
	res = strings.Trim(res, ". ")
	if res == "" {
		return DefaultFolderName
	}
	return res
}

// BuildCookies resolves the cookie source for a batch. File mode requires an
// existing regular file.
func BuildCookies(mode domain.CookieMode, value string) (domain.CookieConfig, error) {
	value = strings.TrimSpace(value)

	switch mode {
	case domain.CookieFile:
		if value == "" {
			return domain.CookieConfig{}, fmt.Errorf("%w: no path given", domain.ErrCookieFileNotFound)
		}
		info, err := os.Stat(value)
		if err != nil || !info.Mode().IsRegular() {
			return domain.CookieConfig{}, fmt.Errorf("%w: %s", domain.ErrCookieFileNotFound, value)
		}
		return domain.CookieConfig{Mode: domain.CookieFile, Path: value}, nil
	case domain.CookieBrowser:
		if value == "" {
			return domain.CookieConfig{}, nil
		}
		return domain.CookieConfig{Mode: domain.CookieBrowser, Browser: value}, nil
	default:
		return domain.CookieConfig{}, nil
	}
}

// AudioExtraction maps a target codec to the transcoding directive.
// mp3 gets a fixed bitrate, everything else asks for the best quality.
func AudioExtraction(codec string) *domain.AudioExtraction {
	codec = strings.ToLower(strings.TrimSpace(codec))
	if codec == "" {
		codec = "mp3"
	}

	quality := "0"
	if codec == "mp3" {
		quality = "192"
	}

	return &domain.AudioExtraction{Codec: codec, Quality: quality}
}

// Subtitles requests manual and automatic subtitles for lang and its
// regional variants. Disabled yields nil.
func Subtitles(enabled bool, lang string) *domain.SubtitleSpec {
	lang = strings.TrimSpace(lang)
	if !enabled || lang == "" {
		return nil
	}

	return &domain.SubtitleSpec{
		Manual: true,
		Auto:   true,
		Langs:  []string{lang, lang + ".*"},
		Format: "srt/best",
	}
}

// aria2cArgs are passed to aria2c when it is found on the host
var aria2cArgs = []string{
	"--max-connection-per-server=16",
	"--min-split-size=1M",
	"--split=16",
	"--max-overall-download-limit=0",
}

// ExternalDownloader selects aria2c when a path for it is known.
func ExternalDownloader(aria2cPath string) *domain.ExternalDownloader {
	if aria2cPath == "" {
		return nil
	}
	args := make([]string, len(aria2cArgs))
	copy(args, aria2cArgs)
	return &domain.ExternalDownloader{Name: "aria2c", Args: args}
}
