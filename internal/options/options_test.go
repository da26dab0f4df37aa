package options

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/infra/config"
)

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Playlist", "My Playlist"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"Trailing dots...", "Trailing dots"},
		{"  spaced  . ", "spaced"},
		{"", DefaultFolderName},
		{`<>:"/\|?*`, DefaultFolderName},
		{"...", DefaultFolderName},
		{"Mix . <.> .", "Mix"},
		{"...leading dots", "leading dots"},
		{" .hidden", "hidden"},
	}

	for _, tt := range tests {
		if got := SanitizeFolderName(tt.in); got != tt.want {
			t.Errorf("SanitizeFolderName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFolderNameProperties(t *testing.T) {
	inputs := []string{
		"Hello: World?", ". . x . .", "a/b\\c", "é à ü", "***", "  ", "x.", ". <y> .",
		"name with \"quotes\"", "mixed|pipes|and*stars*", "...leading dots",
	}

	for _, in := range inputs {
		once := SanitizeFolderName(in)
		if once == "" {
			t.Errorf("SanitizeFolderName(%q) returned empty", in)
		}
		if strings.ContainsAny(once, `<>:"/\|?*`) {
			t.Errorf("SanitizeFolderName(%q) = %q still has illegal characters", in, once)
		}
		if twice := SanitizeFolderName(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestBuildCookiesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(path, []byte("# Netscape HTTP Cookie File\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := BuildCookies(domain.CookieFile, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != domain.CookieFile || cfg.Path != path {
		t.Errorf("unexpected config: %+v", cfg)
	}

	_, err = BuildCookies(domain.CookieFile, filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, domain.ErrCookieFileNotFound) {
		t.Errorf("expected ErrCookieFileNotFound, got %v", err)
	}

	// A directory is not a cookie file
	_, err = BuildCookies(domain.CookieFile, dir)
	if !errors.Is(err, domain.ErrCookieFileNotFound) {
		t.Errorf("expected ErrCookieFileNotFound for directory, got %v", err)
	}
}

func TestBuildCookiesBrowser(t *testing.T) {
	cfg, err := BuildCookies(domain.CookieBrowser, "firefox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != domain.CookieBrowser || cfg.Browser != "firefox" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	cfg, _ = BuildCookies(domain.CookieBrowser, "")
	if cfg.Enabled() {
		t.Error("empty browser name should yield no cookies")
	}

	cfg, _ = BuildCookies(domain.CookieNone, "whatever")
	if cfg.Enabled() {
		t.Error("no mode should yield no cookies")
	}
}

func TestAudioExtraction(t *testing.T) {
	tests := []struct {
		codec   string
		quality string
	}{
		{"mp3", "192"},
		{"MP3", "192"},
		{"flac", "0"},
		{"wav", "0"},
		{"aac", "0"},
	}

	for _, tt := range tests {
		got := AudioExtraction(tt.codec)
		if got.Quality != tt.quality {
			t.Errorf("AudioExtraction(%q).Quality = %q, want %q", tt.codec, got.Quality, tt.quality)
		}
		if got.Codec != strings.ToLower(tt.codec) {
			t.Errorf("AudioExtraction(%q).Codec = %q", tt.codec, got.Codec)
		}
	}
}

func TestSubtitles(t *testing.T) {
	if Subtitles(false, "fr") != nil {
		t.Error("disabled subtitles should yield nil")
	}

	subs := Subtitles(true, "fr")
	if subs == nil {
		t.Fatal("expected subtitle options")
	}
	if !subs.Manual || !subs.Auto {
		t.Error("expected both manual and automatic subtitles")
	}
	if len(subs.Langs) != 2 || subs.Langs[0] != "fr" || subs.Langs[1] != "fr.*" {
		t.Errorf("unexpected langs: %v", subs.Langs)
	}
	if subs.Format != "srt/best" {
		t.Errorf("unexpected format: %q", subs.Format)
	}
}

func TestQuality(t *testing.T) {
	f, audio := Quality("720p")
	if audio {
		t.Error("720p should not be audio only")
	}
	if f != "bestvideo[height<=720]+bestaudio/best[height<=720]/best" {
		t.Errorf("unexpected selector: %s", f)
	}

	f, audio = Quality("audio")
	if !audio || f != "bestaudio/best" {
		t.Errorf("unexpected audio preset: %s %v", f, audio)
	}

	f, _ = Quality("nonsense")
	if !strings.Contains(f, "height<=1080") {
		t.Errorf("unknown preset should fall back to 1080p, got %s", f)
	}

	names := QualityNames()
	if names[0] != "2160p" || names[len(names)-1] != QualityAudio {
		t.Errorf("unexpected preset order: %v", names)
	}
}

func TestExternalDownloader(t *testing.T) {
	if ExternalDownloader("") != nil {
		t.Error("expected nil without aria2c")
	}

	d := ExternalDownloader("/usr/bin/aria2c")
	if d == nil || d.Name != "aria2c" || len(d.Args) != 4 {
		t.Fatalf("unexpected downloader: %+v", d)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DownloadConfig{
		OutDir:       "/data",
		Quality:      "720p",
		AudioFormat:  "mp3",
		Fragments:    8,
		Parallel:     3,
		Subtitles:    true,
		SubtitleLang: "en",
		RetryUnit:    2 * time.Second,
		MaxAttempts:  3,
	}

	opts := FromConfig(cfg, "")
	if opts.AudioOnly || !strings.Contains(opts.Format, "height<=720") {
		t.Errorf("unexpected format: %+v", opts)
	}
	if opts.Cooldown != 10*time.Second || opts.MergeFormat != "mp4" {
		t.Errorf("unexpected pacing: %+v", opts)
	}
	if !opts.Subtitles.Enabled || opts.Subtitles.Lang != "en" {
		t.Errorf("unexpected subtitles: %+v", opts.Subtitles)
	}

	opts = FromConfig(cfg, QualityAudio)
	if !opts.AudioOnly || opts.Format != "bestaudio/best" {
		t.Errorf("quality override not applied: %+v", opts)
	}
}
