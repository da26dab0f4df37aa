package platform

import (
	"fmt"
	"os/exec"
)

// RequiredBinaries lists external system binaries the app needs to function
var RequiredBinaries = []string{
	"yt-dlp",
}

// OptionalBinaries maps each optional binary to the feature it enables
var OptionalBinaries = map[string]string{
	"aria2c": "accelerated downloads",
	"ffmpeg": "audio extraction and format merging",
	"node":   "JavaScript challenge solving",
}

// HostTools holds resolved paths. Empty means not found.
type HostTools struct {
	YtDlp  string
	Aria2c string
	FFmpeg string
	Node   string
}

// Notifier receives one line per missing optional binary.
type Notifier interface {
	Info(format string, v ...any)
}

// LookPath is swapped out in tests
var LookPath = exec.LookPath

// ValidateDependencies fails when a required binary is missing and reports
// every optional binary that could not be found.
func ValidateDependencies(log Notifier) (*HostTools, error) {
	for _, bin := range RequiredBinaries {
		if _, err := LookPath(bin); err != nil {
			return nil, fmt.Errorf("required dependency: '%s' not found in PATH", bin)
		}
	}

	tools := &HostTools{}
	tools.YtDlp, _ = LookPath("yt-dlp")

	found := map[string]*string{
		"aria2c": &tools.Aria2c,
		"ffmpeg": &tools.FFmpeg,
		"node":   &tools.Node,
	}
	for bin, feature := range OptionalBinaries {
		path, err := LookPath(bin)
		if err != nil {
			if log != nil {
				log.Info("%s not found. %s will be disabled.", bin, feature)
			}
			continue
		}
		*found[bin] = path
	}

	return tools, nil
}
