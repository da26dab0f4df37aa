package options

import (
	"fmt"
	"sort"
	"strings"
)

const (
	QualityAudio   = "audio"
	DefaultQuality = "1080p"
)

var heightPresets = map[string]int{
	"2160p": 2160,
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
	"360p":  360,
}

// Quality resolves a preset name to a format selector. The audio preset
// also switches the batch to audio extraction.
func Quality(name string) (format string, audioOnly bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == QualityAudio {
		return "bestaudio/best", true
	}

	h, ok := heightPresets[name]
	if !ok {
		h = heightPresets[DefaultQuality]
	}

	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", h, h), false
}

// QualityNames lists the presets, highest resolution first.
func QualityNames() []string {
	names := make([]string, 0, len(heightPresets)+1)
	for n := range heightPresets {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return heightPresets[names[i]] > heightPresets[names[j]]
	})
	return append(names, QualityAudio)
}
