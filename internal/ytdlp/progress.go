package ytdlp

import (
	"regexp"
	"strings"

	"github.com/datallboy/gotube/internal/domain"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ParseProgressLine decodes one line printed through the progress template.
// Lines that do not carry the marker are reported as not ok.
func ParseProgressLine(line string) (domain.Progress, bool) {
	line = strings.TrimSpace(ansiRegex.ReplaceAllString(line, ""))

	parts := strings.SplitN(line, "|", 5)
	if len(parts) != 5 || parts[0] != progressMarker {
		return domain.Progress{}, false
	}

	p := domain.Progress{
		Status:   domain.ProgressStatus(strings.TrimSpace(parts[1])),
		Percent:  cleanField(parts[2]),
		Speed:    cleanField(parts[3]),
		Filename: strings.TrimSpace(parts[4]),
	}
	return p, true
}

// cleanField maps the engine's "NA" placeholder to "?"
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return "?"
	}
	return s
}
