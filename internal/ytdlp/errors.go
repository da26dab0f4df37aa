package ytdlp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/datallboy/gotube/internal/domain"
)

// Checked before authPatterns: "Private video" messages also ask the user to sign in.
var privatePatterns = []string{
	"Private video",
	"Video unavailable",
}

var authPatterns = []string{
	"Sign in to confirm",
	"confirm you're not a bot",
	"This content isn't available",
	"rate-limited",
	"Sign in if you've been granted",
}

// ExitError is returned when yt-dlp exits with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("yt-dlp exited with code %d: %s", e.Code, msg)
	}
	return fmt.Sprintf("yt-dlp exited with code %d", e.Code)
}

// Message returns the last ERROR line, or the last non-empty line of stderr.
func (e *ExitError) Message() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); strings.HasPrefix(l, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(l, "ERROR:"))
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// ClassifyMessage maps an engine message to ErrPrivate or ErrAuthRequired.
// It returns nil when no known pattern matches.
func ClassifyMessage(msg string) error {
	lower := strings.ToLower(msg)

	if containsAny(lower, privatePatterns) {
		return domain.ErrPrivate
	}
	if containsAny(lower, authPatterns) {
		return domain.ErrAuthRequired
	}
	return nil
}

// Classify wraps err with the matching domain sentinel, keeping the original error in the chain.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		msg = exitErr.Stderr
	}

	if sentinel := ClassifyMessage(msg); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func containsAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
