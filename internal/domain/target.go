package domain

// Target is one URL to download, optionally forced into a named folder.
type Target struct {
	URL            string `json:"url"`
	FolderOverride string `json:"folder,omitempty"`
}

// NewTargets wraps plain URLs as targets without folder overrides.
func NewTargets(urls ...string) []Target {
	targets := make([]Target, 0, len(urls))
	for _, u := range urls {
		targets = append(targets, Target{URL: u})
	}
	return targets
}

type CookieMode string

const (
	CookieNone    CookieMode = ""
	CookieFile    CookieMode = "file"
	CookieBrowser CookieMode = "browser"
)

// CookieConfig is resolved once per batch and applied to every item.
// The zero value means no cookies.
type CookieConfig struct {
	Mode    CookieMode
	Path    string
	Browser string
}

func (c CookieConfig) Enabled() bool {
	return c.Mode != CookieNone
}

// Phase is one ordered group of targets. A channel download runs its
// phases one after another, each with its own [i/n] numbering.
type Phase struct {
	Name    string   `json:"name,omitempty"`
	Targets []Target `json:"targets"`
}

// SinglePhase wraps a plain target list.
func SinglePhase(targets []Target) []Phase {
	return []Phase{{Targets: targets}}
}
