package domain

// MediaInfo is the subset of the engine's metadata the orchestrator relies on.
type MediaInfo struct {
	Type          string       `json:"_type,omitempty"`
	ID            string       `json:"id,omitempty"`
	Title         string       `json:"title,omitempty"`
	PlaylistTitle string       `json:"playlist_title,omitempty"`
	URL           string       `json:"url,omitempty"`
	WebpageURL    string       `json:"webpage_url,omitempty"`
	Entries       []*MediaInfo `json:"entries,omitempty"`
}

// IsPlaylist reports whether the probe carried an entries collection, even an empty one.
func (m *MediaInfo) IsPlaylist() bool {
	return m != nil && m.Entries != nil
}

// VideoCount counts the non-null entries.
func (m *MediaInfo) VideoCount() int {
	n := 0
	for _, e := range m.Entries {
		if e != nil {
			n++
		}
	}
	return n
}

// DisplayTitle prefers title, then playlist_title, then a fixed fallback.
func (m *MediaInfo) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	if m.PlaylistTitle != "" {
		return m.PlaylistTitle
	}
	return "download"
}

type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
	ProgressError       ProgressStatus = "error"
)

// Progress is one periodic progress event emitted by the engine.
type Progress struct {
	Status   ProgressStatus
	Percent  string
	Speed    string
	Filename string
}
