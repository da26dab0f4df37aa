// Package resolver turns a channel URL into listing URLs and download plans.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
)

// channelSuffixes are the listing tabs stripped before appending /videos
var channelSuffixes = []string{"/playlists", "/videos", "/shorts", "/streams", "/community", "/about"}

// VideosFolder collects the channel's individual uploads in full-channel mode
const VideosFolder = "Videos"

type Mode string

const (
	ModePlaylists Mode = "playlists"
	ModeAll       Mode = "all"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePlaylists:
		return ModePlaylists, nil
	case ModeAll:
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown channel mode %q (expected playlists or all)", s)
	}
}

type Resolver struct {
	engine app.Engine
	log    app.Logger
}

func New(engine app.Engine, log app.Logger) *Resolver {
	return &Resolver{engine: engine, log: log}
}

// PlaylistsURL normalises a channel URL to its /playlists listing.
func PlaylistsURL(channelURL string) string {
	u := strings.TrimRight(strings.TrimSpace(channelURL), "/")
	if !strings.HasSuffix(u, "/playlists") {
		u += "/playlists"
	}
	return u
}

// AllVideosURL strips one known listing suffix and appends /videos.
func AllVideosURL(channelURL string) string {
	u := strings.TrimRight(strings.TrimSpace(channelURL), "/")
	for _, suffix := range channelSuffixes {
		if strings.HasSuffix(u, suffix) {
			u = strings.TrimSuffix(u, suffix)
			break
		}
	}
	return u + "/videos"
}

// ListPlaylists runs a flat probe of the channel's playlists tab. A listing
// without entries is logged and yields an empty slice.
func (r *Resolver) ListPlaylists(ctx context.Context, channelURL string, cookies domain.CookieConfig) ([]string, error) {
	url := PlaylistsURL(channelURL)
	r.log.Info("Scanning channel: %s", url)

	info, err := r.engine.Probe(ctx, domain.ProbeRequest{URL: url, Flat: true, Cookies: cookies})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for %s: %w", url, err)
	}

	if !info.IsPlaylist() {
		r.log.Error("Could not retrieve playlists: %v", domain.ErrNoEntries)
		return []string{}, nil
	}

	urls := make([]string, 0, len(info.Entries))
	for _, e := range info.Entries {
		if e != nil && e.URL != "" {
			urls = append(urls, e.URL)
		}
	}

	r.log.Info("%d playlist(s) found", len(urls))
	return urls, nil
}

// Plan builds the phases for a channel download. Playlists mode is a single
// phase of every playlist. All mode first fetches the /videos listing into
// VideosFolder, then every playlist.
func (r *Resolver) Plan(ctx context.Context, channelURL string, mode Mode, cookies domain.CookieConfig) ([]domain.Phase, error) {
	playlists, err := r.ListPlaylists(ctx, channelURL, cookies)
	if err != nil {
		return nil, err
	}

	if mode != ModeAll {
		return domain.SinglePhase(domain.NewTargets(playlists...)), nil
	}

	videos := AllVideosURL(channelURL)
	r.log.Info("Individual videos: %s, plus %d playlist(s)", videos, len(playlists))

	return []domain.Phase{
		{Name: "Individual videos", Targets: []domain.Target{{URL: videos, FolderOverride: VideosFolder}}},
		{Name: "Playlists", Targets: domain.NewTargets(playlists...)},
	}, nil
}
