package controllers

import (
	"context"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/engine"
	"github.com/datallboy/gotube/internal/resolver"
)

// Runner is the background batch manager.
type Runner interface {
	Submit(req engine.BatchRequest, channel string) string
	Cancel(id string) bool
	Active() []engine.ActiveRun
}

// Planner expands a channel into download phases.
type Planner interface {
	Plan(ctx context.Context, channelURL string, mode resolver.Mode, cookies domain.CookieConfig) ([]domain.Phase, error)
}

// -- REQUESTS --

type SubmitBatchRequest struct {
	URLs    []string `json:"urls"`
	Channel string   `json:"channel,omitempty"`
	// Mode is "playlists" (default) or "all"
	Mode string `json:"mode,omitempty"`
	// Quality overrides the configured preset
	Quality string `json:"quality,omitempty"`
}
