package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/engine"
	"github.com/datallboy/gotube/internal/options"
	"github.com/datallboy/gotube/internal/resolver"
	"github.com/labstack/echo/v5"
)

type BatchController struct {
	App     *app.Context
	Runner  Runner
	Planner Planner
}

// Submit queues a batch of URLs or a channel and returns 202 with the run ID.
func (ctrl *BatchController) Submit(c *echo.Context) error {
	var body SubmitBatchRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	urls := make([]string, 0, len(body.URLs))
	for _, u := range body.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	channel := strings.TrimSpace(body.Channel)

	if len(urls) == 0 && channel == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "urls or channel is required"})
	}

	cfg := ctrl.App.Config
	mode := domain.CookieMode(cfg.Cookies.Mode)

	// Fail before queueing so the caller sees the problem
	if _, err := options.BuildCookies(mode, cfg.Cookies.Value); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	req := engine.BatchRequest{
		Options:     options.FromConfig(cfg.Download, body.Quality),
		CookieMode:  mode,
		CookieValue: cfg.Cookies.Value,
	}
	if cfg.Engine.UseAria2c && ctrl.App.Tools != nil {
		req.Aria2cPath = ctrl.App.Tools.Aria2c
	}

	if channel != "" {
		chMode, err := resolver.ParseMode(body.Mode)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		if chMode == resolver.ModeAll {
			// The index range only applies to hand-picked playlists
			req.Options.PlaylistStart, req.Options.PlaylistEnd = 0, 0
		}
		planner := ctrl.Planner
		req.Plan = func(ctx context.Context, cookies domain.CookieConfig) ([]domain.Phase, error) {
			return planner.Plan(ctx, channel, chMode, cookies)
		}
	} else {
		req.Phases = domain.SinglePhase(domain.NewTargets(urls...))
	}

	id := ctrl.Runner.Submit(req, channel)
	ctrl.App.Logger.Info("Queued run %s", id)

	return c.JSON(http.StatusAccepted, SubmitResponse{ID: id})
}

// Cancel requests a cooperative stop of a running batch.
func (ctrl *BatchController) Cancel(c *echo.Context) error {
	id := c.Param("id")
	if !ctrl.Runner.Cancel(id) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active run with that id"})
	}

	ctrl.App.Logger.Info("Stop requested for run %s", id)
	return c.JSON(http.StatusAccepted, SubmitResponse{ID: id})
}

// Active lists the batches still running.
func (ctrl *BatchController) Active(c *echo.Context) error {
	return c.JSON(http.StatusOK, ActiveResponse{Runs: ctrl.Runner.Active()})
}
