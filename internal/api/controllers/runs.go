package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/labstack/echo/v5"
)

type RunsController struct {
	App *app.Context
}

// List returns recent runs, newest first. ?limit= caps the result (default 50).
func (ctrl *RunsController) List(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is disabled"})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}

	runs, err := ctrl.App.Store.ListRuns(c.Request().Context(), limit)
	if err != nil {
		ctrl.App.Logger.Error("Failed to list runs: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list runs"})
	}
	if runs == nil {
		runs = []*domain.Run{}
	}

	return c.JSON(http.StatusOK, RunListResponse{Runs: runs})
}

// Get returns one run with its job results.
func (ctrl *RunsController) Get(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is disabled"})
	}

	run, err := ctrl.App.Store.GetRun(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrRunNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "run not found"})
	}
	if err != nil {
		ctrl.App.Logger.Error("Failed to load run %s: %v", c.Param("id"), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load run"})
	}

	return c.JSON(http.StatusOK, run)
}
