package controllers

import (
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/engine"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SubmitResponse struct {
	ID string `json:"id"`
}

type RunListResponse struct {
	Runs []*domain.Run `json:"runs"`
}

type ActiveResponse struct {
	Runs []engine.ActiveRun `json:"runs"`
}
