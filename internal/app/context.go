package app

import (
	"context"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/infra/config"
	"github.com/datallboy/gotube/internal/platform"
)

// Logger is the log sink handed to every component. Progress renders a line
// that the next Progress call replaces.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
	Progress(format string, v ...any)
}

type Engine interface {
	// This allows the downloader to drive yt-dlp without importing the binding
	Probe(ctx context.Context, req domain.ProbeRequest) (*domain.MediaInfo, error)
	Download(ctx context.Context, req domain.TransferRequest, onProgress func(domain.Progress)) error
}

// Store records run history. Implementations exist for SQLite and PostgreSQL.
type Store interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	FinishRun(ctx context.Context, run *domain.Run) error
	SaveJob(ctx context.Context, job *domain.JobResult) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)
	Close() error
}

// Context hold the core environment and shared resources for GoTube.
// It acts as the "Single Source of Truth" for the application state.
type Context struct {
	Config *config.Config
	Logger Logger

	// High-level interfaces for services to use
	Engine Engine
	Store  Store

	Tools *platform.HostTools
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
		Tools:  &platform.HostTools{},
	}
}
