package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/infra/config"
	"github.com/datallboy/gotube/internal/infra/logger"
	"github.com/datallboy/gotube/internal/platform"
	"github.com/datallboy/gotube/internal/resolver"
	"github.com/datallboy/gotube/internal/store"
	"github.com/datallboy/gotube/internal/ytdlp"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "gotube",
		Short:         "Batch downloader for videos, playlists and channels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	root.AddCommand(
		newDownloadCmd(),
		newPlaylistsCmd(),
		newServeCmd(),
		newHistoryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// services is the wired application for one command invocation.
type services struct {
	app      *app.Context
	log      *logger.Logger
	resolver *resolver.Resolver
}

type bootOptions struct {
	// engine resolves host binaries and the yt-dlp binding
	engine bool
	// history opens the configured store
	history bool
}

func bootstrap(ctx context.Context, opts bootOptions) (*services, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	svc := &services{app: app.NewContext(cfg, log), log: log}

	if opts.engine {
		tools, err := platform.ValidateDependencies(log)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.app.Tools = tools

		nodePath := ""
		if cfg.Engine.UseNode {
			nodePath = tools.Node
		}
		cli, err := ytdlp.NewCLI(nodePath, log)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.app.Engine = cli
		svc.resolver = resolver.New(cli, log)
	}

	if opts.history {
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		svc.app.Store = st
	}

	return svc, nil
}

func (s *services) Close() {
	if s.app.Store != nil {
		if err := s.app.Store.Close(); err != nil {
			s.log.Warn("Failed to close history store: %v", err)
		}
	}
	s.log.Close()
}
