package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/engine"
	"github.com/datallboy/gotube/internal/options"
	"github.com/datallboy/gotube/internal/resolver"
	"github.com/spf13/cobra"
)

func newDownloadCmd() *cobra.Command {
	var channel, mode, quality, outDir string

	cmd := &cobra.Command{
		Use:   "download [urls...]",
		Short: "Download videos and playlists, or a whole channel with --channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && channel == "" {
				return errors.New("give at least one URL or --channel")
			}
			chMode, err := resolver.ParseMode(mode)
			if err != nil {
				return err
			}

			// First Ctrl+C stops gracefully; the second one kills the process
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := bootstrap(ctx, bootOptions{engine: true, history: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			done := make(chan struct{})
			defer close(done)
			go func() {
				select {
				case <-ctx.Done():
					stop()
					svc.log.Warn("Stop requested, waiting for running downloads to finish...")
				case <-done:
				}
			}()

			cfg := svc.app.Config
			if outDir != "" {
				cfg.Download.OutDir = outDir
			}

			req := engine.BatchRequest{
				Options:     options.FromConfig(cfg.Download, quality),
				CookieMode:  domain.CookieMode(cfg.Cookies.Mode),
				CookieValue: cfg.Cookies.Value,
			}
			if cfg.Engine.UseAria2c {
				req.Aria2cPath = svc.app.Tools.Aria2c
			}

			if channel != "" {
				if chMode == resolver.ModeAll {
					req.Options.PlaylistStart, req.Options.PlaylistEnd = 0, 0
				}
				req.Plan = func(ctx context.Context, cookies domain.CookieConfig) ([]domain.Phase, error) {
					return svc.resolver.Plan(ctx, channel, chMode, cookies)
				}
			} else {
				req.Phases = domain.SinglePhase(domain.NewTargets(args...))
			}

			run, err := engine.NewBatch(svc.app).Run(ctx, req)
			if err != nil {
				return err
			}
			if run.Summary.Failed > 0 {
				return fmt.Errorf("%d download(s) failed, see run %s", run.Summary.Failed, run.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "channel URL to download instead of explicit URLs")
	cmd.Flags().StringVar(&mode, "mode", string(resolver.ModePlaylists), "channel mode: playlists or all")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "quality preset (2160p, 1080p, 720p, 480p, 360p, audio)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides download.out_dir)")

	return cmd
}

func newPlaylistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlists <channel>",
		Short: "List the playlist URLs of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := bootstrap(ctx, bootOptions{engine: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			cfg := svc.app.Config
			cookies, err := options.BuildCookies(domain.CookieMode(cfg.Cookies.Mode), cfg.Cookies.Value)
			if err != nil {
				return err
			}

			urls, err := svc.resolver.ListPlaylists(ctx, args[0], cookies)
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}
