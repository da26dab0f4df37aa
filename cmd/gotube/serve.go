package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datallboy/gotube/internal/api"
	"github.com/datallboy/gotube/internal/engine"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for submitting batches and browsing history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := bootstrap(ctx, bootOptions{engine: true, history: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			if port == "" {
				port = svc.app.Config.Port
			}

			// Runs share ctx, so shutting down stops them cooperatively
			manager := engine.NewRunManager(ctx, svc.app, engine.NewBatch(svc.app))

			e := echo.New()
			api.RegisterRoutes(e, svc.app, manager, svc.resolver)

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           e,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				svc.log.Info("API listening on :%s", port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			svc.log.Info("Shutting down, waiting for active runs to stop...")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				svc.log.Warn("HTTP shutdown: %v", err)
			}

			manager.Wait()
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides port)")
	return cmd
}
