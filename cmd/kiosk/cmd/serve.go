package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/dashboard"
	"github.com/martclinic/kiosk/internal/poller"
)

// NewServeCmd runs the pollers and the display dashboard until interrupted
func NewServeCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "poll today's queue and serve the display dashboard",
		Long:  "Starts the visit and waitlist pollers and serves /health, /ready, /metrics and /api/today/* for the waiting-room display.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				a.cfg.Server.Port = port
			}
			return runServe(ctx, a)
		},
	}
	pf := cmd.PersistentFlags()
	pf.IntP("port", "p", 0, "listen port (overrides config)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	visits := poller.NewFeed(a.visits.ByDate, a.clock())
	waits := poller.NewFeed(a.waitlist.ByDate, a.clock())

	pollers := []*poller.Poller{
		visits.Poller("visits", a.cfg.Poll.Visits, a.logger),
		waits.Poller("waitlist", a.cfg.Poll.Waitlist, a.logger),
	}
	for _, p := range pollers {
		if err := p.Start(ctx); err != nil {
			return err
		}
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, p := range pollers {
			if err := p.Stop(stopCtx); err != nil {
				slog.WarnContext(ctx, "poller did not stop", "poller", p.Name(), "error", err)
			}
		}
	}()

	h := dashboard.NewHandler(visits, waits, a.clock(), a.loc, a.logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      h.Router(dashboard.DefaultOptions()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.InfoContext(ctx, "kiosk dashboard listening",
		slog.Int("port", a.cfg.Server.Port),
		slog.String("env", a.cfg.Server.Env),
		slog.String("api", a.client.BaseURL()),
		slog.Duration("poll_visits", a.cfg.Poll.Visits),
		slog.Duration("poll_waitlist", a.cfg.Poll.Waitlist),
	)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
