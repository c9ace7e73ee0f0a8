package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"lunchrun/cmd/bootstrap"
	"lunchrun/internal/handler/middleware"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/config"
	"lunchrun/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

const sweepTimeout = 30 * time.Second

// startSweeper runs the deadline sweep on the configured cron schedule. The
// sweep is idempotent, so an overlapping or repeated tick only costs a no-op
// query.
func startSweeper(lc fx.Lifecycle, cfg config.Config, sweeps commands.SweepCommands, clk clock.Clock, logger *slog.Logger) error {
	c := cron.New(cron.WithLocation(cfg.App.Location()))

	_, err := c.AddFunc(cfg.App.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		result, err := sweeps.SweepExpired(ctx, clk.Now())
		if err != nil {
			logger.Error("sweep failed", "error", err)
			return
		}
		if result.Empty() {
			return
		}
		logger.Info("sweep locked expired entities",
			"sessions", len(result.Sessions),
			"quick_runs", len(result.QuickRuns),
		)
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting sweeper", "schedule", cfg.App.SweepSchedule)
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping sweeper")
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

func main() {
	app := fx.New(
		bootstrap.CoreModule,
		fx.Provide(
			func(cfg config.Config) *slog.Logger {
				logger := middleware.NewLogger(cfg.Log)
				return logger.GetSlogLogger()
			},
		),
		fx.Invoke(
			startSweeper,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("sweeper failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("sweeper failed to stop cleanly", "error", err)
	}

	slog.Info("sweeper stopped")
}
