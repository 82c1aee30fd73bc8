package components

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/infra/jobs"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/usecase/tokens"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		jobs.NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func startScheduler(lc fx.Lifecycle, cfg config.Config, scheduler *jobs.Scheduler, tokenService *tokens.Service, logger *slog.Logger) error {
	if err := scheduler.AddTokenSweep(cfg.Jobs.TokenSweepSpec, tokenService); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			logger.Info("job scheduler started", slog.String("token_sweep", cfg.Jobs.TokenSweepSpec))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
	return nil
}
