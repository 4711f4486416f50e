package components

import (
	"context"
	"log/slog"

	"vendor-booking/internal/infra/outbox"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

// OutboxModule relays queued booking notifications and purges expired idempotency keys.
var OutboxModule = fx.Module("outbox",
	fx.Provide(
		fx.Annotate(
			outbox.NewLogPublisher,
			fx.As(new(outbox.Publisher)),
		),
		NewRelay,
		NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func NewRelay(uow shared.UnitOfWork, publisher outbox.Publisher, clk clock.Clock, logger *slog.Logger, cfg config.Config) *outbox.Relay {
	return outbox.NewRelay(uow, publisher, clk, logger, outbox.Options{
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
		RetryDelay:  cfg.Outbox.RetryDelay,
	})
}

func NewScheduler(relay *outbox.Relay, purger outbox.ExpiredKeyPurger, clk clock.Clock, logger *slog.Logger, cfg config.Config) (*outbox.Scheduler, error) {
	return outbox.NewScheduler(relay, purger, clk, cfg.Outbox.Schedule, logger)
}

func startScheduler(lc fx.Lifecycle, s *outbox.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
