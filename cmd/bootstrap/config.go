package bootstrap

import (
	"time"

	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

// ConfigModule supplies an already loaded config so the CLI can pick modules from it first.
func ConfigModule(cfg config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			NewRetryPolicy,
			NewCalendarLocation,
		),
	)
}

func NewRetryPolicy(cfg config.Config) shared.RetryPolicy {
	return shared.RetryPolicy{
		MaxAttempts: cfg.Reservation.MaxAttempts,
		BaseBackoff: cfg.Reservation.BaseBackoff,
		MaxBackoff:  cfg.Reservation.MaxBackoff,
	}
}

func NewCalendarLocation(cfg config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.Calendar.TimeZone)
}
