package components

import (
	"log/slog"

	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/infra/policyfile"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/pkg/jwt"
	"vendor-booking/internal/usecase"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	NewSlotPolicy,
	NewCommandOptions,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewAvailabilityCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		NewJWTService,
		usecase.NewTokenValidator,
	),
)

func NewSlotPolicy(cfg config.Config, logger *slog.Logger) (*slot.Policy, error) {
	policy, err := policyfile.Load(cfg.Policy.File)
	if err != nil {
		return nil, err
	}
	if cfg.Policy.File != "" {
		logger.Info("slot policy loaded", "file", cfg.Policy.File)
	}
	return policy, nil
}

func NewCommandOptions(cfg config.Config, policy *slot.Policy) commands.Options {
	return commands.Options{
		Policy:         policy,
		Timeout:        cfg.Reservation.Timeout,
		IdempotencyTTL: cfg.Reservation.IdempotencyTTL,
		MaxRangeDays:   cfg.Reservation.MaxRangeDays,
	}
}

func NewAvailabilityQueries(repo queries.AvailabilityReadStore, policy *slot.Policy, cfg config.Config) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(repo, policy, cfg.Reservation.MaxRangeDays)
}

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Auth.Secret, cfg.Auth.Issuer)
}

// ClockModule is split out so tests can swap in a mock clock.
var ClockModule = fx.Module("clock",
	fx.Provide(
		clock.NewRealClock,
	),
)
