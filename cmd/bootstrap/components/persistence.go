package components

import (
	"log/slog"

	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/infra/memstore"
	"vendor-booking/internal/infra/outbox"
	"vendor-booking/internal/infra/readstore"
	"vendor-booking/internal/infra/repository"
	"vendor-booking/internal/infra/uow"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/usecase/queries"
	"vendor-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// PostgresModule expects a *pgxpool.Pool and db.DBTX in the graph.
var PostgresModule = fx.Module("persistence/postgres",
	fx.Provide(
		fx.Annotate(
			NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			NewIdempotencyPurger,
			fx.As(new(outbox.ExpiredKeyPurger)),
		),
	),
)

// MemoryModule backs every port with one in-process store. State is lost on restart.
var MemoryModule = fx.Module("persistence/memory",
	fx.Provide(
		fx.Annotate(
			NewMemoryStore,
			fx.As(new(shared.UnitOfWork)),
			fx.As(new(queries.AvailabilityReadStore)),
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(outbox.ExpiredKeyPurger)),
		),
	),
)

func NewPostgresUoW(pool *pgxpool.Pool, cfg config.Config, retry shared.RetryPolicy, clk clock.Clock, logger *slog.Logger) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, uow.Options{
		Retry:       retry,
		LockTimeout: cfg.Reservation.LockTimeout,
		Clock:       clk,
		Logger:      logger,
	})
}

func NewIdempotencyPurger(conn db.DBTX, logger *slog.Logger) *repository.IdempotencyRepository {
	return repository.NewIdempotencyRepository(conn, logger)
}

func NewMemoryStore(cfg config.Config, retry shared.RetryPolicy, clk clock.Clock, logger *slog.Logger) *memstore.Store {
	return memstore.New(memstore.Options{
		LockTimeout: cfg.Reservation.LockTimeout,
		Retry:       retry,
		Clock:       clk,
		Logger:      logger,
	})
}
