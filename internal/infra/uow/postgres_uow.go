package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vendor-booking/internal/infra/repository"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Options struct {
	Retry       shared.RetryPolicy
	LockTimeout time.Duration
	Clock       clock.Clock
	Logger      *slog.Logger
}

type PostgresUoW struct {
	pool        TxBeginner
	retry       shared.RetryPolicy
	lockTimeout time.Duration
	clock       clock.Clock
	logger      *slog.Logger
}

func NewPostgresUoW(pool TxBeginner, opts Options) *PostgresUoW {
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = shared.DefaultRetryPolicy()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &PostgresUoW{
		pool:        pool,
		retry:       opts.Retry,
		lockTimeout: opts.LockTimeout,
		clock:       opts.Clock,
		logger:      opts.Logger,
	}
}

// Within runs fn under READ COMMITTED; the per-day advisory lock carries the isolation
// the availability check needs.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return shared.RunWithRetry(ctx, u.retry, u.logger, func(ctx context.Context) error {
		return u.runOnce(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	})
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runOnce(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return markRetryable(errs.Mark(err, errTransactionBegin))
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = markRetryable(errs.Mark(err, errTransactionCommit))
	}

	// rollback must run even when ctx is already done
	if rollbackErr := pgxTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			u.logger.Warn("rollback failed", "error", rollbackErr.Error())
		}
	}
	return err
}

func markRetryable(err error) error {
	if repository.IsRetryable(err) {
		return errs.Mark(err, shared.ErrRetryable)
	}
	return err
}

type pgTx struct {
	dbtx pgx.Tx
	uow  *PostgresUoW

	// Lazy-initialized repositories
	availabilityRepo shared.AvailabilityRepository
	bookingRepo      shared.BookingRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
}

func (t *pgTx) Availability() shared.AvailabilityRepository {
	if t.availabilityRepo == nil {
		t.availabilityRepo = repository.NewAvailabilityRepository(t.dbtx, t.uow.logger, t.uow.lockTimeout)
	}
	return t.availabilityRepo
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx, t.uow.logger)
	}
	return t.bookingRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.dbtx, t.uow.logger)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.dbtx, t.uow.logger, t.uow.clock.Now)
	}
	return t.notificationRepo
}
