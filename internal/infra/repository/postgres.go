package repository

import (
	"errors"
	"log/slog"

	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// wrapPgErr classifies a driver error into a repository error kind. Lock timeouts,
// deadlocks and serialization failures are marked retryable.
func wrapPgErr(logger *slog.Logger, msg string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
	case pgerrcode.ForeignKeyViolation:
		return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
	case pgerrcode.LockNotAvailable:
		return errs.Mark(infra.WrapRepoErr(logger, infra.KindLockTimeout, msg, err), shared.ErrRetryable)
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errs.Mark(infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err), shared.ErrRetryable)
	default:
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}
}

// IsRetryable reports whether err is a transient Postgres failure.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return true
	}
	return false
}
