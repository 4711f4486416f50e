package repository

import (
	"context"
	"log/slog"
	"time"

	"vendor-booking/internal/infra"
	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/pkg/pgconv"
	"vendor-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const idempotencyTable = "idempotency_keys"

// an expired record is taken over by the new claim; a live one is left untouched
const claimConflictSuffix = `ON CONFLICT (key, actor_id) DO UPDATE SET
	endpoint = EXCLUDED.endpoint,
	request_hash = EXCLUDED.request_hash,
	status = EXCLUDED.status,
	result_booking_id = NULL,
	expires_at = EXCLUDED.expires_at,
	created_at = EXCLUDED.created_at
WHERE idempotency_keys.expires_at <= EXCLUDED.created_at
RETURNING key`

type IdempotencyRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewIdempotencyRepository(db db.DBTX, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *IdempotencyRepository) Claim(ctx context.Context, rec shared.IdempotencyRecord) (*shared.IdempotencyRecord, error) {
	query, args, err := psql.Insert(idempotencyTable).
		Columns("key", "actor_id", "endpoint", "request_hash", "status", "expires_at", "created_at").
		Values(rec.Key, rec.ActorID, rec.Endpoint, rec.RequestHash, shared.IdempotencyStatusProcessing,
			pgconv.TimeToPgtype(rec.ExpiresAt), pgconv.TimeToPgtype(rec.CreatedAt)).
		Suffix(claimConflictSuffix).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency claim", err)
	}

	var claimed uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&claimed)
	if err == nil {
		return nil, nil
	}
	if !pgconv.IsNoRows(err) {
		return nil, wrapPgErr(r.logger, "failed to claim idempotency key", err)
	}

	return r.get(ctx, rec.Key, rec.ActorID)
}

func (r *IdempotencyRepository) get(ctx context.Context, key, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	query, args, err := psql.Select("key", "actor_id", "endpoint", "request_hash", "status", "result_booking_id", "expires_at", "created_at").
		From(idempotencyTable).
		Where(squirrel.Eq{"key": key, "actor_id": actorID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency query", err)
	}

	var (
		rec    shared.IdempotencyRecord
		result pgtype.UUID
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&rec.Key, &rec.ActorID, &rec.Endpoint, &rec.RequestHash, &rec.Status, &result, &rec.ExpiresAt, &rec.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, wrapPgErr(r.logger, "failed to get idempotency key", err)
	}
	rec.ResultBookingID = pgconv.UUIDPtrFromPgtype(result)
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, actorID, bookingID uuid.UUID) error {
	query, args, err := psql.Update(idempotencyTable).
		Set("status", shared.IdempotencyStatusCompleted).
		Set("result_booking_id", bookingID).
		Where(squirrel.Eq{"key": key, "actor_id": actorID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr(r.logger, "failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	return nil
}

// DeleteExpired purges records whose replay window closed before now.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql.Delete(idempotencyTable).
		Where(squirrel.LtOrEq{"expires_at": pgconv.TimeToPgtype(now)}).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency delete", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapPgErr(r.logger, "failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
