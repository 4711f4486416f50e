package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/infra/repository/converter"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AvailabilityRepository struct {
	db          db.DBTX
	logger      *slog.Logger
	lockTimeout time.Duration
}

func NewAvailabilityRepository(db db.DBTX, logger *slog.Logger, lockTimeout time.Duration) *AvailabilityRepository {
	return &AvailabilityRepository{
		db:          db,
		logger:      logger,
		lockTimeout: lockTimeout,
	}
}

// DayLockKey names the advisory lock guarding one vendor day.
func DayLockKey(vendorID uuid.UUID, date civil.Date) string {
	return "day:" + vendorID.String() + ":" + date.String()
}

// LockDay takes a transaction-scoped advisory lock. A waiter gives up after lockTimeout
// with 55P03, which the caller treats as retryable.
func (r *AvailabilityRepository) LockDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) error {
	if r.lockTimeout > 0 {
		_, err := r.db.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", fmt.Sprintf("%dms", r.lockTimeout.Milliseconds()))
		if err != nil {
			return wrapPgErr(r.logger, "failed to set lock timeout", err)
		}
	}

	_, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", DayLockKey(vendorID, date))
	if err != nil {
		return wrapPgErr(r.logger, "failed to lock vendor day", err)
	}
	return nil
}

func (r *AvailabilityRepository) ListDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) ([]availability.Record, error) {
	return r.list(ctx, squirrel.Eq{"vendor_id": vendorID, "slot_date": pgconv.DateToPgtype(date)})
}

func (r *AvailabilityRepository) ListRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"vendor_id": vendorID},
		squirrel.GtOrEq{"slot_date": pgconv.DateToPgtype(start)},
		squirrel.LtOrEq{"slot_date": pgconv.DateToPgtype(end)},
	})
}

func (r *AvailabilityRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]availability.Record, error) {
	query, args, err := psql.Select(converter.AvailabilityColumns...).
		From(converter.AvailabilityTable).
		Where(where).
		OrderBy("slot_date", "created_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list availability", err)
	}
	defer rows.Close()

	var records []availability.Record
	for rows.Next() {
		rec, err := converter.ScanAvailability(rows)
		if err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan availability", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to list availability", err)
	}
	return records, nil
}

func (r *AvailabilityRepository) Insert(ctx context.Context, rec availability.Record) error {
	query, args, err := psql.Insert(converter.AvailabilityTable).
		Columns(converter.AvailabilityColumns...).
		Values(converter.AvailabilityValues(rec)...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapPgErr(r.logger, "failed to insert availability", err)
	}
	return nil
}

// Update writes rec only while the stored version still equals rec.Version.
func (r *AvailabilityRepository) Update(ctx context.Context, rec availability.Record) error {
	query, args, err := psql.Update(converter.AvailabilityTable).
		Set("status", rec.Status.String()).
		Set("booking_id", pgconv.UUIDPtrToPgtype(rec.BookingID)).
		Set("wedding_id", pgconv.UUIDPtrToPgtype(rec.WeddingID)).
		Set("event_id", pgconv.UUIDPtrToPgtype(rec.EventID)).
		Set("reason", pgconv.TextToPgtype(rec.Reason)).
		Set("updated_at", pgconv.TimeToPgtype(rec.UpdatedAt)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rec.ID, "version": rec.Version}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr(r.logger, "failed to update availability", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindStaleVersion, "availability record changed concurrently", nil)
	}
	return nil
}
