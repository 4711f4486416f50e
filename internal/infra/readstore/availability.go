package readstore

import (
	"context"
	"log/slog"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/infra/repository/converter"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type AvailabilityReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAvailabilityReadStore(db db.DBTX, logger *slog.Logger) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		db:     db,
		logger: logger,
	}
}

// FindByVendorAndRange reads committed rows without taking any lock.
func (s *AvailabilityReadStore) FindByVendorAndRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error) {
	query, args, err := psql.Select(converter.AvailabilityColumns...).
		From(converter.AvailabilityTable).
		Where(squirrel.Eq{"vendor_id": vendorID}).
		Where(squirrel.GtOrEq{"slot_date": pgconv.DateToPgtype(start)}).
		Where(squirrel.LtOrEq{"slot_date": pgconv.DateToPgtype(end)}).
		OrderBy("slot_date", "created_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build availability query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find availability", err)
	}
	defer rows.Close()

	records := make([]availability.Record, 0)
	for rows.Next() {
		rec, err := converter.ScanAvailability(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan availability", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find availability", err)
	}
	return records, nil
}
