package repository

import (
	"context"
	"log/slog"

	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/infra/db"
	"vendor-booking/internal/infra/repository/converter"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type BookingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingRepository(db db.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query, args, err := psql.Insert(converter.BookingTable).
		Columns(converter.BookingColumns...).
		Values(converter.BookingValues(b)...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapPgErr(r.logger, "failed to create booking", err)
	}
	return nil
}

// Get locks the row until the transaction ends.
func (r *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From(converter.BookingTable).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking query", err)
	}

	b, err := converter.ScanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, wrapPgErr(r.logger, "failed to get booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	values := converter.BookingValues(b)
	set := make(map[string]any, len(converter.BookingColumns))
	for i, col := range converter.BookingColumns {
		switch col {
		case "id", "wedding_id", "vendor_id", "source", "created_by", "created_at":
			continue
		}
		set[col] = values[i]
	}

	query, args, err := psql.Update(converter.BookingTable).
		SetMap(set).
		Where(squirrel.Eq{"id": b.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr(r.logger, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", nil)
	}
	return nil
}
