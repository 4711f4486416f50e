package readstore

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

type BookingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(db db.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{
		db:     db,
		logger: logger,
	}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From(converter.BookingTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build booking query", err)
	}

	b, err := converter.ScanBooking(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find booking", err)
	}
	return b, nil
}

func (s *BookingReadStore) FindByWedding(ctx context.Context, weddingID uuid.UUID) ([]*booking.Booking, error) {
	return s.find(ctx, squirrel.Eq{"wedding_id": weddingID})
}

func (s *BookingReadStore) FindByVendor(ctx context.Context, vendorID uuid.UUID, status *booking.Status) ([]*booking.Booking, error) {
	where := squirrel.Eq{"vendor_id": vendorID}
	if status != nil {
		where["status"] = status.String()
	}
	return s.find(ctx, where)
}

func (s *BookingReadStore) find(ctx context.Context, where squirrel.Sqlizer) ([]*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From(converter.BookingTable).
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build booking query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list bookings", err)
	}
	defer rows.Close()

	bookings := make([]*booking.Booking, 0)
	for rows.Next() {
		b, err := converter.ScanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list bookings", err)
	}
	return bookings, nil
}
