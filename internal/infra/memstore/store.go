package memstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var errLockTimeout = errs.New("timed out waiting for calendar lock")

type slotKey struct {
	vendorID uuid.UUID
	date     civil.Date
	slot     string
}

func keyOf(r availability.Record) slotKey {
	return slotKey{vendorID: r.VendorID, date: r.Date, slot: string(r.Slot)}
}

type idemKey struct {
	key     uuid.UUID
	actorID uuid.UUID
}

type Options struct {
	LockTimeout time.Duration
	Retry       shared.RetryPolicy
	Clock       clock.Clock
	Logger      *slog.Logger
}

// Store keeps the whole schema in process memory. Writers go through Within, which
// stages changes per transaction and publishes them in one step on success.
type Store struct {
	mu       sync.RWMutex
	slots    map[slotKey]availability.Record
	bookings map[uuid.UUID]booking.Snapshot
	jobs     []shared.NotificationJob
	idem     map[idemKey]shared.IdempotencyRecord

	locks       *lockTable
	lockTimeout time.Duration
	retry       shared.RetryPolicy
	clock       clock.Clock
	logger      *slog.Logger
}

func New(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = shared.DefaultRetryPolicy()
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = 2 * time.Second
	}

	return &Store{
		slots:       map[slotKey]availability.Record{},
		bookings:    map[uuid.UUID]booking.Snapshot{},
		idem:        map[idemKey]shared.IdempotencyRecord{},
		locks:       newLockTable(),
		lockTimeout: opts.LockTimeout,
		retry:       opts.Retry,
		clock:       opts.Clock,
		logger:      opts.Logger,
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return shared.RunWithRetry(ctx, s.retry, s.logger, func(ctx context.Context) error {
		return s.runOnce(ctx, fn)
	})
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newMemTx(s)
	defer tx.releaseLocks()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) FindByVendorAndRange(_ context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []availability.Record
	for k, r := range s.slots {
		if k.vendorID == vendorID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	availability.SortBySlot(out)
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "booking not found", nil)
	}
	return booking.Reconstruct(snap), nil
}

func (s *Store) FindByWedding(_ context.Context, weddingID uuid.UUID) ([]*booking.Booking, error) {
	return s.filterBookings(func(b booking.Snapshot) bool { return b.WeddingID == weddingID }), nil
}

func (s *Store) FindByVendor(_ context.Context, vendorID uuid.UUID, status *booking.Status) ([]*booking.Booking, error) {
	return s.filterBookings(func(b booking.Snapshot) bool {
		return b.VendorID == vendorID && (status == nil || b.Status == *status)
	}), nil
}

func (s *Store) filterBookings(keep func(booking.Snapshot) bool) []*booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snaps []booking.Snapshot
	for _, b := range s.bookings {
		if keep(b) {
			snaps = append(snaps, b)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
		}
		return snaps[i].ID.String() < snaps[j].ID.String()
	})

	out := make([]*booking.Booking, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, booking.Reconstruct(snap))
	}
	return out
}

// Jobs returns a copy of the outbox in insertion order.
func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shared.NotificationJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// DeleteExpired drops idempotency records whose replay window closed at or before now.
func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, rec := range s.idem {
		if !rec.ExpiresAt.After(now) {
			delete(s.idem, k)
			n++
		}
	}
	return n, nil
}
