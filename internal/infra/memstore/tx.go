package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx stages writes until commit. Reads inside the transaction see committed
// state overlaid with its own staged writes.
type memTx struct {
	store     *Store
	held      map[string]struct{}
	heldOrder []string

	slots    map[slotKey]availability.Record
	bookings map[uuid.UUID]booking.Snapshot
	newJobs  []shared.NotificationJob
	jobEdits map[uuid.UUID]shared.NotificationJob
	idem     map[idemKey]shared.IdempotencyRecord
}

func newMemTx(s *Store) *memTx {
	return &memTx{
		store:    s,
		held:     map[string]struct{}{},
		slots:    map[slotKey]availability.Record{},
		bookings: map[uuid.UUID]booking.Snapshot{},
		jobEdits: map[uuid.UUID]shared.NotificationJob{},
		idem:     map[idemKey]shared.IdempotencyRecord{},
	}
}

func (t *memTx) Availability() shared.AvailabilityRepository { return &availabilityRepo{tx: t} }
func (t *memTx) Bookings() shared.BookingRepository          { return &bookingRepo{tx: t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository   { return &idempotencyRepo{tx: t} }
func (t *memTx) Notifications() shared.NotificationRepository { return &notificationRepo{tx: t} }

func (t *memTx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key, t.store.lockTimeout); err != nil {
		if errs.Is(err, errLockTimeout) {
			return errs.Mark(infra.WrapRepoErr(t.store.logger, infra.KindLockTimeout, "lock "+key, err), shared.ErrRetryable)
		}
		return err
	}
	t.held[key] = struct{}{}
	t.heldOrder = append(t.heldOrder, key)
	return nil
}

func (t *memTx) releaseLocks() {
	for i := len(t.heldOrder) - 1; i >= 0; i-- {
		t.store.locks.release(t.heldOrder[i])
	}
	t.held = map[string]struct{}{}
	t.heldOrder = nil
}

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, r := range t.slots {
		s.slots[k] = r
	}
	for id, b := range t.bookings {
		s.bookings[id] = b
	}
	for i, j := range s.jobs {
		if edited, ok := t.jobEdits[j.ID]; ok {
			s.jobs[i] = edited
		}
	}
	s.jobs = append(s.jobs, t.newJobs...)
	for k, r := range t.idem {
		s.idem[k] = r
	}
}

func dayLockKey(vendorID uuid.UUID, date civil.Date) string {
	return fmt.Sprintf("day:%s:%s", vendorID, date)
}

// availability

type availabilityRepo struct {
	tx *memTx
}

func (r *availabilityRepo) LockDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) error {
	return r.tx.lock(ctx, dayLockKey(vendorID, date))
}

func (r *availabilityRepo) ListDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) ([]availability.Record, error) {
	return r.ListRange(ctx, vendorID, date, date)
}

func (r *availabilityRepo) ListRange(_ context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error) {
	in := func(k slotKey) bool {
		return k.vendorID == vendorID && !k.date.Before(start) && !k.date.After(end)
	}

	merged := map[slotKey]availability.Record{}
	r.tx.store.mu.RLock()
	for k, rec := range r.tx.store.slots {
		if in(k) {
			merged[k] = rec
		}
	}
	r.tx.store.mu.RUnlock()
	for k, rec := range r.tx.slots {
		if in(k) {
			merged[k] = rec
		}
	}

	out := make([]availability.Record, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	availability.SortBySlot(out)
	return out, nil
}

func (r *availabilityRepo) current(k slotKey) (availability.Record, bool) {
	if rec, ok := r.tx.slots[k]; ok {
		return rec, true
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	rec, ok := r.tx.store.slots[k]
	return rec, ok
}

func (r *availabilityRepo) Insert(_ context.Context, rec availability.Record) error {
	k := keyOf(rec)
	if _, exists := r.current(k); exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "availability slot already exists", nil)
	}
	r.tx.slots[k] = rec
	return nil
}

func (r *availabilityRepo) Update(_ context.Context, rec availability.Record) error {
	k := keyOf(rec)
	stored, exists := r.current(k)
	if !exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "availability slot not found", nil)
	}
	if stored.Version != rec.Version {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindStaleVersion, "availability slot changed concurrently", nil)
	}
	rec.ID = stored.ID
	rec.CreatedAt = stored.CreatedAt
	rec.Version = stored.Version + 1
	r.tx.slots[k] = rec
	return nil
}

// bookings

type bookingRepo struct {
	tx *memTx
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, exists := r.lookup(b.ID()); exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "booking already exists", nil)
	}
	r.tx.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r *bookingRepo) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := r.tx.lock(ctx, "booking:"+id.String()); err != nil {
		return nil, err
	}
	snap, ok := r.lookup(id)
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "booking not found", nil)
	}
	return booking.Reconstruct(snap), nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.lookup(b.ID()); !ok {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "booking not found", nil)
	}
	r.tx.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r *bookingRepo) lookup(id uuid.UUID) (booking.Snapshot, bool) {
	if snap, ok := r.tx.bookings[id]; ok {
		return snap, true
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	snap, ok := r.tx.store.bookings[id]
	return snap, ok
}

// idempotency

type idempotencyRepo struct {
	tx *memTx
}

func (r *idempotencyRepo) Claim(ctx context.Context, rec shared.IdempotencyRecord) (*shared.IdempotencyRecord, error) {
	k := idemKey{key: rec.Key, actorID: rec.ActorID}
	if err := r.tx.lock(ctx, fmt.Sprintf("idem:%s:%s", rec.Key, rec.ActorID)); err != nil {
		return nil, err
	}

	if existing, ok := r.lookup(k); ok && existing.ExpiresAt.After(rec.CreatedAt) {
		return &existing, nil
	}

	rec.Status = shared.IdempotencyStatusProcessing
	rec.ResultBookingID = nil
	r.tx.idem[k] = rec
	return nil, nil
}

func (r *idempotencyRepo) Complete(_ context.Context, key, actorID, bookingID uuid.UUID) error {
	k := idemKey{key: key, actorID: actorID}
	rec, ok := r.lookup(k)
	if !ok {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultBookingID = &bookingID
	r.tx.idem[k] = rec
	return nil
}

func (r *idempotencyRepo) lookup(k idemKey) (shared.IdempotencyRecord, bool) {
	if rec, ok := r.tx.idem[k]; ok {
		return rec, true
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	rec, ok := r.tx.store.idem[k]
	return rec, ok
}

// notifications

type notificationRepo struct {
	tx *memTx
}

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.tx.newJobs = append(r.tx.newJobs, shared.NotificationJob{
		ID:        uuid.New(),
		Kind:      kind,
		Topic:     topic,
		Payload:   append([]byte(nil), payload...),
		Status:    shared.JobQueued,
		RunAt:     runAt,
		CreatedAt: r.tx.store.clock.Now(),
	})
	return nil
}

func (r *notificationRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	if err := r.tx.lock(ctx, "outbox"); err != nil {
		return nil, err
	}

	r.tx.store.mu.RLock()
	var due []shared.NotificationJob
	for _, j := range r.tx.store.jobs {
		if j.Status == shared.JobQueued && !j.RunAt.After(now) {
			due = append(due, j)
		}
	}
	r.tx.store.mu.RUnlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *notificationRepo) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	return r.edit(id, func(j *shared.NotificationJob) {
		j.Status = shared.JobSent
		j.Attempts++
		j.LastError = ""
	})
}

func (r *notificationRepo) MarkFailed(_ context.Context, id uuid.UUID, attempts int, lastErr string, nextRunAt *time.Time) error {
	return r.edit(id, func(j *shared.NotificationJob) {
		j.Attempts = attempts
		j.LastError = lastErr
		if nextRunAt == nil {
			j.Status = shared.JobFailed
			return
		}
		j.Status = shared.JobQueued
		j.RunAt = *nextRunAt
	})
}

func (r *notificationRepo) edit(id uuid.UUID, apply func(*shared.NotificationJob)) error {
	job, ok := r.tx.jobEdits[id]
	if !ok {
		r.tx.store.mu.RLock()
		for _, j := range r.tx.store.jobs {
			if j.ID == id {
				job, ok = j, true
				break
			}
		}
		r.tx.store.mu.RUnlock()
	}
	if !ok {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "notification job not found", nil)
	}
	apply(&job)
	r.tx.jobEdits[id] = job
	return nil
}
