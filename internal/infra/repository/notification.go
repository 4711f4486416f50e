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

const notificationTable = "notification_jobs"

type NotificationRepository struct {
	db     db.DBTX
	logger *slog.Logger
	now    func() time.Time
}

func NewNotificationRepository(db db.DBTX, logger *slog.Logger, now func() time.Time) *NotificationRepository {
	if now == nil {
		now = time.Now
	}
	return &NotificationRepository{
		db:     db,
		logger: logger,
		now:    now,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	query, args, err := psql.Insert(notificationTable).
		Columns("id", "kind", "topic", "payload", "status", "attempts", "run_at", "created_at").
		Values(uuid.New(), kind, topic, payload, string(shared.JobQueued), 0,
			pgconv.TimeToPgtype(runAt), pgconv.TimeToPgtype(r.now())).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build notification insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapPgErr(r.logger, "failed to create notification job", err)
	}
	return nil
}

// ClaimDue skips rows another relay already holds.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	q := psql.Select("id", "kind", "topic", "payload", "status", "attempts", "last_error", "run_at", "created_at").
		From(notificationTable).
		Where(squirrel.Eq{"status": string(shared.JobQueued)}).
		Where(squirrel.LtOrEq{"run_at": pgconv.TimeToPgtype(now)}).
		OrderBy("run_at")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.Suffix("FOR UPDATE SKIP LOCKED").ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build notification query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var (
			job       shared.NotificationJob
			status    string
			lastError pgtype.Text
		)
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &status, &job.Attempts, &lastError, &job.RunAt, &job.CreatedAt); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan notification job", err)
		}
		job.Status = shared.JobStatus(status)
		job.LastError = pgconv.TextFromPgtype(lastError)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to claim notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"status":     string(shared.JobSent),
		"attempts":   squirrel.Expr("attempts + 1"),
		"last_error": pgtype.Text{},
		"sent_at":    pgconv.TimeToPgtype(at),
	})
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string, nextRunAt *time.Time) error {
	set := map[string]any{
		"status":     string(shared.JobFailed),
		"attempts":   attempts,
		"last_error": pgconv.TextToPgtype(lastErr),
	}
	if nextRunAt != nil {
		set["status"] = string(shared.JobQueued)
		set["run_at"] = pgconv.TimeToPgtype(*nextRunAt)
	}
	return r.update(ctx, id, set)
}

func (r *NotificationRepository) update(ctx context.Context, id uuid.UUID, set map[string]any) error {
	query, args, err := psql.Update(notificationTable).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build notification update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr(r.logger, "failed to update notification job", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "notification job not found", nil)
	}
	return nil
}
