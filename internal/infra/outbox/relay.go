package outbox

import (
	"context"
	"log/slog"
	"time"

	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/usecase/shared"
)

// Publisher delivers one outbox job to downstream consumers (mail, chat, webhooks).
type Publisher interface {
	Publish(ctx context.Context, job shared.NotificationJob) error
}

// LogPublisher writes jobs to the structured log; it stands in until a broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, job shared.NotificationJob) error {
	p.logger.Info("booking event published",
		"job_id", job.ID.String(),
		"kind", job.Kind,
		"topic", job.Topic,
		"attempt", job.Attempts+1,
		"payload", string(job.Payload))
	return nil
}

type Options struct {
	BatchSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 30 * time.Second
	}
	return o
}

type Result struct {
	Sent    int
	Retried int
	Failed  int
}

// Relay drains due jobs. Claimed rows stay locked until the batch commits, so two relays
// never deliver the same job concurrently; delivery is still at-least-once.
type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
	opts      Options
}

func NewRelay(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, logger *slog.Logger, opts Options) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

func (r *Relay) RunOnce(ctx context.Context) (Result, error) {
	var res Result
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res = Result{}
		now := r.clock.Now()

		jobs, err := tx.Notifications().ClaimDue(ctx, now, r.opts.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			pubErr := r.publisher.Publish(ctx, job)
			if pubErr == nil {
				if err := tx.Notifications().MarkSent(ctx, job.ID, now); err != nil {
					return err
				}
				res.Sent++
				continue
			}

			attempts := job.Attempts + 1
			var next *time.Time
			if attempts < r.opts.MaxAttempts {
				at := now.Add(backoff(r.opts.RetryDelay, attempts))
				next = &at
				res.Retried++
			} else {
				res.Failed++
			}
			r.logger.Warn("booking event delivery failed",
				"job_id", job.ID.String(),
				"topic", job.Topic,
				"attempts", attempts,
				"will_retry", next != nil,
				"error", pubErr.Error())
			if err := tx.Notifications().MarkFailed(ctx, job.ID, attempts, pubErr.Error(), next); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// backoff doubles delay for every attempt after the first.
func backoff(delay time.Duration, attempts int) time.Duration {
	if attempts > 10 {
		attempts = 10
	}
	return delay * time.Duration(1<<(attempts-1))
}
