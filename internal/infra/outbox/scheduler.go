package outbox

import (
	"context"
	"log/slog"
	"time"

	"vendor-booking/internal/pkg/clock"

	"github.com/robfig/cron/v3"
)

// ExpiredKeyPurger removes idempotency records past their replay window.
type ExpiredKeyPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

const (
	runTimeout    = 30 * time.Second
	purgeSchedule = "@hourly"
)

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler runs the relay on schedule and, when purger is set, purges expired
// idempotency keys hourly. Overlapping runs are skipped, not queued.
func NewScheduler(relay *Relay, purger ExpiredKeyPurger, clk clock.Clock, schedule string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		res, err := relay.RunOnce(ctx)
		if err != nil {
			logger.Error("outbox relay run failed", "error", err.Error())
			return
		}
		if res.Sent+res.Retried+res.Failed > 0 {
			logger.Info("outbox relay run", "sent", res.Sent, "retried", res.Retried, "failed", res.Failed)
		}
	})
	if err != nil {
		return nil, err
	}

	if purger != nil {
		_, err = c.AddFunc(purgeSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			defer cancel()

			n, err := purger.DeleteExpired(ctx, clk.Now())
			if err != nil {
				logger.Error("idempotency purge failed", "error", err.Error())
				return
			}
			logger.Debug("idempotency keys purged", "count", n)
		})
		if err != nil {
			return nil, err
		}
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("outbox scheduler started")
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err.Error())...)
}
