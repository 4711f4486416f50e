package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"vendor-booking/internal/pkg/errs"
)

var (
	// ErrRetryable marks transient failures (lock timeouts, deadlocks, serialization
	// failures, version races) that are safe to retry from the start of the transaction.
	ErrRetryable = errs.New("transient transaction failure")
	// ErrRetriesExhausted marks a transaction that kept failing transiently.
	ErrRetriesExhausted = errs.New("transaction failed after max retries")
)

type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseBackoff: 50 * time.Millisecond,
		MaxBackoff:  time.Second,
	}
}

// RunWithRetry calls attempt until it succeeds, fails permanently, or the policy is spent.
// Each call must start a fresh transaction so a retry never sees partial state.
func RunWithRetry(ctx context.Context, policy RetryPolicy, logger *slog.Logger, attempt func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for i := 0; i < policy.MaxAttempts; i++ {
		err = attempt(ctx)
		if err == nil {
			return nil
		}
		if !errs.Is(err, ErrRetryable) {
			return err
		}
		if i == policy.MaxAttempts-1 {
			break
		}

		waitTime := CalculateBackoff(i, policy.BaseBackoff, policy.MaxBackoff)
		logger.Warn("retrying transaction due to retryable error",
			"attempt", i+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return errs.Mark(ctx.Err(), ErrRetriesExhausted)
		case <-time.After(waitTime):
		}
	}

	logger.Error("transaction failed after max retries",
		"attempts", policy.MaxAttempts,
		"error", err.Error())
	return errs.Mark(err, ErrRetriesExhausted)
}

// CalculateBackoff doubles base per attempt, caps at maxWait and adds up to 20% jitter.
func CalculateBackoff(attempt int, base, maxWait time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	if maxWait > 0 && waitTime > maxWait {
		waitTime = maxWait
	}
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// mask the sign bit so the conversion stays positive
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- safe after masking
	return int64(uval) % n
}
