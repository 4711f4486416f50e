//go:build unit

package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTable_DropsIdleEntries(t *testing.T) {
	ctx := context.Background()
	locks := newLockTable()

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("vendor:day-%d", i)
		require.NoError(t, locks.acquire(ctx, key, time.Second))
		locks.release(key)
	}
	assert.Equal(t, 0, locks.size())
}

func TestLockTable_KeepsEntryWhileWaiting(t *testing.T) {
	ctx := context.Background()
	locks := newLockTable()
	const key = "vendor:2025-09-12"

	require.NoError(t, locks.acquire(ctx, key, time.Second))

	acquired := make(chan error, 1)
	go func() { acquired <- locks.acquire(ctx, key, time.Second) }()

	require.Eventually(t, func() bool {
		locks.mu.Lock()
		defer locks.mu.Unlock()
		return locks.locks[key] != nil && locks.locks[key].refs == 2
	}, time.Second, time.Millisecond)

	locks.release(key)
	require.NoError(t, <-acquired)
	assert.Equal(t, 1, locks.size(), "the waiter now holds the lock")

	locks.release(key)
	assert.Equal(t, 0, locks.size())
}

func TestLockTable_TimedOutWaiterLeavesNoEntry(t *testing.T) {
	ctx := context.Background()
	locks := newLockTable()
	const key = "vendor:2025-09-12"

	require.NoError(t, locks.acquire(ctx, key, time.Second))
	assert.ErrorIs(t, locks.acquire(ctx, key, 10*time.Millisecond), errLockTimeout)

	locks.release(key)
	assert.Equal(t, 0, locks.size())
}
