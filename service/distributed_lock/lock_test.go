package distributed_lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	lock := NewMemoryLock()
	lock.now = func() time.Time { return now }

	ok, err := lock.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = lock.TryLock(ctx, "job", time.Minute)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	locked, _ := lock.IsLocked(ctx, "job")
	assert.False(t, locked)
	assert.Error(t, lock.Refresh(ctx, "job", time.Minute))

	ok, _ = lock.TryLock(ctx, "job", time.Minute)
	assert.True(t, ok)
	require.NoError(t, lock.Refresh(ctx, "job", time.Hour))
	require.NoError(t, lock.Unlock(ctx, "job"))
	locked, _ = lock.IsLocked(ctx, "job")
	assert.False(t, locked)
}

func TestExecuteWithLock(t *testing.T) {
	ctx := context.Background()
	lock := NewMemoryLock()
	exec := NewLockExecutor(lock)

	calls := 0
	ran, err := exec.ExecuteWithLock(ctx, "k", time.Minute, func() error {
		calls++
		// nested attempt on the same key is skipped
		inner, innerErr := exec.ExecuteWithLock(ctx, "k", time.Minute, func() error {
			calls++
			return nil
		})
		assert.False(t, inner)
		return innerErr
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, calls)

	locked, _ := lock.IsLocked(ctx, "k")
	assert.False(t, locked, "lock released after run")

	boom := errors.New("boom")
	ran, err = exec.ExecuteWithLock(ctx, "k", time.Minute, func() error { return boom })
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
}

func TestWaitAndExecuteHonoursContext(t *testing.T) {
	lock := NewMemoryLock()
	_, _ = lock.TryLock(context.Background(), "busy", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := NewLockExecutor(lock).WaitAndExecute(ctx, "busy", time.Minute, 5*time.Millisecond, func() error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
