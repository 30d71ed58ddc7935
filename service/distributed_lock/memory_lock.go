package distributed_lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLock is an in-process DistributedLock for single-replica deployments and tests.
type MemoryLock struct {
	mu    sync.Mutex
	now   func() time.Time
	locks map[string]time.Time // key -> expiry
}

// NewMemoryLock returns an empty lock table.
func NewMemoryLock() *MemoryLock {
	return &MemoryLock{now: time.Now, locks: make(map[string]time.Time)}
}

func (m *MemoryLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.locks[key]; ok && m.now().Before(exp) {
		return false, nil
	}
	m.locks[key] = m.now().Add(ttl)
	return true, nil
}

func (m *MemoryLock) Unlock(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MemoryLock) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.locks[key]
	if !ok || !m.now().Before(exp) {
		return fmt.Errorf("lock %s is not held", key)
	}
	m.locks[key] = m.now().Add(ttl)
	return nil
}

func (m *MemoryLock) IsLocked(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.locks[key]
	return ok && m.now().Before(exp), nil
}
