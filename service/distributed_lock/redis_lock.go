/*
 * @module service/distributed_lock/redis_lock
 * @description Redis distributed lock so that replicas do not double-run cron jobs or race on NC sequences
 * @architecture Utility layer - distributed locking
 * @stateFlow acquire -> run -> release / expire
 * @rules SET NX with TTL; only the holder may release or refresh
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/automation/jobs.go, service/measurement/nc.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// DistributedLock is a named mutual-exclusion lock with expiry.
type DistributedLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Refresh(ctx context.Context, key string, ttl time.Duration) error
	IsLocked(ctx context.Context, key string) (bool, error)
}

const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

const refreshScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("expire", KEYS[1], ARGV[2])
	else
		return 0
	end
`

// RedisLock implements DistributedLock on a redis server.
type RedisLock struct {
	client     *redis.Client
	prefix     string
	instanceID string // identifies the holder
}

// RedisOptions configures NewRedisLock.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisLock connects to redis and verifies the connection.
func NewRedisLock(opts RedisOptions) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	lock := NewRedisLockWithClient(client, opts.Prefix)
	slog.Info("redis distributed lock ready", "instance_id", lock.instanceID, "addr", opts.Addr)
	return lock, nil
}

// NewRedisLockWithClient wraps an existing client.
func NewRedisLockWithClient(client *redis.Client, prefix string) *RedisLock {
	if prefix == "" {
		prefix = "ceramiqc:lock"
	}
	hostname, _ := os.Hostname()
	return &RedisLock{
		client:     client,
		prefix:     prefix,
		instanceID: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
	}
}

func (r *RedisLock) lockKey(key string) string {
	return r.prefix + ":" + key
}

func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.lockKey(key), r.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if ok {
		slog.Debug("lock acquired", "key", key, "ttl", ttl, "instance", r.instanceID)
	}
	return ok, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	result, err := r.client.Eval(ctx, unlockScript, []string{r.lockKey(key)}, r.instanceID).Int64()
	if err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	if result != 1 {
		slog.Warn("lock missing or held by another instance", "key", key, "instance", r.instanceID)
	}
	return nil
}

func (r *RedisLock) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	result, err := r.client.Eval(ctx, refreshScript, []string{r.lockKey(key)}, r.instanceID, int(ttl.Seconds())).Int64()
	if err != nil {
		return fmt.Errorf("refresh lock %s: %w", key, err)
	}
	if result != 1 {
		return fmt.Errorf("lock %s missing or held by another instance", key)
	}
	return nil
}

func (r *RedisLock) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.lockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("check lock %s: %w", key, err)
	}
	return n > 0, nil
}

// Close closes the redis client.
func (r *RedisLock) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// LockExecutor runs functions under a lock.
type LockExecutor struct {
	lock DistributedLock
}

// NewLockExecutor wraps lock.
func NewLockExecutor(lock DistributedLock) *LockExecutor {
	return &LockExecutor{lock: lock}
}

// ExecuteWithLock runs fn if the lock can be taken. It returns
// (false, nil) without running fn when another holder owns the lock.
func (e *LockExecutor) ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) (bool, error) {
	locked, err := e.lock.TryLock(ctx, key, ttl)
	if err != nil {
		return false, err
	}
	if !locked {
		slog.Debug("lock held elsewhere, skipping", "key", key)
		return false, nil
	}
	defer func() {
		if unlockErr := e.lock.Unlock(context.WithoutCancel(ctx), key); unlockErr != nil {
			slog.Error("release lock failed", "key", key, "error", unlockErr)
		}
	}()
	return true, fn()
}

// WaitAndExecute retries TryLock every interval until the lock is taken or
// ctx is done, then runs fn.
func (e *LockExecutor) WaitAndExecute(ctx context.Context, key string, ttl, interval time.Duration, fn func() error) error {
	for {
		ran, err := e.ExecuteWithLock(ctx, key, ttl, fn)
		if err != nil || ran {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for lock %s: %w", key, ctx.Err())
		case <-time.After(interval):
		}
	}
}
