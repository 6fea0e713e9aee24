package service

import (
	"context"
	"sync"
	"time"

	"github.com/bsm/redislock"
)

// SessionLocker serializes critical sections keyed by session so only
// one writer at a time can advance a session's order counter.
type SessionLocker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

type redisLocker struct{ client *redislock.Client }

func NewRedisLocker(client *redislock.Client) SessionLocker {
	return &redisLocker{client: client}
}

func (l *redisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	lock, err := l.client.Obtain(ctx, "lock:"+key, 10*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	})
	if err != nil {
		return err
	}
	defer lock.Release(context.WithoutCancel(ctx))
	return fn()
}

// LocalLocker serializes by key within a single process. Useful for
// tests and single-instance deployments without Redis.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) WithLock(_ context.Context, key string, fn func() error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn()
}
