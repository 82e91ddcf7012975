package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

// LockRepository grants short-lived exclusive leases, used to serialize slot
// allocation per HR user across instances.
type LockRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLockRepository constructs a Redis-backed lock repository.
func NewLockRepository(client *redis.Client, logger *zap.Logger) *LockRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockRepository{client: client, logger: logger}
}

// Acquire takes the lease or fails with ErrAssignInProgress when another
// holder owns it. The returned release func is safe to call once; the TTL
// bounds how long a crashed holder can wedge the key.
func (r *LockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, appErrors.ErrAssignInProgress
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Only the holder's token may delete the key; an expired lease taken
		// over by another caller is left alone.
		current, err := r.client.Get(ctx, key).Result()
		if err != nil || current != token {
			return
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			r.logger.Sugar().Warnw("lock release failed", "key", key, "error", err)
		}
	}
	return release, nil
}

// MemoryLocker is the single-instance fallback when Redis is not configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker constructs an in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// Acquire takes the key or fails with ErrAssignInProgress.
func (l *MemoryLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return nil, appErrors.ErrAssignInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}
	return release, nil
}
