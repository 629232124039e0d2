// Package idempotency guards operations with an external side effect
// against concurrent or repeated execution.
//
// Checkout claims a key derived from the user id and a client-supplied
// nonce before calling the payment gateway; a second request carrying the
// same nonce finds the key taken and is rejected without reaching the
// gateway. Two drivers exist, mirroring the queue pattern: Redis for
// production (claims are visible across processes) and an in-memory map
// for tests and single-node development.
package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store claims and releases idempotency keys.
type Store interface {
	// Claim atomically takes the key for ttl. Returns false when some
	// earlier call already holds it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the key early, e.g. after a gateway decline, so the
	// customer can retry with the same nonce.
	Release(ctx context.Context, key string) error
}

// ── Redis driver ─────────────────────────────────────────────────────────────

// RedisStore backs claims with SET NX + TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "idem:"}
}

func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.prefix+key, 1, ttl).Result()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// ── Memory driver ────────────────────────────────────────────────────────────

// MemoryStore keeps claims in-process. Good enough for tests and for a
// single-node deployment without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	claims map[string]time.Time // key → expiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[string]time.Time)}
}

func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if exp, ok := s.claims[key]; ok && exp.After(now) {
		return false, nil
	}
	s.claims[key] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, key)
	return nil
}
