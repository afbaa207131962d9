package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/redis"
)

// Guard ensures at most one borrow/return mutation is in flight per book
// within one client session. A rejected acquire never reaches the ledger;
// release runs unconditionally on completion, success or failure alike.
//
// This is a UX safeguard only. The ledger's own conflict check stays
// authoritative; the guard merely avoids sending redundant requests.
type Guard interface {
	Acquire(ctx context.Context, bookID int64) error
	Release(ctx context.Context, bookID int64)
}

// LocalGuard tracks in-flight book ids in process memory
type LocalGuard struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewLocalGuard creates an in-process guard
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{
		inflight: make(map[int64]struct{}),
	}
}

// Acquire marks the book as operating, or fails with busy
func (g *LocalGuard) Acquire(ctx context.Context, bookID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inflight[bookID]; ok {
		return lending.Busy("an operation for book %d is already in flight", bookID)
	}
	g.inflight[bookID] = struct{}{}
	return nil
}

// Release clears the book's in-flight mark
func (g *LocalGuard) Release(ctx context.Context, bookID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, bookID)
}

// RedisGuard tracks in-flight book ids in Redis so one logical session can
// span processes. Locks carry a TTL as a safety net against a client that
// dies mid-operation.
type RedisGuard struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
	log       *logger.Logger
}

// NewRedisGuard creates a Redis-backed guard scoped to a session
func NewRedisGuard(client *redis.Client, sessionID string, ttl time.Duration, log *logger.Logger) *RedisGuard {
	return &RedisGuard{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
		log:       log,
	}
}

// Acquire takes the per-book lock via SETNX, or fails with busy
func (g *RedisGuard) Acquire(ctx context.Context, bookID int64) error {
	wasSet, err := g.client.SetNX(ctx, g.key(bookID), "1", g.ttl)
	if err != nil {
		return lending.Transport(err)
	}
	if !wasSet {
		return lending.Busy("an operation for book %d is already in flight", bookID)
	}
	return nil
}

// Release drops the per-book lock. Failures are logged, not returned: the
// TTL reclaims a leaked lock and the caller's outcome is already decided.
func (g *RedisGuard) Release(ctx context.Context, bookID int64) {
	if err := g.client.Delete(ctx, g.key(bookID)); err != nil {
		g.log.Warn("guard release failed, ttl will reclaim the lock", "book_id", bookID, "error", err)
	}
}

func (g *RedisGuard) key(bookID int64) string {
	return fmt.Sprintf("guard:%s:%d", g.sessionID, bookID)
}
