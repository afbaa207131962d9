package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shelfwise/lending/common/cache"
	"github.com/shelfwise/lending/common/clients"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
)

// Cache keys, one per entity type
const (
	booksKey   = "readmodel:books"
	membersKey = "readmodel:members"
)

// ReadModel is the client-side cached view of the ledger.
//
// The cache is stale-until-refreshed: every successful mutation invalidates
// the affected entity type, and the next list call re-fetches from the
// ledger. Entries are never patched by local inference, so the view cannot
// drift from ledger state written by concurrent sessions.
type ReadModel struct {
	ledger *clients.LedgerClient
	cache  cache.Cache
	ttl    time.Duration
	log    *logger.Logger
}

// NewReadModel creates a read model over the given cache
func NewReadModel(ledger *clients.LedgerClient, c cache.Cache, ttl time.Duration, log *logger.Logger) *ReadModel {
	return &ReadModel{
		ledger: ledger,
		cache:  c,
		ttl:    ttl,
		log:    log,
	}
}

// Books returns the book list, served from cache when fresh
func (rm *ReadModel) Books(ctx context.Context) ([]*models.Book, error) {
	if data, ok := rm.cacheGet(ctx, booksKey); ok {
		var books []*models.Book
		if err := json.Unmarshal(data, &books); err == nil {
			rm.log.Debug("book list served from cache", "count", len(books))
			return books, nil
		}
		// Undecodable entry: treat as a miss and refresh
		_ = rm.cache.Delete(ctx, booksKey)
	}

	books, err := rm.ledger.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	rm.cacheSet(ctx, booksKey, books)
	return books, nil
}

// Members returns the member list, served from cache when fresh
func (rm *ReadModel) Members(ctx context.Context) ([]*models.Member, error) {
	if data, ok := rm.cacheGet(ctx, membersKey); ok {
		var members []*models.Member
		if err := json.Unmarshal(data, &members); err == nil {
			rm.log.Debug("member list served from cache", "count", len(members))
			return members, nil
		}
		_ = rm.cache.Delete(ctx, membersKey)
	}

	members, err := rm.ledger.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	rm.cacheSet(ctx, membersKey, members)
	return members, nil
}

// InvalidateBooks drops the cached book list
func (rm *ReadModel) InvalidateBooks(ctx context.Context) {
	if rm.cache == nil {
		return
	}
	if err := rm.cache.Delete(ctx, booksKey); err != nil {
		rm.log.Warn("failed to invalidate book list", "error", err)
	}
}

// InvalidateMembers drops the cached member list
func (rm *ReadModel) InvalidateMembers(ctx context.Context) {
	if rm.cache == nil {
		return
	}
	if err := rm.cache.Delete(ctx, membersKey); err != nil {
		rm.log.Warn("failed to invalidate member list", "error", err)
	}
}

func (rm *ReadModel) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if rm.cache == nil {
		return nil, false
	}
	data, found, err := rm.cache.Get(ctx, key)
	if err != nil {
		rm.log.Warn("cache read failed, falling through to ledger", "key", key, "error", err)
		return nil, false
	}
	return data, found
}

func (rm *ReadModel) cacheSet(ctx context.Context, key string, value any) {
	if rm.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := rm.cache.Set(ctx, key, data, rm.ttl); err != nil {
		rm.log.Warn("cache write failed", "key", key, "error", err)
	}
}
