package client

import (
	"context"
	"errors"
	"sync"
	"time"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/db"
)

// defaultPricingTTL bounds how stale a cached registry row may be when
// pricing a call. Registry refreshes are rare, so five minutes is plenty.
const defaultPricingTTL = 5 * time.Minute

// pricingCache memoizes registry lookups so per-call cost computation does
// not hit the database on every request. Unknown models are cached too
// (as nil) to avoid repeated misses for unregistered local models.
type pricingCache struct {
	store *db.DB
	ttl   time.Duration

	mu      sync.Mutex
	entries map[ai.ModelRef]pricingEntry
}

type pricingEntry struct {
	model     *ai.ModelInfo
	fetchedAt time.Time
}

func newPricingCache(store *db.DB, ttl time.Duration) *pricingCache {
	if ttl <= 0 {
		ttl = defaultPricingTTL
	}
	return &pricingCache{
		store:   store,
		ttl:     ttl,
		entries: make(map[ai.ModelRef]pricingEntry),
	}
}

// lookup returns the active registry row for ref, or nil when the model is
// not registered. Infrastructure errors are not cached.
func (pc *pricingCache) lookup(ctx context.Context, ref ai.ModelRef) *ai.ModelInfo {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if e, ok := pc.entries[ref]; ok && time.Since(e.fetchedAt) < pc.ttl {
		return e.model
	}

	m, err := pc.store.GetModel(ctx, ref.Provider, ref.Model)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil
		}
		m = nil
	}

	pc.entries[ref] = pricingEntry{model: m, fetchedAt: time.Now()}
	return m
}
