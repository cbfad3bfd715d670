// Package cache implements the in-memory TTL store for channel snapshots.
// It bounds call volume to slow or rate-limited upstreams: successful
// snapshots are kept for the long TTL, failed/mock ones for the short TTL so
// transient outages self-heal without hammering the platform on every
// request.
//
// The cache is an explicitly constructed, injected instance. It is safe for
// concurrent use; expired entries are evicted lazily on Get and proactively
// by the periodic sweep started with Run.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creatorpulse/channelvault/internal/models"
)

type entry struct {
	snapshot  *models.Snapshot
	expiresAt time.Time
}

// SnapshotCache is a mutex-guarded TTL map of snapshots.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is a clock seam for TTL tests.
	now func() time.Time
}

func New() *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds the canonical cache key for one account.
func Key(accountID int64, platform string) string {
	return fmt.Sprintf("snapshot:%d:%s", accountID, platform)
}

// Get returns the cached snapshot for key if it has not expired. An expired
// entry is evicted as a side effect; the expiry check and eviction happen
// atomically with respect to concurrent Sets for the same key.
func (c *SnapshotCache) Get(key string) (*models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.snapshot, true
}

// Set stores snapshot under key for ttl, overwriting any existing entry.
func (c *SnapshotCache) Set(key string, snapshot *models.Snapshot, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{snapshot: snapshot, expiresAt: c.now().Add(ttl)}
}

// Delete removes key if present.
func (c *SnapshotCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear drops all entries.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Len reports the current number of entries, expired or not.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// CleanupExpired sweeps the whole map and removes entries past their expiry.
// It returns the number of evicted entries.
func (c *SnapshotCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Run executes CleanupExpired every interval until ctx is cancelled. It is
// intended to run as a goroutine for the process lifetime.
func (c *SnapshotCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CleanupExpired()
		}
	}
}
