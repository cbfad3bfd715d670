package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorpulse/channelvault/internal/models"
)

func snap(name string) *models.Snapshot {
	return &models.Snapshot{Account: name, Source: models.SourceAPI, RecentPosts: []models.Post{}}
}

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newFakeCache() (*SnapshotCache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := New()
	c.now = clock.Now
	return c, clock
}

func TestKey(t *testing.T) {
	assert.Equal(t, "snapshot:42:instagram", Key(42, "instagram"))
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newFakeCache()
	key := Key(1, "youtube")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, snap("a"), time.Minute)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "a", got.Account)
}

func TestCache_TTLBoundary(t *testing.T) {
	c, clock := newFakeCache()
	key := Key(1, "twitter")

	c.Set(key, snap("a"), time.Second)

	_, ok := c.Get(key)
	assert.True(t, ok, "entry must be served before expiry")

	clock.Advance(time.Second)

	_, ok = c.Get(key)
	assert.False(t, ok, "entry must not be served at/after expiry")
	assert.Equal(t, 0, c.Len(), "expired entry must be evicted lazily by Get")
}

func TestCache_OverwriteKeepsLatest(t *testing.T) {
	c, _ := newFakeCache()
	key := Key(7, "tiktok")

	c.Set(key, snap("old"), time.Minute)
	c.Set(key, snap("new"), time.Minute)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "new", got.Account)
	assert.Equal(t, 1, c.Len())
}

func TestCache_CleanupExpired(t *testing.T) {
	c, clock := newFakeCache()

	c.Set(Key(1, "a"), snap("1"), time.Second)
	c.Set(Key(2, "b"), snap("2"), time.Hour)

	clock.Advance(2 * time.Second)

	evicted := c.CleanupExpired()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get(Key(2, "b"))
	assert.True(t, ok)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c, _ := newFakeCache()

	c.Set(Key(1, "a"), snap("1"), time.Minute)
	c.Set(Key(2, "b"), snap("2"), time.Minute)

	c.Delete(Key(1, "a"))
	_, ok := c.Get(Key(1, "a"))
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_Run_SweepsPeriodically(t *testing.T) {
	c := New()
	c.Set(Key(1, "a"), snap("1"), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	key := Key(1, "a")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(key, snap("x"), time.Millisecond)
				c.Get(key)
				c.CleanupExpired()
			}
		}()
	}
	wg.Wait()
}
