package storage

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache[string](ttl)
	c.now = clock.Now
	return c, clock
}

func TestCacheExpiresEntries(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("w1", "a")

	v, ok := c.Get("w1")
	require.True(t, ok)
	assert.Equal(t, "a", v)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("w1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c, clock := newTestCache(0)
	c.Set("k", "v")
	clock.Advance(1000 * time.Hour)
	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestCacheCleanupCallsOnEvict(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	var evicted []string
	c.OnEvict = func(key, _ string) { evicted = append(evicted, key) }

	c.Set("old", "1")
	clock.Advance(30 * time.Second)
	c.Set("new", "2")
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, []string{"old"}, evicted)
	assert.Equal(t, []string{"new"}, c.Keys())
}

func TestCacheTouchExtendsLifetime(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", "v")
	clock.Advance(50 * time.Second)
	require.True(t, c.Touch("k"))
	clock.Advance(50 * time.Second)

	_, ok := c.Get("k")
	assert.True(t, ok)
	assert.False(t, c.Touch("missing"))
}

func TestCacheGetOrCreate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	calls := 0
	create := func() (string, error) {
		calls++
		return "built", nil
	}

	v, err := c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, "built", v)
	v, err = c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, "built", v)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrCreate("bad", func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Delete("bad"))
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var evicted []string
	c.OnEvict = func(key, _ string) { evicted = append(evicted, key) }
	c.Set("a", "1")
	c.Set("b", "2")

	c.Clear()
	sort.Strings(evicted)
	assert.Equal(t, []string{"a", "b"}, evicted)
	assert.Equal(t, 0, c.Size())
}
