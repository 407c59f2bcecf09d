package cache

import (
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
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCacheExpiresItems(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New[[]int](time.Minute, WithClock(clock.Now), WithJanitorInterval(0))
	defer c.Stop()

	c.Set("leads", []int{1, 2, 3})
	got, ok := c.Get("leads")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, got)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("leads")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.DeleteExpired()
	assert.Equal(t, 0, c.Len())
}

func TestCacheWithoutTTLNeverExpires(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := New[string](0, WithClock(clock.Now), WithJanitorInterval(0))
	defer c.Stop()

	c.Set("k", "v")
	clock.Advance(24 * time.Hour)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := New[int](time.Hour, WithJanitorInterval(0))
	defer c.Stop()

	c.Set("a", 1)
	c.SetWithTTL("b", 2, time.Minute)
	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheJanitorRemovesExpired(t *testing.T) {
	c := New[int](time.Millisecond, WithJanitorInterval(5*time.Millisecond))
	defer c.Stop()

	c.Set("a", 1)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCacheStopIsIdempotent(t *testing.T) {
	c := New[int](time.Minute, WithJanitorInterval(time.Millisecond))
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestCacheJanitorCanBeDisabled(t *testing.T) {
	c := New[int](time.Minute, WithJanitorInterval(0))
	assert.False(t, c.HasJanitor())

	d := New[int](time.Minute)
	defer d.Stop()
	assert.True(t, d.HasJanitor())
}
