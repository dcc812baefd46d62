package ttlcache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSlidesTTL(t *testing.T) {
	c := New[string, int](100*time.Millisecond, nil)
	defer c.Stop()

	c.Set("k", 1)

	// Touch at 80% of the TTL, then check again after another 80%: the
	// entry must survive both windows because each Get restarts the timer.
	time.Sleep(80 * time.Millisecond)
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestExpiryInvokesHookOnce(t *testing.T) {
	var calls atomic.Int32
	var evictedKey atomic.Value

	c := New[string, int](50*time.Millisecond, func(k string, v int) {
		calls.Add(1)
		evictedKey.Store(k)
	})
	defer c.Stop()

	c.Set("k", 7)
	time.Sleep(150 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "k", evictedKey.Load())
}

func TestSetRestartsTimer(t *testing.T) {
	c := New[string, int](100*time.Millisecond, nil)
	defer c.Stop()

	c.Set("k", 1)
	time.Sleep(80 * time.Millisecond)
	c.Set("k", 2)
	time.Sleep(80 * time.Millisecond)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestDeleteSkipsHook(t *testing.T) {
	var calls atomic.Int32
	c := New[string, int](50*time.Millisecond, func(string, int) { calls.Add(1) })
	defer c.Stop()

	c.Set("k", 1)
	c.Delete("k")
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestStopDropsEntries(t *testing.T) {
	var calls atomic.Int32
	c := New[string, int](50*time.Millisecond, func(string, int) { calls.Add(1) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Stop()

	assert.Equal(t, 0, c.Len())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	// A stopped cache accepts nothing new.
	c.Set("c", 3)
	assert.Equal(t, 0, c.Len())
}
