// Package ttlcache provides an in-memory cache whose entries expire after a
// sliding idle timeout. Every Get or Set restarts the entry's timer; an entry
// that goes untouched for the full TTL is removed, with an optional hook
// invoked just before removal.
//
// Typical usage:
//
//	c := ttlcache.New[string, *Session](30*time.Second, func(id string, s *Session) {
//	    s.Flush()
//	})
//	c.Set("abc", sess)
//	if s, ok := c.Get("abc"); ok { ... }
//
// The package is intentionally minimal: no max-size bound, no periodic sweep.
// Each entry carries its own timer; eviction of one key never blocks another.
package ttlcache

import (
	"sync"
	"time"
)

// Cache holds values keyed by K until they sit idle for the configured TTL.
// It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[K]*entry[V]
	onEvict func(K, V)
	stopped bool
}

type entry[V any] struct {
	value V
	timer *time.Timer
}

// New creates a cache with the given idle TTL. onEvict, if non-nil, runs on
// the expiring entry's goroutine right before the entry is removed; it is not
// called for explicit Delete or Stop.
func New[K comparable, V any](ttl time.Duration, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:     ttl,
		entries: make(map[K]*entry[V]),
		onEvict: onEvict,
	}
}

// Get returns the live value for key and restarts its idle timer.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.timer.Reset(c.ttl)
	return e.value, true
}

// Set inserts or replaces the value for key and restarts its idle timer.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.timer.Reset(c.ttl)
		return
	}
	e := &entry[V]{value: value}
	e.timer = time.AfterFunc(c.ttl, func() { c.expire(key) })
	c.entries[key] = e
}

// Delete removes the entry for key without invoking the eviction hook.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop drops all entries and stops their timers. The eviction hook is not
// invoked. The cache accepts no new entries afterwards.
func (c *Cache[K, V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		e.timer.Stop()
		delete(c.entries, k)
	}
	c.stopped = true
}

// expire runs on the entry's timer goroutine when the idle TTL elapses.
// A concurrent Get/Set may have reset the timer after it fired; in that case
// the entry is left alone and the rescheduled timer will fire again later.
func (c *Cache[K, V]) expire(key K) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	// Timer.Reset after fire reschedules; Stop reports whether the reschedule
	// is still pending. If it is, a touch won the race and the entry stays.
	if e.timer.Stop() {
		e.timer.Reset(c.ttl)
		c.mu.Unlock()
		return
	}
	delete(c.entries, key)
	value := e.value
	hook := c.onEvict
	c.mu.Unlock()

	if hook != nil {
		hook(key, value)
	}
}
