package registry

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// memEntry holds a stored spec with its expiration time and key.
type memEntry struct {
	expiresAt time.Time // zero value = never expires
	spec      Spec
	key       string
}

func (e *memEntry) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// Memory is an in-process spec store with TTL-based expiration and optional
// LRU eviction when a maximum entry count is configured. Expired entries
// are swept by a background janitor goroutine.
//
// Suitable for single-instance deployments and tests; use Redis when
// widgets rendered on one machine must resolve on another.
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates an in-memory spec store.
//
// Example:
//
//	store := registry.NewMemory(
//	    registry.WithDefaultTTL(30 * time.Minute),
//	    registry.WithMaxEntries(10000),
//	)
//	defer store.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a spec by key.
// Returns ErrNotFound if the key does not exist or has expired.
// Accessing a key marks it as recently used for LRU purposes.
func (m *Memory) Get(_ context.Context, key string) (Spec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return Spec{}, ErrNotFound
	}

	e := elem.Value.(*memEntry)
	if e.isExpired() {
		m.removeElement(elem)
		return Spec{}, ErrNotFound
	}

	m.eviction.MoveToFront(elem)

	return e.spec, nil
}

// Set stores a spec with the given TTL.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = never expires.
func (m *Memory) Set(_ context.Context, key string, spec Spec, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	// Re-registration of the same widget refreshes value and TTL.
	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*memEntry)
		e.spec = spec
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.evictOldest()
	}

	e := &memEntry{key: key, spec: spec, expiresAt: expiresAt}
	elem := m.eviction.PushFront(e)
	m.items[key] = elem

	return nil
}

// Delete removes a key from the store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[key]; ok {
		m.removeElement(elem)
	}

	return nil
}

// Has checks whether a key exists and has not expired.
func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}

	if elem.Value.(*memEntry).isExpired() {
		m.removeElement(elem)
		return false, nil
	}

	return true, nil
}

// Close stops the janitor goroutine and marks the store as closed.
// Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		e := elem.Value.(*memEntry)
		prev := elem.Prev()
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// evictOldest removes the least recently used entry.
// Caller must hold the mutex.
func (m *Memory) evictOldest() {
	if elem := m.eviction.Back(); elem != nil {
		m.removeElement(elem)
	}
}

// removeElement removes a specific element.
// Caller must hold the mutex.
func (m *Memory) removeElement(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*memEntry).key)
}

var _ Store = (*Memory)(nil)
