package registry

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Spec is everything the query view needs to know about a rendered heavy
// widget. It is rebuilt and re-registered on every render.
type Spec struct {
	UUID       string `json:"uuid"`
	URL        string `json:"url"`
	Source     string `json:"source"`
	MaxResults int    `json:"max_results"`
	// DependentFields maps form field names to the source-side fields their
	// values filter. Values arrive as extra query parameters on each search.
	DependentFields map[string]string `json:"dependent_fields,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Store persists widget specs with a TTL.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the store's configured default TTL
//   - Negative: entry never expires
type Store interface {
	// Get retrieves a spec by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (Spec, error)

	// Set stores a spec with the given TTL.
	Set(ctx context.Context, key string, spec Spec, ttl time.Duration) error

	// Delete removes a key from the store.
	Delete(ctx context.Context, key string) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

// Registry is the front over a Store: it namespaces keys, applies the
// registration TTL, and collapses concurrent writes of the same widget.
type Registry struct {
	store  Store
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

// Option configures the registry.
type Option func(*Registry)

// WithPrefix namespaces all keys as "{prefix}:{uuid}".
// Default: "tomselect".
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL sets how long a registration stays resolvable.
// Zero defers to the store's default TTL.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) {
		r.ttl = d
	}
}

// New creates a registry over the given store.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		prefix: "tomselect",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure registers a spec, refreshing its TTL. Concurrent renders of the
// same widget produce a single store write.
func (r *Registry) Ensure(ctx context.Context, spec Spec) error {
	if spec.UUID == "" {
		return ErrEmptyUUID
	}
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = time.Now()
	}

	key := r.key(spec.UUID)
	_, err, _ := r.sf.Do(key, func() (any, error) {
		return nil, r.store.Set(ctx, key, spec, r.ttl)
	})
	return err
}

// Lookup resolves a widget UUID to its spec.
// Returns ErrNotFound for unknown or expired widgets.
func (r *Registry) Lookup(ctx context.Context, uuid string) (Spec, error) {
	if uuid == "" {
		return Spec{}, ErrNotFound
	}
	return r.store.Get(ctx, r.key(uuid))
}

// Forget drops a registration.
func (r *Registry) Forget(ctx context.Context, uuid string) error {
	return r.store.Delete(ctx, r.key(uuid))
}

// Close closes the underlying store.
func (r *Registry) Close() error {
	return r.store.Close()
}

func (r *Registry) key(uuid string) string {
	return r.prefix + ":" + uuid
}
