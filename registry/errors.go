package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when a widget spec does not exist or has expired.
	ErrNotFound = errors.New("registry: spec not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("registry: closed")

	// ErrEmptyUUID is returned when a spec without a UUID is registered.
	ErrEmptyUUID = errors.New("registry: spec has no uuid")

	// ErrEmptyRedisURL is returned by Dial when no connection URL is given.
	ErrEmptyRedisURL = errors.New("registry: redis connection url required")

	// ErrParseRedisURL is returned by Dial for malformed connection URLs.
	ErrParseRedisURL = errors.New("registry: failed to parse redis url")

	// ErrRedisUnavailable is returned by Dial when the server cannot be
	// reached within the configured retries.
	ErrRedisUnavailable = errors.New("registry: redis unavailable")
)
