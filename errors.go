package tomselect

import "errors"

// Sentinel errors.
var (
	// ErrNoDataSource is returned when a heavy widget is constructed without
	// a data URL or a named source.
	ErrNoDataSource = errors.New("tomselect: heavy widget requires a data URL or a source")

	// ErrBadSecret is returned when a signing secret is too short.
	ErrBadSecret = errors.New("tomselect: signing secret must be at least 32 bytes")

	// ErrBadSignature is returned when a field id token fails verification.
	ErrBadSignature = errors.New("tomselect: invalid field id signature")
)
