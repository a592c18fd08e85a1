package entities

import "errors"

// Core error taxonomy. Both are wrapped with detail via fmt.Errorf("%w: ...")
// so callers can classify with errors.Is.
var (
	// ErrUnsupportedFormat means no known object-format magic matched
	ErrUnsupportedFormat = errors.New("unsupported object format")

	// ErrMalformedObject means the format was recognized but the header or
	// section layout is inconsistent (truncated file, offset out of range).
	// It is surfaced, never silently ignored: it indicates corruption or a
	// parser gap.
	ErrMalformedObject = errors.New("malformed object file")
)
