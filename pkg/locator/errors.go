package locator

import "errors"

// Error categories. Every failure returned by this package wraps one of
// these sentinels, so callers can classify with errors.Is and still show
// the detailed message to an end user.
var (
	// ErrInvalidURL marks structurally malformed input URLs: bad scheme,
	// missing host, empty host label, empty path component.
	ErrInvalidURL = errors.New("invalid sigil URL")

	// ErrInvalidLabel marks malformed binary resource labels: alphabet
	// decode failures, bad length, unsupported version, unknown codes.
	ErrInvalidLabel = errors.New("invalid resource label")

	// ErrMismatch marks semantic disagreement between an alias host and
	// the locator hash it is claimed to resolve to.
	ErrMismatch = errors.New("identity mismatch")

	// ErrInvalidInput marks invalid construction or mutation arguments:
	// unregistered media types, non-numeric version values, empty alias
	// hosts or sub-labels.
	ErrInvalidInput = errors.New("invalid input")
)
