package types

import "errors"

// Request-level errors, detected before a handler runs.
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrMissingOperation = errors.New("no request attribute")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Domain errors. Handlers return these (wrapped with context) and the router
// turns them into a {"success": false} response; the session continues.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateProduct    = errors.New("product already exists")
	ErrReferentialConflict = errors.New("product still has fridge contents")
	ErrMissingMeasurement  = errors.New("missing measurement field")
)

// ErrStorageFailure marks an error from the storage engine itself, as
// opposed to a domain rule violation. Reported on the response stream when
// detected before commit; logged to the diagnostic channel otherwise.
var ErrStorageFailure = errors.New("storage failure")
