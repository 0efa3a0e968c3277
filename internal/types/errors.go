package types

import "errors"

// Domain sentinel errors, matched with errors.Is at the handler boundary.
var (
	ErrNotFound    = errors.New("requested item not found")
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("dependency not configured or unavailable")
)
