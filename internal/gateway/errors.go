package gateway

import "errors"

var (
	ErrInvalidJobID   = errors.New("job id is empty")
	ErrInvalidQuoteID = errors.New("quote id is empty")
	ErrInvalidTagID   = errors.New("tag id must be positive")
	ErrEmptySubject   = errors.New("task subject is empty")
	ErrEmptyMarker    = errors.New("note marker token is empty")
)
