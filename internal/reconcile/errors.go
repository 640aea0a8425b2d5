package reconcile

import "errors"

var (
	ErrJobIDRequired   = errors.New("job id is required")
	ErrQuoteIDRequired = errors.New("quote id is required")
	ErrInvalidTagID    = errors.New("maintenance tag id must be positive")
)
