package renewal

import "errors"

var (
	ErrRunnerBusy   = errors.New("renewal run already in progress")
	ErrInvalidTagID = errors.New("renewal tag id must be positive")
)
