package middleware

import (
	"jobcard-automation/pkg/log"
)

type Middleware struct {
	l          log.Logger
	adminToken string
}

// New creates the middleware set. An empty adminToken leaves the admin group open.
func New(l log.Logger, adminToken string) Middleware {
	return Middleware{
		l:          l,
		adminToken: adminToken,
	}
}
