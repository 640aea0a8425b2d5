package webhook

import (
	"context"

	"jobcard-automation/internal/model"
	pkgLog "jobcard-automation/pkg/log"
)

// Dispatcher accepts classified events for background processing. Submit
// must not block on the processing itself.
type Dispatcher interface {
	Submit(ctx context.Context, ev model.WebhookEvent) error
}

type Handler struct {
	dispatcher Dispatcher
	security   *SecurityValidator
	l          pkgLog.Logger
}

func NewHandler(
	dispatcher Dispatcher,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		security:   NewSecurityValidator(securityConfig),
		l:          l,
	}
}
