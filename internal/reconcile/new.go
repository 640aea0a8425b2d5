package reconcile

import (
	"time"

	"golang.org/x/sync/singleflight"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/idempotency"
	pkgLog "jobcard-automation/pkg/log"
)

type usecase struct {
	gw      gateway.Gateway
	stores  *idempotency.Stores
	cfg     Config
	flights singleflight.Group
	now     func() time.Time
	l       pkgLog.Logger
}

func New(
	gw gateway.Gateway,
	stores *idempotency.Stores,
	cfg Config,
	l pkgLog.Logger,
) (UseCase, error) {
	if cfg.MaintenanceTagID <= 0 {
		return nil, ErrInvalidTagID
	}
	if cfg.ReviewerID == 0 {
		cfg.ReviewerID = cfg.AssigneeID
	}

	return &usecase{
		gw:     gw,
		stores: stores,
		cfg:    cfg,
		now:    time.Now,
		l:      l,
	}, nil
}
