package renewal

import (
	"sync/atomic"
	"time"

	"jobcard-automation/internal/gateway"
	pkgLog "jobcard-automation/pkg/log"
)

type usecase struct {
	gw      gateway.Gateway
	cfg     Config
	running atomic.Bool
	now     func() time.Time
	l       pkgLog.Logger
}

func New(gw gateway.Gateway, cfg Config, l pkgLog.Logger) UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &usecase{
		gw:  gw,
		cfg: cfg,
		now: time.Now,
		l:   l,
	}
}
