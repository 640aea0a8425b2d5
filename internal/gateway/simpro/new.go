package simpro

import (
	"jobcard-automation/internal/gateway"
	pkgLog "jobcard-automation/pkg/log"
	pkgSimpro "jobcard-automation/pkg/simpro"
)

type implGateway struct {
	client *pkgSimpro.Client
	l      pkgLog.Logger
}

// New creates a Gateway backed by the Simpro REST API.
func New(client *pkgSimpro.Client, l pkgLog.Logger) gateway.Gateway {
	return &implGateway{
		client: client,
		l:      l,
	}
}
