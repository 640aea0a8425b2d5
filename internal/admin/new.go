package admin

import (
	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/idempotency"
	"jobcard-automation/internal/reconcile"
	"jobcard-automation/internal/renewal"
	"jobcard-automation/pkg/datemath"
	pkgLog "jobcard-automation/pkg/log"

	"github.com/gin-gonic/gin"
)

// Handler is the interface for the operator endpoints
type Handler interface {
	HandleCreateTask(c *gin.Context)
	HandlePreviewTrigger(c *gin.Context)
	HandleRunRenewals(c *gin.Context)
	HandleReconcileJob(c *gin.Context)
	HandleIdempotencyStats(c *gin.Context)
}

// New creates a new admin handler
func New(
	l pkgLog.Logger,
	gw gateway.Gateway,
	engine reconcile.UseCase,
	runner renewal.UseCase,
	stores *idempotency.Stores,
	dates *datemath.Parser,
	defaultAssigneeID int,
) Handler {
	return &handler{
		l:                 l,
		gw:                gw,
		engine:            engine,
		runner:            runner,
		stores:            stores,
		dates:             dates,
		defaultAssigneeID: defaultAssigneeID,
	}
}

// RegisterRoutes mounts the handlers on rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/tasks", h.HandleCreateTask)
	rg.GET("/quotes/:id/trigger", h.HandlePreviewTrigger)
	rg.POST("/renewals/run", h.HandleRunRenewals)
	rg.POST("/jobs/:id/reconcile", h.HandleReconcileJob)
	rg.GET("/idempotency/stats", h.HandleIdempotencyStats)
}
