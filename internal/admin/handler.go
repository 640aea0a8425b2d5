package admin

import (
	"fmt"
	"strconv"
	"time"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/idempotency"
	"jobcard-automation/internal/reconcile"
	"jobcard-automation/internal/renewal"
	"jobcard-automation/pkg/datemath"
	pkgLog "jobcard-automation/pkg/log"
	"jobcard-automation/pkg/response"

	"github.com/gin-gonic/gin"
)

type handler struct {
	l                 pkgLog.Logger
	gw                gateway.Gateway
	engine            reconcile.UseCase
	runner            renewal.UseCase
	stores            *idempotency.Stores
	dates             *datemath.Parser
	defaultAssigneeID int
}

// HandleCreateTask force-creates a task
// @Summary Create task
// @Description Create a task unless one with the same subject already exists. Repeating the same subject and due date is reported as a duplicate.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task"
// @Success 200 {object} response.Resp{data=CreateTaskResponse}
// @Failure 400 {object} response.Resp
// @Failure 502 {object} response.Resp
// @Router /api/v1/admin/tasks [post]
func (h *handler) HandleCreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	due, err := h.dates.Parse(req.DueDate, time.Now())
	if err != nil {
		response.Error(c, fmt.Errorf("%w: %v", errInvalidDate, err), nil)
		return
	}

	assignee := h.defaultAssigneeID
	if req.AssigneeID != nil {
		assignee = *req.AssigneeID
	}

	resp := CreateTaskResponse{Subject: req.Subject, DueDate: response.Date(due)}
	key := idempotency.ManualKey("task", req.Subject, datemath.FormatDate(due))
	seen, err := h.stores.Manual.Seen(ctx, key)
	if err != nil {
		h.l.Warnf(ctx, "internal.admin.HandleCreateTask: manual set unavailable: %v", err)
	}
	if seen {
		resp.Duplicate = true
		response.OK(c, resp)
		return
	}

	res, err := gateway.EnsureTask(ctx, h.gw, gateway.CreateTaskOptions{
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     due,
		AssigneeID:  assignee,
		JobID:       req.JobID,
	})
	if err != nil {
		h.l.Errorf(ctx, "internal.admin.HandleCreateTask: %v", err)
		h.mapError(c, err)
		return
	}
	if err := h.stores.Manual.MarkSeen(ctx, key); err != nil {
		h.l.Warnf(ctx, "internal.admin.HandleCreateTask: mark %s: %v", key, err)
	}

	resp.Created = res.Created
	resp.TaskID = res.TaskID
	resp.Existing = res.Existing
	response.OK(c, resp)
}

// HandlePreviewTrigger evaluates the maintenance trigger for a quote
// @Summary Preview trigger
// @Description Show the quote's custom fields and whether the maintenance trigger matches. No side effects.
// @Tags admin
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.Resp{data=reconcile.TriggerPreview}
// @Failure 502 {object} response.Resp
// @Router /api/v1/admin/quotes/{id}/trigger [get]
func (h *handler) HandlePreviewTrigger(c *gin.Context) {
	ctx := c.Request.Context()

	preview, err := h.engine.PreviewTrigger(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.admin.HandlePreviewTrigger: %v", err)
		h.mapError(c, err)
		return
	}
	response.OK(c, preview)
}

// HandleRunRenewals runs the renewal runner
// @Summary Run renewals
// @Description Scan maintenance jobs and create the reminder tasks due today. dry_run reports without creating.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RunRenewalsRequest false "Run options"
// @Success 200 {object} response.Resp{data=renewal.RunReport}
// @Failure 409 {object} response.Resp
// @Failure 502 {object} response.Resp
// @Router /api/v1/admin/renewals/run [post]
func (h *handler) HandleRunRenewals(c *gin.Context) {
	ctx := c.Request.Context()

	var req RunRenewalsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err, nil)
			return
		}
	}

	input := renewal.RunInput{
		TagID:      req.TagID,
		AssigneeID: req.AssigneeID,
		DryRun:     req.DryRun,
	}
	if req.Today != "" {
		today, err := h.dates.Parse(req.Today, time.Now())
		if err != nil {
			response.Error(c, fmt.Errorf("%w: %v", errInvalidDate, err), nil)
			return
		}
		input.Today = today
	}

	report, err := h.runner.Run(ctx, input)
	if err != nil {
		h.l.Errorf(ctx, "internal.admin.HandleRunRenewals: %v", err)
		h.mapError(c, err)
		return
	}
	response.OK(c, report)
}

// HandleReconcileJob replays reconciliation for one job
// @Summary Reconcile job
// @Description Run the job decision tree synchronously. status_id 0 uses the job's current status.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body ReconcileJobRequest false "Status override"
// @Success 200 {object} response.Resp{data=reconcile.HandleOutput}
// @Failure 400 {object} response.Resp
// @Failure 502 {object} response.Resp
// @Router /api/v1/admin/jobs/{id}/reconcile [post]
func (h *handler) HandleReconcileJob(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReconcileJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err, nil)
			return
		}
	}
	if raw := c.Query("status_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, fmt.Errorf("invalid status_id %q", raw), nil)
			return
		}
		req.StatusID = id
	}

	out, err := h.engine.ReconcileJob(ctx, reconcile.ReconcileJobInput{JobID: c.Param("id"), StatusID: req.StatusID})
	if err != nil {
		h.l.Errorf(ctx, "internal.admin.HandleReconcileJob: %v", err)
		h.mapError(c, err)
		return
	}
	response.OK(c, out)
}

// HandleIdempotencyStats reports the size of each idempotency set
// @Summary Idempotency stats
// @Tags admin
// @Produce json
// @Success 200 {object} response.Resp{data=StatsResponse}
// @Router /api/v1/admin/idempotency/stats [get]
func (h *handler) HandleIdempotencyStats(c *gin.Context) {
	ctx := c.Request.Context()

	sets, err := h.stores.Stats(ctx)
	if err != nil {
		h.l.Errorf(ctx, "internal.admin.HandleIdempotencyStats: %v", err)
		response.InternalError(c, err)
		return
	}
	response.OK(c, StatsResponse{Sets: sets, At: response.DateTime(time.Now())})
}
