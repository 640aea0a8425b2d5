package webhook

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobcard-automation/internal/model"
	pkgResponse "jobcard-automation/pkg/response"
)

// HandleSimproWebhook receives Simpro webhook deliveries.
// @Summary Simpro webhook receiver
// @Description Accepts any JSON payload, acknowledges immediately and processes it in the background
// @Tags Webhook
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string false "Shared secret"
// @Success 200 {object} response.Resp "Accepted or ignored"
// @Failure 401 {object} response.Resp "Invalid secret"
// @Failure 403 {object} response.Resp "Source not allowed"
// @Failure 429 {object} response.Resp "Rate limit exceeded"
// @Failure 503 {object} response.Resp "Shutting down"
// @Router /webhook/simpro [post]
func (h *Handler) HandleSimproWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "internal.webhook.HandleSimproWebhook: %v", err)
		pkgResponse.Forbidden(c)
		return
	}

	if err := h.security.ValidateSecret(c.Request); err != nil {
		h.l.Warnf(ctx, "internal.webhook.HandleSimproWebhook: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit(c.Request); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, pkgResponse.Resp{ErrorCode: http.StatusTooManyRequests, Message: "rate limit exceeded"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	event := Classify(body, time.Now().UTC())
	if event.Kind == model.EventUnknown {
		h.l.Infof(ctx, "Unclassified webhook ignored: event=%q action=%q", event.EventID, event.RawAction)
		pkgResponse.OK(c, gin.H{"status": "ignored", "kind": event.Kind})
		return
	}

	// Processing is detached from the request; the sender only sees the ack.
	if err := h.dispatcher.Submit(ctx, event); err != nil {
		h.l.Errorf(ctx, "internal.webhook.HandleSimproWebhook: submit %s job=%s quote=%s: %v", event.Kind, event.JobID, event.QuoteID, err)
		c.JSON(http.StatusServiceUnavailable, pkgResponse.Resp{ErrorCode: http.StatusServiceUnavailable, Message: "not accepting events"})
		return
	}

	pkgResponse.OK(c, gin.H{"status": "accepted", "kind": event.Kind})
}
