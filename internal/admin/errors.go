package admin

import (
	"errors"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/reconcile"
	"jobcard-automation/internal/renewal"
	"jobcard-automation/pkg/fallback"
	"jobcard-automation/pkg/response"
	pkgSimpro "jobcard-automation/pkg/simpro"

	"github.com/gin-gonic/gin"
)

var errInvalidDate = errors.New("invalid date")

var badRequest = []error{
	errInvalidDate,
	gateway.ErrInvalidJobID,
	gateway.ErrInvalidQuoteID,
	gateway.ErrInvalidTagID,
	gateway.ErrEmptySubject,
	reconcile.ErrJobIDRequired,
	reconcile.ErrQuoteIDRequired,
	renewal.ErrInvalidTagID,
}

func (h *handler) mapError(c *gin.Context, err error) {
	if errors.Is(err, renewal.ErrRunnerBusy) {
		response.Conflict(c, err)
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			response.Error(c, err, nil)
			return
		}
	}
	if status, ok := upstreamStatus(err); ok {
		response.GatewayError(c, err, status)
		return
	}
	response.InternalError(c, err)
}

// upstreamStatus finds the API status behind err. When every fallback
// candidate failed, the final attempt's status is reported.
func upstreamStatus(err error) (int, bool) {
	var agg *fallback.Error
	if errors.As(err, &agg) {
		if last := agg.Last(); last != nil {
			err = last
		}
	}
	var apiErr *pkgSimpro.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	return apiErr.StatusCode, true
}
