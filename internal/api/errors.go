package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/httputil"
	"github.com/belnav/belnav/internal/metrics"
	"github.com/belnav/belnav/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeInternalError  = "internal_error"
	ErrCodeRateLimited    = "rate_limited"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondQueryError maps a query engine error onto an HTTP status: validation
// problems are the caller's fault, missing entities are 404, everything else
// is logged and reported as an internal error.
func respondQueryError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidQuery),
		errors.Is(err, models.ErrUnknownSeedMethod),
		errors.Is(err, models.ErrUnknownPathsMethod),
		errors.Is(err, models.ErrUnsupportedFormat),
		errors.Is(err, models.ErrMissingSource),
		errors.Is(err, models.ErrMissingTarget),
		errors.Is(err, models.ErrNodeNumberTooLarge):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, models.ErrNodeNotFound),
		errors.Is(err, models.ErrNetworkNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		// The caller is gone; there is nobody to answer.
		c.Abort()
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
