package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/httputil"
	"github.com/fundforge/fundforge/internal/metrics"
	"github.com/fundforge/fundforge/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeInternalError     = "internal_error"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeConflict          = "conflict"
	ErrCodeRateLimited       = "rate_limited"
	ErrCodeValidationError   = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service-layer error to its HTTP shape. Denials
// and invalid transitions carry the error's own message so the caller can
// tell a permission problem from an entity-state problem.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, fallback string) {
	var denied *models.DeniedError
	var invalid *models.InvalidTransitionError

	switch {
	case errors.As(err, &denied):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, denied.Error())
	case errors.As(err, &invalid):
		respondError(c, http.StatusConflict, ErrCodeInvalidTransition, invalid.Error())
	case errors.Is(err, models.ErrVersionConflict):
		respondError(c, http.StatusConflict, ErrCodeConflict, "concurrent modification, retry the request")
	case errors.Is(err, models.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "duplicate id")
	case errors.Is(err, models.ErrMissingCampaign),
		errors.Is(err, models.ErrMissingBody),
		errors.Is(err, models.ErrMissingActor):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(fallback)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, fallback)
	}
}
