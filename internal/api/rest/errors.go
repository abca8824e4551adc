package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tickettoken/gatekeeper/internal/api/apierrors"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondForbidden responds with a forbidden error
func respondForbidden(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusForbidden, apierrors.NewForbiddenError(message, details...))
}

// respondInternalError responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string, details ...string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message, details...))
}

// respondDomainError maps domain sentinels to API errors. Returns false
// when the error is not a recognized sentinel so the caller can fall back
// to an internal error.
func respondDomainError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, domain.ErrResourceNotFound):
		respondNotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrGrantNotFound):
		respondNotFound(c, "Grant not found")
	case errors.Is(err, domain.ErrGrantExpired):
		c.JSON(http.StatusForbidden, apierrors.NewGrantStateError(apierrors.ErrCodeGrantExpired, "Grant has expired"))
	case errors.Is(err, domain.ErrGrantExhausted):
		c.JSON(http.StatusForbidden, apierrors.NewGrantStateError(apierrors.ErrCodeGrantExhausted, "Grant usage is exhausted"))
	case errors.Is(err, domain.ErrGrantRevoked):
		c.JSON(http.StatusForbidden, apierrors.NewGrantStateError(apierrors.ErrCodeGrantRevoked, "Grant has been revoked"))
	case errors.Is(err, domain.ErrVerificationUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierrors.NewVerificationUnavailableError())
	case errors.Is(err, domain.ErrCheckTimeout):
		c.JSON(http.StatusGatewayTimeout, apierrors.NewCheckTimeoutError())
	default:
		return false
	}
	return true
}
