package server

import (
	"errors"
	"net/http"
	"strings"

	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
	"github.com/smallbiznis/skycover/internal/transfer"
	treasurydomain "github.com/smallbiznis/skycover/internal/treasury/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: validationMessage(err.Error()),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isStateConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "state_conflict",
			Code:    err.Error(),
			Message: "operation conflicts with current state",
		}
	case errors.Is(err, treasurydomain.ErrInsufficientPool):
		// Retryable once the pool is topped up.
		return http.StatusConflict, errorPayload{
			Type:    "insufficient_pool",
			Message: "pooled balance cannot cover this operation",
		}
	case errors.Is(err, transfer.ErrTransferFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "transfer_failed",
			Message: "funds transfer failed; operation rolled back",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, policydomain.ErrInvalidHolder),
		errors.Is(err, policydomain.ErrInvalidFlightNumber),
		errors.Is(err, policydomain.ErrInvalidPremium),
		errors.Is(err, policydomain.ErrInvalidSchedule),
		errors.Is(err, policydomain.ErrInsufficientCoverageRatio),
		errors.Is(err, policydomain.ErrInvalidFlightStatus),
		errors.Is(err, policydomain.ErrInvalidID),
		errors.Is(err, payouttierdomain.ErrInvalidRange),
		errors.Is(err, payouttierdomain.ErrInvalidMultiplier),
		errors.Is(err, treasurydomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, policydomain.ErrUnauthorized),
		errors.Is(err, payouttierdomain.ErrUnauthorized),
		errors.Is(err, treasurydomain.ErrUnauthorized):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, policydomain.ErrPolicyNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isStateConflictError(err error) bool {
	switch {
	case errors.Is(err, policydomain.ErrPolicyNotActive),
		errors.Is(err, policydomain.ErrAlreadyPaid),
		errors.Is(err, policydomain.ErrDelayBelowThreshold),
		errors.Is(err, policydomain.ErrDepartureAlreadyPassed):
		return true
	default:
		return false
	}
}

func validationMessage(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return "invalid " + strings.ReplaceAll(strings.TrimPrefix(code, "invalid_"), "_", " ")
	}
	return "validation error"
}
