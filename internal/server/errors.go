package server

import (
	"errors"
	"net/http"

	analyticsdomain "github.com/cirrusops/revenue/internal/analytics/domain"
	approvaldomain "github.com/cirrusops/revenue/internal/approval/domain"
	catalogdomain "github.com/cirrusops/revenue/internal/catalog/domain"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/cirrusops/revenue/internal/pricing"
	quotedomain "github.com/cirrusops/revenue/internal/quote/domain"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isBadRequestError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isBadRequestError(err error) bool {
	for _, candidate := range []error{
		ErrInvalidRequest,
		pricing.ErrNoTiers,
		approvaldomain.ErrInvalidOrganization,
		approvaldomain.ErrInvalidDimension,
		approvaldomain.ErrInvalidOperator,
		approvaldomain.ErrInvalidTemplate,
		approvaldomain.ErrInvalidID,
		analyticsdomain.ErrInvalidOrganization,
		analyticsdomain.ErrInvalidMonth,
		movementdomain.ErrInvalidDate,
		movementdomain.ErrInvalidOrg,
		quotedomain.ErrInvalidOrg,
		quotedomain.ErrInvalidID,
		quotedomain.ErrInvalidCustomer,
		quotedomain.ErrEmptyQuote,
		quotedomain.ErrInvalidOrderStatus,
		quotedomain.ErrNoFieldsToUpdate,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	return errors.Is(err, quotedomain.ErrInvalidTransition) ||
		errors.Is(err, quotedomain.ErrNotEditable) ||
		errors.Is(err, quotedomain.ErrNotAccepted)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, approvaldomain.ErrNotFound) ||
		errors.Is(err, catalogdomain.ErrTemplateNotFound) ||
		errors.Is(err, quotedomain.ErrQuoteNotFound) ||
		errors.Is(err, quotedomain.ErrOrderNotFound)
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}
