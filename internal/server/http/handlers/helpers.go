package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/server/http/dto"
	"github.com/polkiloo/quickmart/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated caller from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}
	}
	principal, _ := val.(model.Principal)
	return principal
}

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	return CurrentPrincipal(c).UserID
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrCancellationWindowExpired),
		errors.Is(err, domainErrors.ErrReviewNotAllowed),
		errors.Is(err, domainErrors.ErrOutOfStock),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status; internal failures carry no body.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Status(code)
		return
	}
	c.JSON(code, dto.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}

// listParams reads the optional status and limit query parameters.
func listParams(c *gin.Context) (*model.OrderStatus, int, bool) {
	var status *model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := model.ParseOrderStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return nil, 0, false
		}
		status = &parsed
	}

	var limit int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid limit")
			return nil, 0, false
		}
		limit = n
	}
	return status, limit, true
}
