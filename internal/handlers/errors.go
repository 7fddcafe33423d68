package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"adsyclub/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto the common error body.
func respondError(c echo.Context, err error, resource string) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, common.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_CREDENTIALS", err.Error(), nil))
	case errors.Is(err, common.ErrEmailTaken):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("EMAIL_TAKEN", err.Error(), nil))
	case errors.Is(err, common.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("INVALID_TRANSITION", err.Error(), nil))
	case errors.Is(err, common.ErrInsufficientBalance):
		return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("INSUFFICIENT_BALANCE", err.Error(), nil))
	case errors.Is(err, common.ErrPlanInactive),
		errors.Is(err, common.ErrInvalidPaymentMethod),
		errors.Is(err, common.ErrValidation):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, common.ErrPlanNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("PLAN_NOT_CONFIGURED", err.Error(), nil))
	}

	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("Request failed")
	return common.SendServerError(c, "Internal server error")
}

// pagination reads the limit and offset query parameters.
func pagination(c echo.Context) (int, int, error) {
	limit, offset := 0, 0
	var err error
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errors.New("limit must be an integer")
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errors.New("offset must be an integer")
		}
	}
	return common.ValidatePaginationParams(limit, offset)
}

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}
