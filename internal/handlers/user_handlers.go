package handlers

import (
	"net/http"

	"adsyclub/internal/common"
	"adsyclub/internal/repositories"
	"adsyclub/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers serves the caller's own account: profile, ledger and notices.
type UserHandlers struct {
	userService   services.UserService
	balances      repositories.BalanceRepository
	notifications repositories.NotificationRepository
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService, balances repositories.BalanceRepository, notifications repositories.NotificationRepository) *UserHandlers {
	return &UserHandlers{
		userService:   userService,
		balances:      balances,
		notifications: notifications,
	}
}

func (h *UserHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)
	g.GET("/me/transactions", h.ListTransactions)
	g.GET("/me/notifications", h.ListNotifications)
}

// GetProfile handles GET /me
func (h *UserHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userService.Get(ctx, userID)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// ListTransactions handles GET /me/transactions
func (h *UserHandlers) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	transactions, err := h.balances.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return respondError(c, err, "Transaction")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}

// ListNotifications handles GET /me/notifications
func (h *UserHandlers) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	notifications, err := h.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return respondError(c, err, "Notification")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"limit":         limit,
		"offset":        offset,
	})
}
