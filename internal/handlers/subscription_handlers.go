package handlers

import (
	"net/http"
	"strings"

	"adsyclub/internal/common"
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles HTTP requests for plans and subscriptions
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionHandlers creates a new subscription handlers instance
func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptionService: subscriptionService}
}

// RegisterPublicRoutes mounts the plan catalogue.
func (h *SubscriptionHandlers) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/subscriptions/plans", h.ListPlans)
	g.GET("/subscriptions/plans/:id", h.GetPlan)
}

// RegisterRoutes mounts the authenticated subscription routes.
func (h *SubscriptionHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/subscriptions", h.ListSubscriptions)
	g.POST("/subscriptions", h.CreateSubscription)
	g.POST("/subscriptions/upgrade", h.UpgradeWithBalance)
	g.GET("/subscriptions/active", h.GetActiveSubscription)
	g.GET("/subscriptions/limits", h.GetLimits)
	g.GET("/subscriptions/:id", h.GetSubscriptionByID)
	g.GET("/subscriptions/:id/logs", h.ListSubscriptionLogs)
	g.POST("/subscriptions/:id/activate", h.ActivateSubscription)
	g.POST("/subscriptions/:id/cancel", h.CancelSubscription)
}

// ListPlans handles GET /subscriptions/plans
func (h *SubscriptionHandlers) ListPlans(c echo.Context) error {
	plans, err := h.subscriptionService.ListPlans(c.Request().Context(), true)
	if err != nil {
		return respondError(c, err, "Plan")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": plans})
}

// GetPlan handles GET /subscriptions/plans/:id
func (h *SubscriptionHandlers) GetPlan(c echo.Context) error {
	planID, err := parseID(c, "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	plan, err := h.subscriptionService.GetPlan(c.Request().Context(), planID)
	if err != nil {
		return respondError(c, err, "Plan")
	}
	return c.JSON(http.StatusOK, plan)
}

// ListSubscriptions handles GET /subscriptions
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	subscriptions, err := h.subscriptionService.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"limit":         limit,
		"offset":        offset,
	})
}

type createSubscriptionRequest struct {
	PlanID        string `json:"plan_id"`
	PaymentMethod string `json:"payment_method"`
}

// CreateSubscription handles POST /subscriptions
func (h *SubscriptionHandlers) CreateSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req createSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	planID, err := common.ValidateUUID(req.PlanID, "plan_id")
	if err != nil {
		return common.SendValidationError(c, "plan_id", err.Error())
	}

	subscription, err := h.subscriptionService.RequestSubscription(ctx, userID, planID, strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return respondError(c, err, "Plan")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Subscription created successfully",
		"subscription": subscription,
	})
}

// GetSubscriptionByID handles GET /subscriptions/:id
func (h *SubscriptionHandlers) GetSubscriptionByID(c echo.Context) error {
	ctx := c.Request().Context()
	userID, subscriptionID, err := h.ownedTarget(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	view, err := h.subscriptionService.Get(ctx, userID, subscriptionID)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, view)
}

// ListSubscriptionLogs handles GET /subscriptions/:id/logs
func (h *SubscriptionHandlers) ListSubscriptionLogs(c echo.Context) error {
	ctx := c.Request().Context()
	userID, subscriptionID, err := h.ownedTarget(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	logs, err := h.subscriptionService.ListLogs(ctx, userID, subscriptionID)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": logs})
}

type transitionRequest struct {
	Reason string `json:"reason"`
}

// ActivateSubscription handles POST /subscriptions/:id/activate
func (h *SubscriptionHandlers) ActivateSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	userID, subscriptionID, err := h.ownedTarget(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	subscription, err := h.subscriptionService.Activate(ctx, userID, subscriptionID, req.Reason)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Subscription activated successfully",
		"subscription": subscription,
	})
}

// CancelSubscription handles POST /subscriptions/:id/cancel
func (h *SubscriptionHandlers) CancelSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	userID, subscriptionID, err := h.ownedTarget(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	subscription, err := h.subscriptionService.Cancel(ctx, userID, subscriptionID, req.Reason)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Subscription cancelled successfully",
		"subscription": subscription,
	})
}

type upgradeRequest struct {
	PlanID string `json:"plan_id"`
}

// UpgradeWithBalance handles POST /subscriptions/upgrade
func (h *SubscriptionHandlers) UpgradeWithBalance(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req upgradeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	planID, err := common.ValidateUUID(req.PlanID, "plan_id")
	if err != nil {
		return common.SendValidationError(c, "plan_id", err.Error())
	}

	result, err := h.subscriptionService.UpgradeWithBalance(ctx, userID, planID)
	if err != nil {
		return respondError(c, err, "Plan")
	}
	return c.JSON(http.StatusOK, result)
}

// GetActiveSubscription handles GET /subscriptions/active
func (h *SubscriptionHandlers) GetActiveSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	view, err := h.subscriptionService.GetActive(ctx, userID)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	if view == nil {
		return common.SendNotFoundError(c, "Active subscription")
	}
	return c.JSON(http.StatusOK, view)
}

// GetLimits handles GET /subscriptions/limits
func (h *SubscriptionHandlers) GetLimits(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limits, err := h.subscriptionService.GetLimits(ctx, userID)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	isPro, err := h.subscriptionService.IsProSubscriber(ctx, userID)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"max_listings":      limits.MaxListings,
		"featured_listings": limits.FeaturedListings,
		"is_pro":            isPro,
	})
}

// ownedTarget resolves the caller and the :id parameter. On failure the
// response has already been written and the returned user ID is uuid.Nil.
func (h *SubscriptionHandlers) ownedTarget(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, uuid.Nil, common.SendUnauthorizedError(c)
	}
	subscriptionID, err := parseID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, common.SendValidationError(c, "id", err.Error())
	}
	return userID, subscriptionID, nil
}
