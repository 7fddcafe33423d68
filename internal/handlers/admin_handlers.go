package handlers

import (
	"net/http"
	"strings"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/jobs/background"
	"adsyclub/internal/models"
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JobSchedule reports upcoming runs of the background jobs.
type JobSchedule interface {
	NextRun(name string) (time.Time, error)
}

// AdminHandlers exposes operator views and manual job triggers
type AdminHandlers struct {
	subscriptionService services.SubscriptionService
	productSync         services.ProductSyncService
	sweeper             background.Sweeper
	schedule            JobSchedule
}

// NewAdminHandlers creates a new admin handlers instance. schedule may be nil
// when background jobs are disabled.
func NewAdminHandlers(
	subscriptionService services.SubscriptionService,
	productSync services.ProductSyncService,
	sweeper background.Sweeper,
	schedule JobSchedule,
) *AdminHandlers {
	return &AdminHandlers{
		subscriptionService: subscriptionService,
		productSync:         productSync,
		sweeper:             sweeper,
		schedule:            schedule,
	}
}

func (h *AdminHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/subscriptions", h.ListSubscriptions)
	g.GET("/subscriptions/expiring-soon", h.ListExpiringSoon)
	g.GET("/subscriptions/recently-expired", h.ListRecentlyExpired)
	g.POST("/subscriptions/:id/payment", h.RecordPayment)
	g.POST("/sweep", h.RunSweep)
	g.POST("/products/sync", h.SyncProducts)
	g.GET("/jobs", h.ListJobs)
}

func validStatusFilter(status string) bool {
	switch status {
	case "", models.SubscriptionStatusPending, models.SubscriptionStatusActive,
		models.SubscriptionStatusCancelled, models.SubscriptionStatusExpired:
		return true
	}
	return false
}

// ListSubscriptions handles GET /admin/subscriptions?status=
func (h *AdminHandlers) ListSubscriptions(c echo.Context) error {
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if !validStatusFilter(status) {
		return common.SendValidationError(c, "status", "must be one of pending, active, cancelled, expired")
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	subscriptions, err := h.subscriptionService.ListAll(c.Request().Context(), status, limit, offset)
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"status":        status,
		"limit":         limit,
		"offset":        offset,
	})
}

// ListExpiringSoon handles GET /admin/subscriptions/expiring-soon
func (h *AdminHandlers) ListExpiringSoon(c echo.Context) error {
	subscriptions, err := h.subscriptionService.ListExpiringSoon(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"window_days":   int(services.ExpiringSoonWindow / (24 * time.Hour)),
	})
}

// ListRecentlyExpired handles GET /admin/subscriptions/recently-expired
func (h *AdminHandlers) ListRecentlyExpired(c echo.Context) error {
	subscriptions, err := h.subscriptionService.ListRecentlyExpired(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"window_days":   int(services.RecentlyExpiredWindow / (24 * time.Hour)),
	})
}

// RecordPayment handles POST /admin/subscriptions/:id/payment. Payment
// outcomes come from operators or the payment provider, never the subscriber.
func (h *AdminHandlers) RecordPayment(c echo.Context) error {
	subscriptionID, err := parseID(c, "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var outcome services.PaymentOutcome
	if err := c.Bind(&outcome); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	subscription, err := h.subscriptionService.RecordPayment(c.Request().Context(), subscriptionID, outcome)
	if err != nil {
		return respondError(c, err, "Subscription")
	}

	message := "Payment recorded and subscription activated"
	if !outcome.Success {
		message = "Payment failure recorded"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      message,
		"subscription": subscription,
	})
}

// RunSweep handles POST /admin/sweep
func (h *AdminHandlers) RunSweep(c echo.Context) error {
	summary, err := h.sweeper.Run(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Subscription")
	}
	return c.JSON(http.StatusOK, summary)
}

type syncProductsRequest struct {
	UserID string `json:"user_id"`
	DryRun bool   `json:"dry_run"`
}

// SyncProducts handles POST /admin/products/sync
func (h *AdminHandlers) SyncProducts(c echo.Context) error {
	var req syncProductsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	var target *uuid.UUID
	if strings.TrimSpace(req.UserID) != "" {
		id, err := common.ValidateUUID(req.UserID, "user_id")
		if err != nil {
			return common.SendValidationError(c, "user_id", err.Error())
		}
		target = &id
	}

	result, err := h.productSync.SyncWithSubscriptionStatus(c.Request().Context(), target, req.DryRun)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusOK, result)
}

// ListJobs handles GET /admin/jobs
func (h *AdminHandlers) ListJobs(c echo.Context) error {
	if h.schedule == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"enabled": false, "jobs": []interface{}{}})
	}

	jobs := make([]map[string]interface{}, 0, 2)
	for _, name := range []string{background.ExpirationSweepJob, background.ProductSyncJob} {
		entry := map[string]interface{}{"name": name}
		if next, err := h.schedule.NextRun(name); err == nil {
			entry["next_run"] = next.UTC().Format(time.RFC3339)
		} else {
			entry["error"] = err.Error()
		}
		jobs = append(jobs, entry)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"enabled": true, "jobs": jobs})
}
