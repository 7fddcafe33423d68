package testhelpers

import (
	"time"

	"adsyclub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedNow is the reference instant used by service and job tests.
var FixedNow = time.Date(2026, 5, 1, 0, 5, 0, 0, time.UTC)

func FreePlan() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:               uuid.New(),
		Name:             models.FreePlanName,
		Price:            decimal.Zero,
		DurationDays:     36500,
		MaxListings:      2,
		FeaturedListings: 0,
		IsActive:         true,
	}
}

func ProPlan() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:               uuid.New(),
		Name:             models.ProPlanName,
		Price:            decimal.NewFromInt(499),
		DurationDays:     30,
		MaxListings:      10,
		FeaturedListings: 2,
		IsActive:         true,
	}
}

func PendingSubscription(userID uuid.UUID, plan *models.SubscriptionPlan) *models.Subscription {
	return &models.Subscription{
		ID:     uuid.New(),
		UserID: userID,
		PlanID: plan.ID,
		Status: models.SubscriptionStatusPending,
	}
}

// ActiveSubscription returns an active subscription ending at end.
func ActiveSubscription(userID uuid.UUID, plan *models.SubscriptionPlan, end time.Time) *models.Subscription {
	start := end.Add(-plan.Duration())
	return &models.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: &start,
		EndDate:   &end,
	}
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func StringPtr(s string) *string {
	return &s
}
