package services

import (
	"context"
	"fmt"

	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultPlans are the tiers every deployment starts with.
func DefaultPlans() []*models.SubscriptionPlan {
	return []*models.SubscriptionPlan{
		{
			Name:             models.FreePlanName,
			Description:      "Free tier with basic listing quota",
			Price:            decimal.Zero,
			DurationDays:     36500,
			MaxListings:      2,
			FeaturedListings: 0,
			IsActive:         true,
		},
		{
			Name:             models.ProPlanName,
			Description:      "Monthly plan with more listings and featured placement",
			Price:            decimal.NewFromInt(499),
			DurationDays:     30,
			MaxListings:      10,
			FeaturedListings: 2,
			IsActive:         true,
		},
	}
}

// SeedResult lists the plans after seeding and how many were new.
type SeedResult struct {
	Plans   []*models.SubscriptionPlan `json:"plans"`
	Created int                        `json:"created"`
}

// SeedDefaultPlans creates any missing default plan. Existing plans are left
// untouched, so running it again is harmless.
func SeedDefaultPlans(ctx context.Context, plans repositories.PlanRepository) (*SeedResult, error) {
	result := &SeedResult{}
	for _, plan := range DefaultPlans() {
		stored, created, err := plans.GetOrCreate(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}
		if created {
			result.Created++
			log.Info().Str("plan", stored.Name).Str("price", stored.Price.StringFixed(2)).Msg("Created subscription plan")
		} else {
			log.Info().Str("plan", stored.Name).Msg("Subscription plan already exists")
		}
		result.Plans = append(result.Plans, stored)
	}
	return result, nil
}
