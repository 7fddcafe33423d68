package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FreePlanName = "Free"
	ProPlanName  = "Pro"
)

// SubscriptionPlan is a purchasable tier. A zero price marks the free tier.
type SubscriptionPlan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Description      string          `json:"description" db:"description"`
	Price            decimal.Decimal `json:"price" db:"price"`
	DurationDays     int             `json:"duration_days" db:"duration_days"`
	MaxListings      int             `json:"max_listings" db:"max_listings"`
	FeaturedListings int             `json:"featured_listings" db:"featured_listings"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// IsPaid reports whether the plan grants the pro entitlement.
func (p *SubscriptionPlan) IsPaid() bool {
	return p.Price.IsPositive()
}

// Duration returns the plan length as a time.Duration.
func (p *SubscriptionPlan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
