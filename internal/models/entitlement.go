package models

// DefaultFreeLimits apply when a user has no active subscription.
var DefaultFreeLimits = Limits{MaxListings: 2, FeaturedListings: 0}

// Limits are the listing quotas granted by the user's current plan.
type Limits struct {
	MaxListings      int `json:"max_listings"`
	FeaturedListings int `json:"featured_listings"`
}
