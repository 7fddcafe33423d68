package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodBkash          = "bkash"
	PaymentMethodNagad          = "nagad"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodSSLCommerz     = "sslcommerz"
	PaymentMethodAccountBalance = "account_balance"
	PaymentMethodOther          = "other"
)

var validPaymentMethods = map[string]bool{
	PaymentMethodCreditCard:     true,
	PaymentMethodBkash:          true,
	PaymentMethodNagad:          true,
	PaymentMethodBankTransfer:   true,
	PaymentMethodSSLCommerz:     true,
	PaymentMethodAccountBalance: true,
	PaymentMethodOther:          true,
}

// IsValidPaymentMethod reports whether method is one of the accepted payment methods.
func IsValidPaymentMethod(method string) bool {
	return validPaymentMethods[method]
}

type Subscription struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	PlanID           uuid.UUID  `json:"plan_id" db:"plan_id"`
	Status           string     `json:"status" db:"status"`
	StartDate        *time.Time `json:"start_date" db:"start_date"`
	EndDate          *time.Time `json:"end_date" db:"end_date"`
	AutoRenew        bool       `json:"auto_renew" db:"auto_renew"`
	PaymentMethod    *string    `json:"payment_method" db:"payment_method"`
	PaymentReference *string    `json:"payment_reference" db:"payment_reference"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the subscription grants its plan's entitlements at now.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate != nil && s.EndDate.After(now)
}

// DaysRemaining returns the whole days left until the end date, or 0 when inactive.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if !s.IsActive(now) {
		return 0
	}
	days := int(s.EndDate.Sub(now) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// IsTerminal reports whether no further transitions are allowed.
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionStatusCancelled || s.Status == SubscriptionStatusExpired
}

// SubscriptionView is the API representation with derived fields.
type SubscriptionView struct {
	*Subscription
	Plan          *SubscriptionPlan `json:"plan,omitempty"`
	DaysRemaining int               `json:"days_remaining"`
	IsActiveNow   bool              `json:"is_active_now"`
}

// NewSubscriptionView derives the view fields at now.
func NewSubscriptionView(sub *Subscription, plan *SubscriptionPlan, now time.Time) *SubscriptionView {
	return &SubscriptionView{
		Subscription:  sub,
		Plan:          plan,
		DaysRemaining: sub.DaysRemaining(now),
		IsActiveNow:   sub.IsActive(now),
	}
}
