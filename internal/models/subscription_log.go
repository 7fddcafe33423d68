package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LogActionCreated       = "created"
	LogActionActivated     = "activated"
	LogActionRenewed       = "renewed"
	LogActionCancelled     = "cancelled"
	LogActionExpired       = "expired"
	LogActionPaymentFailed = "payment_failed"
)

// SubscriptionLog is an append-only audit record of a lifecycle event.
type SubscriptionLog struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id" db:"subscription_id"`
	Action         string    `json:"action" db:"action"`
	Details        *string   `json:"details" db:"details"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}
