package models

import (
	"time"

	"github.com/google/uuid"
)

const NotificationEventStatusChanged = "subscription.status_changed"

// Notification represents an in-app notice for a user
type Notification struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	SubscriptionID *uuid.UUID `json:"subscription_id" db:"subscription_id"`
	EventType      string     `json:"event_type" db:"event_type"`
	Message        string     `json:"message" db:"message"`
	IsRead         bool       `json:"is_read" db:"is_read"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
