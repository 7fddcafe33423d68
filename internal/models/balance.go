package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BalanceKindSubscriptionPayment = "subscription_payment"

// BalanceTransaction is a ledger row against a user's account balance.
type BalanceTransaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Kind      string          `json:"kind" db:"kind"`
	Reference string          `json:"reference" db:"reference"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
