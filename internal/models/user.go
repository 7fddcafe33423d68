package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	Name         string          `json:"name" db:"name"`
	PasswordHash string          `json:"-" db:"password_hash"` // Never serialize in JSON
	IsAdmin      bool            `json:"is_admin" db:"is_admin"`
	IsPro        bool            `json:"is_pro" db:"is_pro"`
	ProValidity  *time.Time      `json:"pro_validity" db:"pro_validity"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// HasProEntitlement evaluates the legacy mirror at now.
func (u *User) HasProEntitlement(now time.Time) bool {
	return u.IsPro && (u.ProValidity == nil || u.ProValidity.After(now))
}
