package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing. Only its activation flag is managed here.
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductOwner is a user with at least one product, as seen by the sync pass.
type ProductOwner struct {
	UserID      uuid.UUID  `json:"user_id"`
	Email       string     `json:"email"`
	IsPro       bool       `json:"is_pro"`
	ProValidity *time.Time `json:"pro_validity"`
}

// ShouldHaveActiveProducts evaluates the mirror at now.
func (o *ProductOwner) ShouldHaveActiveProducts(now time.Time) bool {
	return o.IsPro && (o.ProValidity == nil || o.ProValidity.After(now))
}
