package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Tags        []string        `json:"tags" db:"tags"`
	Inventory   int             `json:"inventory" db:"inventory"`
	Featured    bool            `json:"featured" db:"featured"`
	Rating      decimal.Decimal `json:"rating" db:"rating"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductUpdate describes a partial update to a product. Nil fields are
// left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Image       *string
	Price       *decimal.Decimal
	Tags        *[]string
	Inventory   *int
	Featured    *bool
	Rating      *decimal.Decimal
}

// IsEmpty reports whether the update carries no recognized fields.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil &&
		u.Description == nil &&
		u.Image == nil &&
		u.Price == nil &&
		u.Tags == nil &&
		u.Inventory == nil &&
		u.Featured == nil &&
		u.Rating == nil
}
