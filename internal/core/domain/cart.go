package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one pending purchase of a catalog item. Name, Image and Price
// are copied from the cuisine when the line is added.
type CartLine struct {
	ID        string          `json:"_id"`
	Email     string          `json:"email"`
	CuisineID string          `json:"cuisineId"`
	Quantity  int             `json:"inputqty"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
