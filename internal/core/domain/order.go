package domain

import "time"

type Order struct {
	ID        string      `json:"_id"`
	UserEmail string      `json:"userEmail"`
	Items     []OrderLine `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderLine struct {
	CuisineID string `json:"cuisineId"`
	Quantity  int    `json:"inputqty"`
}

// Validate requires an owner and at least one line, each naming a cuisine
// with a positive quantity.
func (o Order) Validate() error {
	if o.UserEmail == "" || len(o.Items) == 0 {
		return ErrInvalidOrder
	}
	for _, line := range o.Items {
		if line.CuisineID == "" || line.Quantity <= 0 {
			return ErrInvalidOrder
		}
	}
	return nil
}

type LineStatus string

const (
	LineApplied           LineStatus = "applied"
	LineNotFound          LineStatus = "not_found"
	LineInsufficientStock LineStatus = "insufficient_stock"
	LineFailed            LineStatus = "failed"
)

type LineOutcome struct {
	CuisineID string     `json:"cuisineId"`
	Quantity  int        `json:"inputqty"`
	Status    LineStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// PlacementResult is what a caller sees after an order is placed. The
// insert result is authoritative; Lines and CartCleared report the
// follow-up writes, which never undo the insert.
type PlacementResult struct {
	InsertResult
	Lines       []LineOutcome `json:"lines"`
	CartCleared bool          `json:"cartCleared"`
	Warnings    []string      `json:"warnings,omitempty"`
}
