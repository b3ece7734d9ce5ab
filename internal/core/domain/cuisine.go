package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Cuisine struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Origin        string          `json:"origin"`
	Description   string          `json:"description"`
	Chef          string          `json:"chef"`
	PurchaseCount int             `json:"purchase_count"`
	Email         string          `json:"email"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MaxPageLimit is the largest page size a catalog listing returns.
const MaxPageLimit = 100

// CatalogQuery selects one page of the catalog. Search is matched
// case-insensitively against name, category and origin.
type CatalogQuery struct {
	Search string
	Page   int
	Limit  int
}

func (q CatalogQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Validate rejects non-positive values and pages whose offset does not fit
// in an int. Limit is expected to be clamped with ClampLimit first.
func (q CatalogQuery) Validate() error {
	if q.Page < 1 || q.Limit < 1 {
		return ErrInvalidPagination
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return ErrInvalidPagination
	}
	return nil
}

// ClampLimit caps Limit at MaxPageLimit.
func (q CatalogQuery) ClampLimit() CatalogQuery {
	q.Limit = min(q.Limit, MaxPageLimit)
	return q
}

type CatalogPage struct {
	Items      []Cuisine `json:"result"`
	TotalPages int       `json:"totalpage"`
}

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

type UpsertResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}
