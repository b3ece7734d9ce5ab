package port

import (
	"context"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

type CatalogRepository interface {
	// CreateCuisine stores a new item and returns its id
	CreateCuisine(ctx context.Context, item domain.Cuisine) (string, error)

	// GetCuisine returns domain.ErrNotFound when the id is unknown
	GetCuisine(ctx context.Context, id string) (*domain.Cuisine, error)

	ListCuisines(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error)

	ListCuisinesByOwner(ctx context.Context, email string) ([]domain.Cuisine, error)

	// UpsertCuisine overwrites the editable fields, inserting the item when absent
	UpsertCuisine(ctx context.Context, id string, item domain.Cuisine) (domain.UpsertResult, error)

	DeleteCuisine(ctx context.Context, id string) (domain.DeleteResult, error)

	// TopCuisines returns up to n items ordered by purchase count, highest first
	TopCuisines(ctx context.Context, n int) ([]domain.Cuisine, error)

	// ApplyPurchase decrements quantity and increments purchase_count by the
	// same amount in one update. With strict set, the update only applies
	// while quantity >= the requested amount. Reports whether a row changed.
	ApplyPurchase(ctx context.Context, id string, quantity int, strict bool) (bool, error)
}

type CartRepository interface {
	CreateCartLine(ctx context.Context, line domain.CartLine) (string, error)
	ListCartLines(ctx context.Context, email string) ([]domain.CartLine, error)
	DeleteCartLine(ctx context.Context, id string) (domain.DeleteResult, error)
	DeleteCartLinesByOwner(ctx context.Context, email string) (domain.DeleteResult, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and its lines as one unit
	CreateOrder(ctx context.Context, order domain.Order) (domain.InsertResult, error)
	ListOrders(ctx context.Context, email string) ([]domain.Order, error)
}

// HealthChecker is implemented by adapters that hold a network connection.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
