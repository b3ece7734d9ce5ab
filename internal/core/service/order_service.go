package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/nobabdine/internal/core/domain"
	"github.com/rl1809/nobabdine/internal/port"
)

const idempotencyKeyPrefix = "order:"

type OrderService struct {
	orders      port.OrderRepository
	catalog     port.CatalogRepository
	carts       port.CartRepository
	idempotency port.IdempotencyRepository
	strictStock bool
	logger      *slog.Logger
	now         func() time.Time
}

type OrderServiceOption func(*OrderService)

// WithStrictStock makes every line update conditional on enough stock.
func WithStrictStock(strict bool) OrderServiceOption {
	return func(s *OrderService) { s.strictStock = strict }
}

// WithIdempotency enables duplicate detection for submissions that carry a key.
func WithIdempotency(repo port.IdempotencyRepository) OrderServiceOption {
	return func(s *OrderService) { s.idempotency = repo }
}

func WithLogger(logger *slog.Logger) OrderServiceOption {
	return func(s *OrderService) { s.logger = logger }
}

func NewOrderService(orders port.OrderRepository, catalog port.CatalogRepository, carts port.CartRepository, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orders:  orders,
		catalog: catalog,
		carts:   carts,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder inserts the order, then applies each line to the catalog in
// input order, then clears the owner's cart. Only a failed insert aborts;
// later failures are reported in the result and never roll anything back.
func (s *OrderService) PlaceOrder(ctx context.Context, order domain.Order, idempotencyKey string) (*domain.PlacementResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	claimed := ""
	if idempotencyKey != "" && s.idempotency != nil {
		claimed = idempotencyKeyPrefix + idempotencyKey
		ok, err := s.idempotency.SetIdempotency(ctx, claimed)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	order.ID = uuid.New().String()
	order.CreatedAt = s.now().UTC()

	inserted, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		// Nothing was stored, so a retry with the same key must be allowed.
		if claimed != "" {
			if relErr := s.idempotency.ReleaseIdempotency(context.WithoutCancel(ctx), claimed); relErr != nil {
				s.logger.Warn("failed to release idempotency key",
					"key", claimed, "error", relErr)
			}
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	result := &domain.PlacementResult{
		InsertResult: inserted,
		Lines:        make([]domain.LineOutcome, 0, len(order.Items)),
	}

	for _, line := range order.Items {
		outcome := s.applyLine(ctx, line)
		if outcome.Status != domain.LineApplied {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("cuisine %s: %s", line.CuisineID, outcome.Status))
		}
		result.Lines = append(result.Lines, outcome)
	}

	if _, err := s.carts.DeleteCartLinesByOwner(ctx, order.UserEmail); err != nil {
		s.logger.Warn("failed to clear cart after order",
			"order_id", order.ID, "email", order.UserEmail, "error", err)
		result.Warnings = append(result.Warnings, "cart was not cleared")
	} else {
		result.CartCleared = true
	}

	s.logger.Info("order placed",
		"order_id", order.ID, "email", order.UserEmail,
		"lines", len(order.Items), "warnings", len(result.Warnings))

	return result, nil
}

func (s *OrderService) applyLine(ctx context.Context, line domain.OrderLine) domain.LineOutcome {
	outcome := domain.LineOutcome{CuisineID: line.CuisineID, Quantity: line.Quantity}

	applied, err := s.catalog.ApplyPurchase(ctx, line.CuisineID, line.Quantity, s.strictStock)
	if err != nil {
		s.logger.Warn("failed to apply order line",
			"cuisine_id", line.CuisineID, "quantity", line.Quantity, "error", err)
		outcome.Status = domain.LineFailed
		outcome.Error = err.Error()
		return outcome
	}
	if applied {
		outcome.Status = domain.LineApplied
		return outcome
	}

	outcome.Status = domain.LineNotFound
	if s.strictStock {
		// Zero rows in strict mode means either a missing item or not enough stock.
		if _, err := s.catalog.GetCuisine(ctx, line.CuisineID); err == nil {
			outcome.Status = domain.LineInsufficientStock
			outcome.Error = domain.ErrInsufficientStock.Error()
		}
	}
	s.logger.Warn("order line not applied",
		"cuisine_id", line.CuisineID, "quantity", line.Quantity, "status", outcome.Status)
	return outcome
}

func (s *OrderService) ListOrders(ctx context.Context, email string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
