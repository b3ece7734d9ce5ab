package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/nobabdine/internal/core/domain"
	"github.com/rl1809/nobabdine/internal/port"
)

type CartService struct {
	carts port.CartRepository
	now   func() time.Time
}

func NewCartService(carts port.CartRepository) *CartService {
	return &CartService{carts: carts, now: time.Now}
}

func (s *CartService) Add(ctx context.Context, line domain.CartLine) (domain.InsertResult, error) {
	line.ID = uuid.New().String()
	line.CreatedAt = s.now().UTC()

	id, err := s.carts.CreateCartLine(ctx, line)
	if err != nil {
		return domain.InsertResult{}, fmt.Errorf("create cart line: %w", err)
	}
	return domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *CartService) List(ctx context.Context, email string) ([]domain.CartLine, error) {
	lines, err := s.carts.ListCartLines(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return lines, nil
}

func (s *CartService) Remove(ctx context.Context, id string) (domain.DeleteResult, error) {
	result, err := s.carts.DeleteCartLine(ctx, id)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete cart line: %w", err)
	}
	return result, nil
}
