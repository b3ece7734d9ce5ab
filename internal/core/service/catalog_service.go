package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rl1809/nobabdine/internal/core/domain"
	"github.com/rl1809/nobabdine/internal/port"
)

// TopCuisineCount is how many items the popular list shows.
const TopCuisineCount = 6

type CatalogService struct {
	catalog port.CatalogRepository
}

func NewCatalogService(catalog port.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Top(ctx context.Context) ([]domain.Cuisine, error) {
	items, err := s.catalog.TopCuisines(ctx, TopCuisineCount)
	if err != nil {
		return nil, fmt.Errorf("top cuisines: %w", err)
	}
	return items, nil
}

func (s *CatalogService) List(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	query = query.ClampLimit()
	if err := query.Validate(); err != nil {
		return domain.CatalogPage{}, err
	}
	query.Search = strings.TrimSpace(query.Search)

	page, err := s.catalog.ListCuisines(ctx, query)
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("list cuisines: %w", err)
	}
	return page, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Cuisine, error) {
	return s.catalog.GetCuisine(ctx, id)
}

func (s *CatalogService) ListByOwner(ctx context.Context, email string) ([]domain.Cuisine, error) {
	items, err := s.catalog.ListCuisinesByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list owner cuisines: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Create(ctx context.Context, item domain.Cuisine) (domain.InsertResult, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	id, err := s.catalog.CreateCuisine(ctx, item)
	if err != nil {
		return domain.InsertResult{}, fmt.Errorf("create cuisine: %w", err)
	}
	return domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, item domain.Cuisine) (domain.UpsertResult, error) {
	result, err := s.catalog.UpsertCuisine(ctx, id, item)
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("upsert cuisine: %w", err)
	}
	return result, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) (domain.DeleteResult, error) {
	result, err := s.catalog.DeleteCuisine(ctx, id)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete cuisine: %w", err)
	}
	return result, nil
}
