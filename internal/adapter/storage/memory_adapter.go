package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

// MemoryAdapter keeps every collection in process memory. It implements the
// same ports as MySQLAdapter and RedisAdapter and is meant for local runs and
// tests; nothing survives a restart.
type MemoryAdapter struct {
	mu          sync.Mutex
	cuisines    []domain.Cuisine
	carts       []domain.CartLine
	orders      []domain.Order
	idempotency map[string]time.Time
	now         func() time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{idempotency: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryAdapter) Ping(context.Context) error { return nil }

func (m *MemoryAdapter) cuisineIndex(id string) int {
	for i := range m.cuisines {
		if m.cuisines[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryAdapter) CreateCuisine(_ context.Context, item domain.Cuisine) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	m.cuisines = append(m.cuisines, item)
	return item.ID, nil
}

func (m *MemoryAdapter) GetCuisine(_ context.Context, id string) (*domain.Cuisine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.cuisineIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	c := m.cuisines[i]
	return &c, nil
}

func matchesSearch(c domain.Cuisine, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Category), term) ||
		strings.Contains(strings.ToLower(c.Origin), term)
}

func (m *MemoryAdapter) ListCuisines(_ context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []domain.Cuisine{}
	for _, c := range m.cuisines {
		if query.Search == "" || matchesSearch(c, query.Search) {
			matched = append(matched, c)
		}
	}

	start := min(query.Offset(), len(matched))
	end := start + min(query.Limit, len(matched)-start)
	return domain.CatalogPage{
		Items:      append([]domain.Cuisine{}, matched[start:end]...),
		TotalPages: domain.TotalPages(len(matched), query.Limit),
	}, nil
}

func (m *MemoryAdapter) ListCuisinesByOwner(_ context.Context, email string) ([]domain.Cuisine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := []domain.Cuisine{}
	for _, c := range m.cuisines {
		if c.Email == email {
			items = append(items, c)
		}
	}
	return items, nil
}

func (m *MemoryAdapter) UpsertCuisine(_ context.Context, id string, item domain.Cuisine) (domain.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	i := m.cuisineIndex(id)
	if i < 0 {
		m.cuisines = append(m.cuisines, domain.Cuisine{
			ID: id, Name: item.Name, Image: item.Image, Category: item.Category,
			Quantity: item.Quantity, Price: item.Price, Origin: item.Origin,
			Description: item.Description, Chef: item.Chef,
			CreatedAt: now, UpdatedAt: now,
		})
		return domain.UpsertResult{Acknowledged: true, UpsertedID: id}, nil
	}

	c := &m.cuisines[i]
	c.Name, c.Image, c.Category = item.Name, item.Image, item.Category
	c.Quantity, c.Price, c.Origin = item.Quantity, item.Price, item.Origin
	c.Description, c.Chef, c.UpdatedAt = item.Description, item.Chef, now
	return domain.UpsertResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *MemoryAdapter) DeleteCuisine(_ context.Context, id string) (domain.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.cuisineIndex(id)
	if i < 0 {
		return domain.DeleteResult{Acknowledged: true}, nil
	}
	m.cuisines = append(m.cuisines[:i], m.cuisines[i+1:]...)
	return domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemoryAdapter) TopCuisines(_ context.Context, n int) ([]domain.Cuisine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := append([]domain.Cuisine{}, m.cuisines...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PurchaseCount > items[j].PurchaseCount
	})
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (m *MemoryAdapter) ApplyPurchase(_ context.Context, id string, quantity int, strict bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.cuisineIndex(id)
	if i < 0 {
		return false, nil
	}
	c := &m.cuisines[i]
	if strict && c.Quantity < quantity {
		return false, nil
	}
	c.Quantity -= quantity
	c.PurchaseCount += quantity
	c.UpdatedAt = m.now().UTC()
	return true, nil
}

func (m *MemoryAdapter) CreateCartLine(_ context.Context, line domain.CartLine) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.carts = append(m.carts, line)
	return line.ID, nil
}

func (m *MemoryAdapter) ListCartLines(_ context.Context, email string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := []domain.CartLine{}
	for _, l := range m.carts {
		if l.Email == email {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func (m *MemoryAdapter) DeleteCartLine(_ context.Context, id string) (domain.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.carts {
		if m.carts[i].ID == id {
			m.carts = append(m.carts[:i], m.carts[i+1:]...)
			return domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return domain.DeleteResult{Acknowledged: true}, nil
}

func (m *MemoryAdapter) DeleteCartLinesByOwner(_ context.Context, email string) (domain.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.carts[:0]
	var deleted int64
	for _, l := range m.carts {
		if l.Email == email {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	m.carts = kept
	return domain.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (m *MemoryAdapter) CreateOrder(_ context.Context, order domain.Order) (domain.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order.Items = append([]domain.OrderLine{}, order.Items...)
	m.orders = append(m.orders, order)
	return domain.InsertResult{Acknowledged: true, InsertedID: order.ID}, nil
}

func (m *MemoryAdapter) ListOrders(_ context.Context, email string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range m.orders {
		if o.UserEmail == email {
			o.Items = append([]domain.OrderLine{}, o.Items...)
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// SetIdempotency claims key for idempotencyKeyTTL, like the Redis adapter.
func (m *MemoryAdapter) SetIdempotency(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if claimedAt, ok := m.idempotency[key]; ok && now.Sub(claimedAt) < idempotencyKeyTTL {
		return false, nil
	}
	m.idempotency[key] = now
	return true, nil
}

func (m *MemoryAdapter) ReleaseIdempotency(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.idempotency, key)
	return nil
}
