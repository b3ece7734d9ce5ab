package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

const cuisineColumns = `id, name, image, category, quantity, price, origin, description, chef, purchase_count, email, created_at, updated_at`

const searchClause = ` WHERE LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(origin) LIKE ?`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCuisine(row rowScanner) (domain.Cuisine, error) {
	var c domain.Cuisine
	err := row.Scan(&c.ID, &c.Name, &c.Image, &c.Category, &c.Quantity, &c.Price,
		&c.Origin, &c.Description, &c.Chef, &c.PurchaseCount, &c.Email,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (m *MySQLAdapter) queryCuisines(ctx context.Context, query string, args ...any) ([]domain.Cuisine, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Cuisine{}
	for rows.Next() {
		c, err := scanCuisine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) CreateCuisine(ctx context.Context, item domain.Cuisine) (string, error) {
	now := time.Now().UTC()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO cuisines (`+cuisineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Image, item.Category, item.Quantity, item.Price,
		item.Origin, item.Description, item.Chef, item.PurchaseCount, item.Email,
		now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert cuisine: %w", err)
	}
	return item.ID, nil
}

func (m *MySQLAdapter) GetCuisine(ctx context.Context, id string) (*domain.Cuisine, error) {
	c, err := scanCuisine(m.db.QueryRowContext(ctx,
		`SELECT `+cuisineColumns+` FROM cuisines WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cuisine: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) ListCuisines(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	where := ""
	var args []any
	if query.Search != "" {
		pattern := likePattern(query.Search)
		where = searchClause
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cuisines`+where, args...).Scan(&total); err != nil {
		return domain.CatalogPage{}, fmt.Errorf("count cuisines: %w", err)
	}

	items, err := m.queryCuisines(ctx,
		`SELECT `+cuisineColumns+` FROM cuisines`+where+` ORDER BY seq LIMIT ? OFFSET ?`,
		append(args, query.Limit, query.Offset())...)
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("query cuisines: %w", err)
	}

	return domain.CatalogPage{Items: items, TotalPages: domain.TotalPages(total, query.Limit)}, nil
}

func (m *MySQLAdapter) ListCuisinesByOwner(ctx context.Context, email string) ([]domain.Cuisine, error) {
	items, err := m.queryCuisines(ctx,
		`SELECT `+cuisineColumns+` FROM cuisines WHERE email = ? ORDER BY seq`, email)
	if err != nil {
		return nil, fmt.Errorf("query owner cuisines: %w", err)
	}
	return items, nil
}

// UpsertCuisine relies on MySQL's affected-rows convention for
// ON DUPLICATE KEY UPDATE: 1 for an insert, 2 for an update, 0 for no change.
func (m *MySQLAdapter) UpsertCuisine(ctx context.Context, id string, item domain.Cuisine) (domain.UpsertResult, error) {
	now := time.Now().UTC()
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO cuisines (`+cuisineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, '', ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), image = VALUES(image), category = VALUES(category),
			quantity = VALUES(quantity), price = VALUES(price), origin = VALUES(origin),
			description = VALUES(description), chef = VALUES(chef), updated_at = VALUES(updated_at)`,
		id, item.Name, item.Image, item.Category, item.Quantity, item.Price,
		item.Origin, item.Description, item.Chef, now, now,
	)
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("upsert cuisine: %w", err)
	}

	rows, _ := result.RowsAffected()
	switch rows {
	case 1:
		return domain.UpsertResult{Acknowledged: true, UpsertedID: id}, nil
	case 0:
		return domain.UpsertResult{Acknowledged: true, MatchedCount: 1}, nil
	default:
		return domain.UpsertResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
}

func (m *MySQLAdapter) DeleteCuisine(ctx context.Context, id string) (domain.DeleteResult, error) {
	result, err := m.db.ExecContext(ctx, `DELETE FROM cuisines WHERE id = ?`, id)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete cuisine: %w", err)
	}
	return deleteResult(result), nil
}

func (m *MySQLAdapter) TopCuisines(ctx context.Context, n int) ([]domain.Cuisine, error) {
	items, err := m.queryCuisines(ctx,
		`SELECT `+cuisineColumns+` FROM cuisines ORDER BY purchase_count DESC, seq LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top cuisines: %w", err)
	}
	return items, nil
}

func (m *MySQLAdapter) ApplyPurchase(ctx context.Context, id string, quantity int, strict bool) (bool, error) {
	query := `
		UPDATE cuisines
		SET quantity = quantity - ?, purchase_count = purchase_count + ?, updated_at = ?
		WHERE id = ?`
	args := []any{quantity, quantity, time.Now().UTC(), id}
	if strict {
		query += ` AND quantity >= ?`
		args = append(args, quantity)
	}

	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("apply purchase: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
