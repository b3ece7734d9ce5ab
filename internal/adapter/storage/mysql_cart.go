package storage

import (
	"context"
	"fmt"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

func (m *MySQLAdapter) CreateCartLine(ctx context.Context, line domain.CartLine) (string, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO cart_lines (id, email, cuisine_id, quantity, name, image, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID, line.Email, line.CuisineID, line.Quantity, line.Name, line.Image,
		line.Price, line.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert cart line: %w", err)
	}
	return line.ID, nil
}

func (m *MySQLAdapter) ListCartLines(ctx context.Context, email string) ([]domain.CartLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, email, cuisine_id, quantity, name, image, price, created_at
		FROM cart_lines WHERE email = ? ORDER BY seq`, email)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.Email, &l.CuisineID, &l.Quantity, &l.Name,
			&l.Image, &l.Price, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	return lines, nil
}

func (m *MySQLAdapter) DeleteCartLine(ctx context.Context, id string) (domain.DeleteResult, error) {
	result, err := m.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = ?`, id)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete cart line: %w", err)
	}
	return deleteResult(result), nil
}

func (m *MySQLAdapter) DeleteCartLinesByOwner(ctx context.Context, email string) (domain.DeleteResult, error) {
	result, err := m.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE email = ?`, email)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("clear cart: %w", err)
	}
	return deleteResult(result), nil
}
