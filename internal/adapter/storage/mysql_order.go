package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) (domain.InsertResult, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.InsertResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_email, created_at)
		VALUES (?, ?, ?)`,
		order.ID, order.UserEmail, order.CreatedAt,
	)
	if err != nil {
		return domain.InsertResult{}, fmt.Errorf("insert order: %w", err)
	}

	for i, line := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, line_no, cuisine_id, quantity)
			VALUES (?, ?, ?, ?)`,
			order.ID, i, line.CuisineID, line.Quantity,
		)
		if err != nil {
			return domain.InsertResult{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InsertResult{}, fmt.Errorf("commit order: %w", err)
	}
	return domain.InsertResult{Acknowledged: true, InsertedID: order.ID}, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT o.id, o.user_email, o.created_at, l.cuisine_id, l.quantity
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE o.user_email = ?
		ORDER BY o.seq, l.line_no`, email)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			o         domain.Order
			cuisineID sql.NullString
			quantity  sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.UserEmail, &o.CreatedAt, &cuisineID, &quantity); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		if n := len(orders); n == 0 || orders[n-1].ID != o.ID {
			o.Items = []domain.OrderLine{}
			orders = append(orders, o)
		}
		if cuisineID.Valid {
			last := &orders[len(orders)-1]
			last.Items = append(last.Items, domain.OrderLine{
				CuisineID: cuisineID.String,
				Quantity:  int(quantity.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return orders, nil
}
