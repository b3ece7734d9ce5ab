package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cuisines (
		seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		image VARCHAR(1024) NOT NULL DEFAULT '',
		category VARCHAR(128) NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		origin VARCHAR(128) NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		chef VARCHAR(255) NOT NULL DEFAULT '',
		purchase_count INT NOT NULL DEFAULT 0,
		email VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		INDEX idx_cuisines_email (email),
		INDEX idx_cuisines_purchase_count (purchase_count)
	)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		email VARCHAR(255) NOT NULL DEFAULT '',
		cuisine_id VARCHAR(64) NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		name VARCHAR(255) NOT NULL DEFAULT '',
		image VARCHAR(1024) NOT NULL DEFAULT '',
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at DATETIME(3) NOT NULL,
		INDEX idx_cart_lines_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		user_email VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(3) NOT NULL,
		INDEX idx_orders_user_email (user_email)
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id VARCHAR(64) NOT NULL,
		line_no INT NOT NULL,
		cuisine_id VARCHAR(64) NOT NULL,
		quantity INT NOT NULL,
		PRIMARY KEY (order_id, line_no),
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Migrate creates the tables if they don't exist.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

func deleteResult(result sql.Result) domain.DeleteResult {
	rows, _ := result.RowsAffected()
	return domain.DeleteResult{Acknowledged: true, DeletedCount: rows}
}
