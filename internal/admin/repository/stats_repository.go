package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wmx/internal/domain"

	"github.com/shopspring/decimal"
)

// MySQLStatsRepository runs the read-only aggregate queries behind the admin
// dashboard. Each method is a single statement so callers may run them in
// parallel on the pool.
type MySQLStatsRepository struct {
	db *sql.DB
}

func NewMySQLStatsRepository(db *sql.DB) *MySQLStatsRepository {
	return &MySQLStatsRepository{db: db}
}

func (r *MySQLStatsRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

func (r *MySQLStatsRepository) CountOrdersByStatus(ctx context.Context, statuses ...domain.OrderStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = "?"
		args[i] = string(s)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE status IN (%s)`, strings.Join(placeholders, ", "))

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders by status: %w", err)
	}
	return n, nil
}

// CountOrdersBetween counts orders created in [from, to).
func (r *MySQLStatsRepository) CountOrdersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting orders in window: %w", err)
	}
	return n, nil
}

const revenueQuery = `
	SELECT COALESCE(SUM(p.amount), 0)
	FROM payments p
	JOIN orders o ON o.id = p.order_id
	WHERE p.status = ? AND o.status <> ?`

// SumRevenue totals settled payments, leaving out refunded orders.
func (r *MySQLStatsRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, revenueQuery,
		string(domain.PaymentStatusSettlement), string(domain.OrderStatusRefunded),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing revenue: %w", err)
	}
	return total, nil
}

// SumRevenueBetween is SumRevenue restricted to orders created in [from, to).
func (r *MySQLStatsRepository) SumRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, revenueQuery+` AND o.created_at >= ? AND o.created_at < ?`,
		string(domain.PaymentStatusSettlement), string(domain.OrderStatusRefunded), from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing revenue in window: %w", err)
	}
	return total, nil
}
