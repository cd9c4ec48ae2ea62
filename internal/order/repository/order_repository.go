package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.order_number, o.service_id, o.user_id, o.total_amount, o.status,
	       o.customer_data, o.customer_email, o.external_id, o.notes,
	       o.created_at, o.updated_at, COALESCE(s.name, '')
	FROM orders o
	LEFT JOIN services s ON s.id = o.service_id`

// Insert writes the order inside tx and sets its ID. A duplicate order number
// surfaces as the driver's duplicate-entry error, wrapped.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	customerData, err := json.Marshal(order.CustomerData)
	if err != nil {
		return fmt.Errorf("encoding customer data: %w", err)
	}

	query := `
		INSERT INTO orders (order_number, service_id, user_id, total_amount, status,
		                    customer_data, customer_email, external_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.ServiceID, order.UserID, order.TotalAmount, string(order.Status),
		customerData, order.CustomerEmail, order.ExternalID, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	order.ID = uint64(id)

	return nil
}

func (r *MySQLOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := orderSelect + ` WHERE o.order_number = ?`
	return r.findOne(ctx, query, orderNumber)
}

// FindLatestByEmail matches the normalized customer_email column exactly.
func (r *MySQLOrderRepository) FindLatestByEmail(ctx context.Context, email string) (*domain.Order, error) {
	query := orderSelect + ` WHERE o.customer_email = ? ORDER BY o.created_at DESC, o.id DESC LIMIT 1`
	return r.findOne(ctx, query, email)
}

func (r *MySQLOrderRepository) findOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var (
		o            domain.Order
		status       string
		customerData []byte
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&o.ID, &o.OrderNumber, &o.ServiceID, &o.UserID, &o.TotalAmount, &status,
		&customerData, &o.CustomerEmail, &o.ExternalID, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.ServiceName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(domain.MessageOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}

	o.Status = domain.OrderStatus(status)
	if len(customerData) > 0 {
		if err := json.Unmarshal(customerData, &o.CustomerData); err != nil {
			return nil, fmt.Errorf("decoding customer data of order %s: %w", o.OrderNumber, err)
		}
	}

	return &o, nil
}

// LockStaleAwaitingPayment returns unpaid orders created before cutoff,
// locking their rows for the rest of tx.
func (r *MySQLOrderRepository) LockStaleAwaitingPayment(ctx context.Context, tx *sql.Tx, cutoff time.Time, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, order_number
		FROM orders
		WHERE status = ? AND created_at < ?
		ORDER BY id ASC
		LIMIT ?
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, string(domain.OrderStatusWaitingPayment), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stale orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber); err != nil {
			return nil, fmt.Errorf("scanning stale order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stale orders: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, ids []uint64, status domain.OrderStatus, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders, args := inClause(ids)
	query := fmt.Sprintf(`UPDATE orders SET status = ?, updated_at = ? WHERE id IN (%s)`, placeholders)

	if _, err := tx.ExecContext(ctx, query, append([]any{string(status), at}, args...)...); err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return nil
}

func inClause(ids []uint64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}
