package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
)

type MySQLPaymentRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

func (r *MySQLPaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount, method, status, payment_type, token, redirect_url, expiry_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.OrderID, p.Amount, p.Method, string(p.Status), p.PaymentType, p.Token, p.RedirectURL, p.ExpiryTime, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	p.ID = uint64(id)

	return nil
}

func (r *MySQLPaymentRepository) FindByOrderID(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, amount, method, status, payment_type, token, redirect_url, expiry_time, created_at
		FROM payments
		WHERE order_id = ?`

	var (
		p      domain.Payment
		status string
	)
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Method, &status, &p.PaymentType, &p.Token, &p.RedirectURL, &p.ExpiryTime, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment for order %d not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment: %w", err)
	}
	p.Status = domain.PaymentStatus(status)

	return &p, nil
}

// ExpirePending moves PENDING payments of the given orders to EXPIRE.
func (r *MySQLPaymentRepository) ExpirePending(ctx context.Context, tx *sql.Tx, orderIDs []uint64, at time.Time) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(orderIDs)
	query := fmt.Sprintf(`UPDATE payments SET status = ?, updated_at = ? WHERE status = ? AND order_id IN (%s)`, placeholders)

	result, err := tx.ExecContext(ctx, query,
		append([]any{string(domain.PaymentStatusExpire), at, string(domain.PaymentStatusPending)}, args...)...,
	)
	if err != nil {
		return 0, fmt.Errorf("expiring payments: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}
