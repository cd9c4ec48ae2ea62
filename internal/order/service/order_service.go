package service

import (
	"context"
	"database/sql"
	"time"

	"wmx/internal/domain"

	"go.uber.org/zap"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	LockStaleAwaitingPayment(ctx context.Context, tx *sql.Tx, cutoff time.Time, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, ids []uint64, status domain.OrderStatus, at time.Time) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item *domain.OrderItem) error
}

type PaymentRepository interface {
	ExpirePending(ctx context.Context, tx *sql.Tx, orderIDs []uint64, at time.Time) (int64, error)
}

type OrderService struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	paymentRepo   PaymentRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	paymentRepo PaymentRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		paymentRepo:   paymentRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

// CreateWithItem persists the order and its single item atomically. On error
// nothing is written and the order's ID must not be trusted.
func (s *OrderService) CreateWithItem(ctx context.Context, order *domain.Order, item *domain.OrderItem) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		return err
	}

	item.OrderID = order.ID
	if err := s.orderItemRepo.Insert(txCtx, tx, item); err != nil {
		s.logger.Error("failed to insert order item", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return err
	}

	s.logger.Info("order persisted",
		zap.Uint64("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("totalAmount", order.TotalAmount.StringFixed(2)),
	)
	return nil
}

// ExpireStale cancels up to limit WAITING_PAYMENT orders created before cutoff
// and expires their pending payments in the same transaction.
func (s *OrderService) ExpireStale(ctx context.Context, cutoff, now time.Time, limit int) ([]domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	stale, err := s.orderRepo.LockStaleAwaitingPayment(txCtx, tx, cutoff, limit)
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]uint64, len(stale))
	for i := range stale {
		ids[i] = stale[i].ID
		stale[i].Status = domain.OrderStatusCancelled
		stale[i].UpdatedAt = now
	}

	if err := s.orderRepo.UpdateStatus(txCtx, tx, ids, domain.OrderStatusCancelled, now); err != nil {
		return nil, err
	}

	expired, err := s.paymentRepo.ExpirePending(txCtx, tx, ids, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit expiry transaction", zap.Error(err))
		return nil, err
	}

	s.logger.Info("stale orders cancelled", zap.Int("orders", len(stale)), zap.Int64("payments", expired))
	return stale, nil
}
