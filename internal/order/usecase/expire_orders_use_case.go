package usecase

import (
	"context"
	"time"

	"wmx/internal/domain"
	"wmx/internal/infrastructure/kafka"

	"go.uber.org/zap"
)

const expireBatchSize = 100

type StaleOrderExpirer interface {
	ExpireStale(ctx context.Context, cutoff, now time.Time, limit int) ([]domain.Order, error)
}

type ExpireOrdersUseCase struct {
	expirer   StaleOrderExpirer
	publisher kafka.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewExpireOrdersUseCase(expirer StaleOrderExpirer, publisher kafka.Publisher, logger *zap.Logger) *ExpireOrdersUseCase {
	return &ExpireOrdersUseCase{
		expirer:   expirer,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// ExpireStale cancels orders whose payment window has closed and returns how
// many were cancelled. Batches are processed until one comes back short.
func (uc *ExpireOrdersUseCase) ExpireStale(ctx context.Context) (int, error) {
	now := uc.now()
	cutoff := now.Add(-domain.PaymentWindow)

	total := 0
	for {
		expired, err := uc.expirer.ExpireStale(ctx, cutoff, now, expireBatchSize)
		if err != nil {
			return total, err
		}

		for _, o := range expired {
			err := uc.publisher.Publish(ctx, kafka.EventOrderExpired, o.OrderNumber, orderExpiredEvent{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				Status:      string(o.Status),
				ExpiredAt:   now,
			})
			if err != nil {
				uc.logger.Warn("failed to publish event", zap.String("eventType", kafka.EventOrderExpired), zap.String("key", o.OrderNumber), zap.Error(err))
			}
		}

		total += len(expired)
		if len(expired) < expireBatchSize {
			return total, nil
		}
	}
}
