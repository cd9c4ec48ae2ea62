package usecase

import (
	"context"
	"strings"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"

	"go.uber.org/zap"
)

const (
	TrackByOrder = "order"
	TrackByEmail = "email"
)

type OrderReader interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindLatestByEmail(ctx context.Context, email string) (*domain.Order, error)
}

type TrackOrderUseCase struct {
	orders OrderReader
	logger *zap.Logger
}

func NewTrackOrderUseCase(orders OrderReader, logger *zap.Logger) *TrackOrderUseCase {
	return &TrackOrderUseCase{orders: orders, logger: logger}
}

// Track looks an order up by exact order number or by the buyer's email, in
// which case the most recent order wins.
func (uc *TrackOrderUseCase) Track(ctx context.Context, query, mode string) (*dto.TrackOrderResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required",
			apperrors.ValidationDetail{Field: "q", Message: "is required"})
	}
	if mode == "" {
		mode = TrackByOrder
	}

	var (
		order *domain.Order
		err   error
	)
	switch mode {
	case TrackByOrder:
		order, err = uc.orders.FindByOrderNumber(ctx, query)
	case TrackByEmail:
		order, err = uc.orders.FindLatestByEmail(ctx, domain.NormalizeEmail(query))
	default:
		return nil, apperrors.NewValidationError("invalid tracking type",
			apperrors.ValidationDetail{Field: "type", Message: "must be one of: order email"})
	}
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(domain.MessageOrderNotFound)
		}
		uc.logger.Error("failed to track order", zap.String("type", mode), zap.Error(err))
		return nil, err
	}

	return &dto.TrackOrderResponse{
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		StatusMessage: domain.StatusMessage(order.Status),
		ServiceName:   order.ServiceName,
		ProductName:   order.CustomerData.Product.Name,
		CustomerID:    order.CustomerData.CustomerID,
		Nickname:      order.CustomerData.Nickname,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		StatusHistory: statusHistory(order),
	}, nil
}

// statusHistory is synthesized from the order row; transitions are not journaled.
func statusHistory(order *domain.Order) []dto.StatusHistoryEntry {
	history := []dto.StatusHistoryEntry{{
		Status:    string(domain.OrderStatusPending),
		Message:   domain.MessageOrderCreated,
		Timestamp: order.CreatedAt,
	}}

	if order.Status != domain.OrderStatusPending {
		history = append(history, dto.StatusHistoryEntry{
			Status:    string(order.Status),
			Message:   domain.StatusMessage(order.Status),
			Timestamp: order.UpdatedAt,
		})
	}
	return history
}
