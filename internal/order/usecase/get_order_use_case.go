package usecase

import (
	"context"
	"time"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"

	"go.uber.org/zap"
)

type OrderNumberReader interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type OrderItemReader interface {
	FindByOrderID(ctx context.Context, orderID uint64) ([]domain.OrderItem, error)
}

type PaymentReader interface {
	FindByOrderID(ctx context.Context, orderID uint64) (*domain.Payment, error)
}

type GetOrderUseCase struct {
	orders   OrderNumberReader
	items    OrderItemReader
	payments PaymentReader
	now      func() time.Time
	logger   *zap.Logger
}

func NewGetOrderUseCase(orders OrderNumberReader, items OrderItemReader, payments PaymentReader, logger *zap.Logger) *GetOrderUseCase {
	return &GetOrderUseCase{
		orders:   orders,
		items:    items,
		payments: payments,
		now:      time.Now,
		logger:   logger,
	}
}

func (uc *GetOrderUseCase) GetOrder(ctx context.Context, orderNumber string) (*dto.OrderDetailResponse, error) {
	order, err := uc.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	items, err := uc.items.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	p, err := uc.payments.FindByOrderID(ctx, order.ID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
		p = nil
	}

	expiresAt := order.PaymentExpiry()
	if p != nil {
		expiresAt = p.ExpiryTime
	}

	resp := &dto.OrderDetailResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		ServiceID:     order.ServiceID,
		Status:        string(order.Status),
		StatusMessage: domain.StatusMessage(order.Status),
		TotalAmount:   order.TotalAmount,
		CustomerID:    order.CustomerData.CustomerID,
		ZoneID:        order.CustomerData.ZoneID,
		Nickname:      order.CustomerData.Nickname,
		Email:         order.CustomerData.Email,
		Phone:         order.CustomerData.Phone,
		ExternalID:    order.ExternalID,
		Notes:         order.Notes,
		Items:         make([]dto.OrderItemDTO, 0, len(items)),
		ExpiresAt:     expiresAt,
		IsExpired:     awaitingPayment(order.Status) && !uc.now().Before(expiresAt),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
		})
	}

	if p != nil {
		resp.Payment = &dto.PaymentDTO{
			Amount:      p.Amount,
			Method:      p.Method,
			Status:      string(p.Status),
			PaymentType: p.PaymentType,
			Token:       p.Token,
			RedirectURL: p.RedirectURL,
			ExpiryTime:  p.ExpiryTime,
		}
	}

	return resp, nil
}

func awaitingPayment(s domain.OrderStatus) bool {
	return s == domain.OrderStatusWaitingPayment || s == domain.OrderStatusPending
}
