package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/infrastructure/kafka"
	"wmx/internal/payment"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type CatalogRepository interface {
	FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error)
	FindProductByID(ctx context.Context, id uint64) (*domain.Product, error)
}

type OrderWriter interface {
	CreateWithItem(ctx context.Context, order *domain.Order, item *domain.OrderItem) error
}

type PaymentWriter interface {
	Insert(ctx context.Context, p *domain.Payment) error
}

type CreateOrderUseCase struct {
	catalog       CatalogRepository
	orders        OrderWriter
	payments      PaymentWriter
	gateway       payment.Gateway
	publisher     kafka.Publisher
	nextNumber    NumberGenerator
	maxAttempts   int
	paymentMethod string
	now           func() time.Time
	logger        *zap.Logger
}

func NewCreateOrderUseCase(
	catalog CatalogRepository,
	orders OrderWriter,
	payments PaymentWriter,
	gateway payment.Gateway,
	publisher kafka.Publisher,
	nextNumber NumberGenerator,
	maxAttempts int,
	paymentMethod string,
	logger *zap.Logger,
) *CreateOrderUseCase {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodEWallet
	}
	return &CreateOrderUseCase{
		catalog:       catalog,
		orders:        orders,
		payments:      payments,
		gateway:       gateway,
		publisher:     publisher,
		nextNumber:    nextNumber,
		maxAttempts:   maxAttempts,
		paymentMethod: paymentMethod,
		now:           time.Now,
		logger:        logger,
	}
}

// CreateOrder builds a WAITING_PAYMENT order for one product and opens a
// payment session for it. When the gateway fails the order is kept as is and
// the gateway error is returned.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID *uint64) (*dto.CreateOrderResponse, error) {
	uc.logger.Info("create order started",
		zap.Uint64("serviceId", req.ServiceID),
		zap.Uint64("productId", req.ProductID),
		zap.Int("quantity", req.Quantity),
	)

	if req.Quantity < 1 {
		return nil, apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "quantity", Message: "must be at least 1"})
	}

	svc, err := uc.catalog.FindServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("service is not available",
			apperrors.ValidationDetail{Field: "serviceId", Message: "service is inactive"})
	}

	product, err := uc.catalog.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.ServiceID != svc.ID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found for service %d", req.ProductID, req.ServiceID))
	}
	if !product.IsActive {
		return nil, apperrors.NewValidationError("product is not available",
			apperrors.ValidationDetail{Field: "productId", Message: "product is inactive"})
	}

	item := domain.NewOrderItem(product.ID, product.Price, req.Quantity)
	createdAt := uc.now().Truncate(time.Millisecond)
	email := domain.NormalizeEmail(req.Email)

	order := &domain.Order{
		ServiceID:   svc.ID,
		UserID:      userID,
		TotalAmount: item.Total,
		Status:      domain.OrderStatusWaitingPayment,
		CustomerData: domain.CustomerData{
			CustomerID: req.CustomerID,
			ZoneID:     req.ZoneID,
			Nickname:   req.Nickname,
			Email:      email,
			Phone:      req.Phone,
			Product: domain.ProductSnapshot{
				ID:    product.ID,
				SKU:   product.SKU,
				Name:  product.Name,
				Price: product.Price,
			},
			Quantity: req.Quantity,
		},
		CustomerEmail: email,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		ServiceName:   svc.Name,
	}

	if err := uc.createWithRetry(ctx, order, &item); err != nil {
		return nil, err
	}

	uc.publish(ctx, kafka.EventOrderCreated, order.OrderNumber, orderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ServiceID:   order.ServiceID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	})

	return uc.initiatePayment(ctx, order, product)
}

func (uc *CreateOrderUseCase) initiatePayment(ctx context.Context, order *domain.Order, product *domain.Product) (*dto.CreateOrderResponse, error) {
	customerName := order.CustomerData.Nickname
	if customerName == "" {
		customerName = order.CustomerData.CustomerID
	}

	charge, err := uc.gateway.CreateTransaction(ctx, payment.ChargeRequest{
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		Customer: payment.Customer{
			Name:  customerName,
			Email: order.CustomerData.Email,
			Phone: order.CustomerData.Phone,
		},
		ItemID:     product.SKU,
		ItemName:   fmt.Sprintf("%s - %s", order.ServiceName, product.Name),
		ExpiryMins: int64(domain.PaymentWindow / time.Minute),
	})
	if err != nil {
		uc.logger.Warn("payment initiation failed, order left awaiting payment",
			zap.String("orderNumber", order.OrderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	p := &domain.Payment{
		OrderID:     order.ID,
		Amount:      order.TotalAmount,
		Method:      uc.paymentMethod,
		Status:      domain.PaymentStatusPending,
		Token:       &charge.Token,
		RedirectURL: &charge.RedirectURL,
		ExpiryTime:  order.PaymentExpiry(),
		CreatedAt:   uc.now(),
	}
	if err := uc.payments.Insert(ctx, p); err != nil {
		uc.logger.Error("failed to persist payment", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, kafka.EventPaymentInitiated, order.OrderNumber, paymentInitiatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      p.Amount,
		Method:      p.Method,
		ExpiryTime:  p.ExpiryTime,
	})

	uc.logger.Info("order created",
		zap.Uint64("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("totalAmount", order.TotalAmount.StringFixed(2)),
	)

	return &dto.CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Token:       charge.Token,
		RedirectURL: charge.RedirectURL,
	}, nil
}

func (uc *CreateOrderUseCase) createWithRetry(ctx context.Context, order *domain.Order, item *domain.OrderItem) error {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		order.OrderNumber = uc.nextNumber(uc.now())

		err := uc.orders.CreateWithItem(ctx, order, item)
		if err == nil {
			return nil
		}

		if !isDuplicateKeyError(err) {
			return err
		}

		uc.logger.Warn("order number collision, regenerating",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxAttempts),
			zap.String("orderNumber", order.OrderNumber),
		)
	}

	return apperrors.NewConflictError("could not allocate a unique order number")
}

func (uc *CreateOrderUseCase) publish(ctx context.Context, eventType, key string, payload any) {
	if err := uc.publisher.Publish(ctx, eventType, key, payload); err != nil {
		uc.logger.Warn("failed to publish event", zap.String("eventType", eventType), zap.String("key", key), zap.Error(err))
	}
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
