package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

type orderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	ServiceID   uint64          `json:"serviceId"`
	ProductID   uint64          `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type paymentInitiatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ExpiryTime  time.Time       `json:"expiryTime"`
}

type orderExpiredEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	ExpiredAt   time.Time `json:"expiredAt"`
}
