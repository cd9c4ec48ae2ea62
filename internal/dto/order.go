package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	ServiceID  uint64 `json:"serviceId" validate:"required"`
	ProductID  uint64 `json:"productId" validate:"required"`
	CustomerID string `json:"customerId" validate:"required,max=64"`
	ZoneID     string `json:"zoneId" validate:"max=32"`
	Nickname   string `json:"nickname" validate:"max=100"`
	Email      string `json:"email" validate:"required,email,max=190"`
	Phone      string `json:"phone" validate:"required,min=6,max=30"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=100"`
}

type CreateOrderResponse struct {
	OrderID     uint64 `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type TrackOrderResponse struct {
	OrderNumber   string               `json:"orderNumber"`
	Status        string               `json:"status"`
	StatusMessage string               `json:"statusMessage"`
	ServiceName   string               `json:"serviceName"`
	ProductName   string               `json:"productName"`
	CustomerID    string               `json:"customerId"`
	Nickname      string               `json:"nickname,omitempty"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
}

type OrderItemDTO struct {
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

type PaymentDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	PaymentType *string         `json:"paymentType"`
	Token       *string         `json:"token"`
	RedirectURL *string         `json:"redirectUrl"`
	ExpiryTime  time.Time       `json:"expiryTime"`
}

type OrderDetailResponse struct {
	OrderID       uint64          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	ServiceID     uint64          `json:"serviceId"`
	Status        string          `json:"status"`
	StatusMessage string          `json:"statusMessage"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerID    string          `json:"customerId"`
	ZoneID        string          `json:"zoneId,omitempty"`
	Nickname      string          `json:"nickname,omitempty"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	ExternalID    *string         `json:"externalId"`
	Notes         *string         `json:"notes"`
	Items         []OrderItemDTO  `json:"items"`
	Payment       *PaymentDTO     `json:"payment"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	IsExpired     bool            `json:"isExpired"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type PaymentConfigResponse struct {
	ClientKey    string `json:"clientKey"`
	IsProduction bool   `json:"isProduction"`
	SnapJSURL    string `json:"snapJsUrl"`
}
