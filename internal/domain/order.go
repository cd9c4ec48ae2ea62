package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentWindow is fixed for every order and is not configurable.
const PaymentWindow = 15 * time.Minute

type OrderStatus string

const (
	OrderStatusWaitingPayment OrderStatus = "WAITING_PAYMENT"
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusSuccess        OrderStatus = "SUCCESS"
	OrderStatusFailed         OrderStatus = "FAILED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
)

// PENDING is the legacy initial status and follows the same edges as WAITING_PAYMENT.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusWaitingPayment: {OrderStatusProcessing: true, OrderStatusCancelled: true, OrderStatusRefunded: true},
	OrderStatusPending:        {OrderStatusProcessing: true, OrderStatusCancelled: true, OrderStatusRefunded: true},
	OrderStatusProcessing:     {OrderStatusSuccess: true, OrderStatusFailed: true},
	OrderStatusSuccess:        {},
	OrderStatusFailed:         {},
	OrderStatusCancelled:      {},
	OrderStatusRefunded:       {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	next, ok := validNext[s]
	return ok && len(next) == 0
}

var statusMessages = map[OrderStatus]string{
	OrderStatusWaitingPayment: "Menunggu pembayaran",
	OrderStatusProcessing:     "Sedang diproses oleh provider",
	OrderStatusSuccess:        "Pesanan berhasil diproses, item telah dikirim",
	OrderStatusFailed:         "Pemrosesan pesanan gagal",
	OrderStatusCancelled:      "Pesanan dibatalkan",
	OrderStatusRefunded:       "Dana telah dikembalikan",
}

const (
	MessageOrderCreated  = "Pesanan dibuat"
	MessageUnknownStatus = "Status tidak diketahui"
	MessageOrderNotFound = "Pesanan tidak ditemukan"
)

// StatusMessage returns the customer-facing text for a status.
func StatusMessage(s OrderStatus) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return MessageUnknownStatus
}

type ProductSnapshot struct {
	ID    uint64          `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CustomerData is stored as a JSON column on the order.
type CustomerData struct {
	CustomerID string          `json:"customerId"`
	ZoneID     string          `json:"zoneId,omitempty"`
	Nickname   string          `json:"nickname,omitempty"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Product    ProductSnapshot `json:"product"`
	Quantity   int             `json:"quantity"`
}

type Order struct {
	ID            uint64
	OrderNumber   string
	ServiceID     uint64
	UserID        *uint64
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	CustomerData  CustomerData
	CustomerEmail string
	ExternalID    *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// ServiceName is filled by reads that join the service.
	ServiceName string
}

// PaymentExpiry is the deadline derived from the order's creation time.
func (o Order) PaymentExpiry() time.Time {
	return o.CreatedAt.Add(PaymentWindow)
}

type OrderItem struct {
	ID        uint64
	OrderID   uint64
	ProductID uint64
	Quantity  int
	Price     decimal.Decimal
	Total     decimal.Decimal

	ProductName string
}

func NewOrderItem(productID uint64, price decimal.Decimal, quantity int) OrderItem {
	return OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		Total:     price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
