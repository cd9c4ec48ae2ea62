package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusSettlement PaymentStatus = "SETTLEMENT"
	PaymentStatusExpire     PaymentStatus = "EXPIRE"
	PaymentStatusCancel     PaymentStatus = "CANCEL"
	PaymentStatusDeny       PaymentStatus = "DENY"
	PaymentStatusRefund     PaymentStatus = "REFUND"
)

const PaymentMethodEWallet = "E_WALLET"

type Payment struct {
	ID          uint64
	OrderID     uint64
	Amount      decimal.Decimal
	Method      string
	Status      PaymentStatus
	PaymentType *string
	Token       *string
	RedirectURL *string
	ExpiryTime  time.Time
	CreatedAt   time.Time
}

// OrderStats is the admin dashboard aggregate. Revenue only counts settled
// payments of orders that were not refunded.
type OrderStats struct {
	TotalOrders   int64
	PendingOrders int64
	SuccessOrders int64
	TotalRevenue  decimal.Decimal
	TodayOrders   int64
	TodayRevenue  decimal.Decimal
}
