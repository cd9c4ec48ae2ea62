package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type ChargeRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	Customer    Customer
	ItemID      string
	ItemName    string
	ExpiryMins  int64
}

type ChargeResult struct {
	Token       string
	RedirectURL string
}

// Gateway creates a hosted payment page for an order. Calls are single
// attempt; the caller decides what happens to the order on failure.
type Gateway interface {
	CreateTransaction(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
