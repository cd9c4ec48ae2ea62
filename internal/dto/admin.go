package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatsResponse struct {
	TotalOrders   int64           `json:"totalOrders"`
	PendingOrders int64           `json:"pendingOrders"`
	SuccessOrders int64           `json:"successOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TodayOrders   int64           `json:"todayOrders"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
}

type ToggleRequest struct {
	Type string `json:"type" validate:"required,oneof=category service product"`
	ID   uint64 `json:"id" validate:"required"`
}

type ToggleResponse struct {
	Type     string `json:"type"`
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type SyncRequest struct {
	Action string `json:"action" validate:"required,oneof=sync-services sync-products sync-stock full-sync"`
}

type SyncResponse struct {
	Action              string    `json:"action"`
	ServicesUpserted    int       `json:"servicesUpserted"`
	ServicesDeactivated int64     `json:"servicesDeactivated"`
	ProductsUpserted    int       `json:"productsUpserted"`
	ProductsDeactivated int64     `json:"productsDeactivated"`
	StockUpdated        int       `json:"stockUpdated"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
}

type UserResponse struct {
	ID         uint64          `json:"id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Phone      *string         `json:"phone"`
	Role       string          `json:"role"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"isActive"`
	OrderCount int64           `json:"orderCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResellerProfileResponse struct {
	FullName string          `json:"fullName"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
	Point    decimal.Decimal `json:"point"`
	Level    string          `json:"level"`
}
