package dto

import "github.com/shopspring/decimal"

type ServiceDTO struct {
	ID           uint64  `json:"id"`
	CategoryID   uint64  `json:"categoryId"`
	Name         string  `json:"name"`
	ExternalCode *string `json:"externalCode"`
	IsActive     bool    `json:"isActive"`
	SortOrder    int     `json:"sortOrder"`
}

type CategoryDTO struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description *string      `json:"description"`
	Icon        *string      `json:"icon"`
	SortOrder   int          `json:"sortOrder"`
	IsActive    bool         `json:"isActive"`
	Services    []ServiceDTO `json:"services"`
}

type ProductDTO struct {
	ID        uint64          `json:"id"`
	ServiceID uint64          `json:"serviceId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"isActive"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=255"`
	SortOrder   int     `json:"sortOrder" validate:"gte=0"`
}

type NicknameRequest struct {
	ServiceID uint64 `json:"serviceId" validate:"required"`
	UserID    string `json:"userId" validate:"required,max=64"`
	ZoneID    string `json:"zoneId" validate:"max=32"`
}

type NicknameResponse struct {
	Nickname string `json:"nickname"`
}
