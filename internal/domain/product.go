package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint64
	Name        string
	Slug        string
	Description *string
	Icon        *string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Services    []Service
}

type Service struct {
	ID           uint64
	CategoryID   uint64
	Name         string
	ExternalCode *string
	IsActive     bool
	SortOrder    int
}

type Product struct {
	ID        uint64
	ServiceID uint64
	SKU       string
	Name      string
	Price     decimal.Decimal
	Category  string
	IsActive  bool
}

// EntityType names the catalog tables whose active flag admins can flip.
type EntityType string

const (
	EntityCategory EntityType = "category"
	EntityService  EntityType = "service"
	EntityProduct  EntityType = "product"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityCategory, EntityService, EntityProduct:
		return true
	}
	return false
}
