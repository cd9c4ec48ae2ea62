package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Rank orders roles by privilege. Unknown roles rank below USER.
func (r Role) Rank() int {
	return roleRank[r]
}

type User struct {
	ID           uint64
	Email        string
	Name         string
	Phone        *string
	PasswordHash string
	Role         Role
	Balance      decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	OrderCount   int64
}
