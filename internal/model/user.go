package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Roles understood by the permission checks. Managers and admins may act
// on sessions and orders they do not own.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// CashierCodeRe validates cashier codes: one uppercase letter followed by
// digits (A1, B12, …). The code prefixes every order number.
var CashierCodeRe = regexp.MustCompile(`^[A-Z]\d+$`)

// User stores system users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Phone        string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	CashierCode  string `gorm:"type:varchar(10);uniqueIndex;not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
