package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

var (
	ErrSessionAlreadyOpen    = errors.New("cashier already has an open session")
	ErrNoOpenSession         = errors.New("no open session for cashier")
	ErrSessionNotOpen        = errors.New("session is not open")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrOrderNumberExhausted  = errors.New("could not generate a unique order number")
	ErrOrderRefunded         = errors.New("order has already been refunded")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user account is deactivated")
	ErrInvalidCashierCode    = errors.New("invalid cashier code")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrCashierCodeDuplicated = errors.New("cashier code already in use")
)

// Principal identifies the authenticated caller for permission checks
// and audit attribution.
type Principal struct {
	ID          uuid.UUID
	Role        string
	CashierCode string
}

func (p Principal) Manager() bool {
	return p.Role == model.RoleManager || p.Role == model.RoleAdmin
}
