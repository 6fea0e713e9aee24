package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session statuses. A closed session is never reopened.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Operation types recorded in the session audit log.
const (
	OpSessionOpen   = "session_open"
	OpSessionClosed = "session_closed"
	OpUserLogin     = "user_login"
	OpExpenseAdded  = "expense_added"
	OpOrderCreated  = "order_created"
	OpOrderEdited   = "order_edited"
	OpOrderRefunded = "order_refunded"
)

// Session represents a cashier's work shift: the boundary for orders and
// expenses between an open and a close event.
//
// TotalSales / TotalCashCollected / TotalExpenses / TotalOrders are a
// derived cache maintained by atomic per-delta increments. Orders are the
// source of truth; the cache is recomputed from them on read and at close.
type Session struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashierID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_sessions_cashier_status"`
	Status             string          `gorm:"type:varchar(20);not null;default:'open';index:idx_sessions_cashier_status"`
	StartingBalance    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalSales         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCashCollected decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalExpenses      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalOrders        int             `gorm:"not null;default:0"`
	// EndBalance is computed exactly once at close and frozen thereafter.
	EndBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// OrderCounter and LastOrderDate back the per-day order numbering.
	OrderCounter  int `gorm:"not null;default:0"`
	LastOrderDate *time.Time
	StartedAt     time.Time
	EndedAt       *time.Time
	Comment       *string

	Expenses   []Expense   `gorm:"foreignKey:SessionID"`
	Operations []Operation `gorm:"foreignKey:SessionID"`
}

// Expense is appended to a session and never removed.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// OperationDetails is the structured payload of an audit entry.
type OperationDetails map[string]any

// Operation is an immutable audit record of one state-changing action
// within a session. Operations are NEVER modified, deleted, or reordered.
type Operation struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID        `gorm:"type:uuid;index;not null"`
	Type      string           `gorm:"type:varchar(30);not null"`
	Details   OperationDetails `gorm:"type:jsonb;serializer:json"`
	CreatedBy uuid.UUID        `gorm:"type:uuid"`
	CreatedAt time.Time
}
