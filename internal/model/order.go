package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. "voided" is never produced by this system — it exists so
// imported data can be excluded from aggregates and listings.
const (
	OrderCompleted = "completed"
	OrderRefunded  = "refunded"
	OrderVoided    = "voided"
)

// PaymentCash marks orders that count toward a session's cash collection.
const PaymentCash = "cash"

// Bills is the monetary breakdown of an order. Tax is supplied by the
// caller as a number; no tax rules are computed here.
type Bills struct {
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Tax          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	TotalWithTax decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalWithTax"`
}

// Receipt is the immutable rendered snapshot attached when the order is
// created (and regenerated, marked EDITED, when the order is edited).
type Receipt struct {
	CafeName  string    `json:"cafeName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is a single sale. Once refunded, an order accepts no further edits
// or refunds. SessionID is optional: an order need not belong to a session.
type Order struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber    string     `gorm:"type:varchar(20);uniqueIndex;not null"` // e.g. A1-042
	SequenceNumber int        `gorm:"not null"`
	Bills          Bills      `gorm:"embedded;embeddedPrefix:bill_"`
	PaymentMethod  string     `gorm:"type:varchar(20);not null"`
	CashierID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	SessionID      *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(20);not null;default:'completed';index"`

	RefundedAt   *time.Time
	RefundedBy   *uuid.UUID `gorm:"type:uuid"`
	RefundReason *string

	Receipt Receipt `gorm:"embedded;embeddedPrefix:receipt_"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
	Edits []OrderEdit `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a line snapshot taken at sale time — the menu catalog may
// change afterwards without affecting recorded orders.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"-"`
	Name      string          `gorm:"not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
}

// OrderEdit captures the pre-mutation state of an edited order. Entries
// accumulate and are never removed.
type OrderEdit struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID   `gorm:"type:uuid;index;not null"`
	EditedBy      uuid.UUID   `gorm:"type:uuid"`
	Reason        string      `gorm:"not null"`
	PreviousItems []OrderItem `gorm:"type:jsonb;serializer:json"`
	PreviousBills Bills       `gorm:"type:jsonb;serializer:json"`
	EditedAt      time.Time
}
