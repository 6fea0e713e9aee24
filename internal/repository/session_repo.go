package repository

import (
	"context"
	"errors"
	"time"

	"github.com/altyebv/restaurant-pos-system/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDelta is the aggregate adjustment applied to a session when an
// order is created, edited or refunded. It is applied as a single UPDATE
// so concurrent writers never lose increments.
type OrderDelta struct {
	Orders int
	Sales  decimal.Decimal
	Cash   decimal.Decimal
	// Floor clamps the resulting aggregates at zero. Used for refunds,
	// which may target orders imported from before the counters existed.
	Floor bool
}

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Session, error)
	FindLastClosedByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Session, error)
	Update(ctx context.Context, s *model.Session) error
	List(ctx context.Context, cashierID *uuid.UUID) ([]model.Session, error)
	AppendExpense(ctx context.Context, e *model.Expense) error
	AppendOperation(ctx context.Context, op *model.Operation) error
	IncrementExpenses(ctx context.Context, sessionID uuid.UUID, amount decimal.Decimal) error
	ApplyOrderDelta(ctx context.Context, sessionID uuid.UUID, d OrderDelta) error
	PersistCounter(ctx context.Context, sessionID uuid.UUID, prev, next int, lastOrderDate time.Time) error
	DB() *gorm.DB
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Preload("Expenses").
		Preload("Operations").
		First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Preload("Expenses").
		Preload("Operations").
		Where("cashier_id = ? AND status = ?", cashierID, model.SessionOpen).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindLastClosedByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("cashier_id = ? AND status = ?", cashierID, model.SessionClosed).
		Order("ended_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Update(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Omit("Expenses", "Operations").Save(s).Error
}

func (r *sessionRepo) List(ctx context.Context, cashierID *uuid.UUID) ([]model.Session, error) {
	var sessions []model.Session
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if cashierID != nil {
		q = q.Where("cashier_id = ?", *cashierID)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) AppendExpense(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *sessionRepo) AppendOperation(ctx context.Context, op *model.Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *sessionRepo) IncrementExpenses(ctx context.Context, sessionID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		UpdateColumn("total_expenses", gorm.Expr("total_expenses + ?", amount)).Error
}

func (r *sessionRepo) ApplyOrderDelta(ctx context.Context, sessionID uuid.UUID, d OrderDelta) error {
	updates := map[string]any{}
	if d.Floor {
		updates["total_orders"] = gorm.Expr("GREATEST(total_orders + ?, 0)", d.Orders)
		updates["total_sales"] = gorm.Expr("GREATEST(total_sales + ?, 0)", d.Sales)
		updates["total_cash_collected"] = gorm.Expr("GREATEST(total_cash_collected + ?, 0)", d.Cash)
	} else {
		updates["total_orders"] = gorm.Expr("total_orders + ?", d.Orders)
		updates["total_sales"] = gorm.Expr("total_sales + ?", d.Sales)
		updates["total_cash_collected"] = gorm.Expr("total_cash_collected + ?", d.Cash)
	}
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		UpdateColumns(updates).Error
}

func (r *sessionRepo) PersistCounter(ctx context.Context, sessionID uuid.UUID, prev, next int, lastOrderDate time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND order_counter = ?", sessionID, prev).
		UpdateColumns(map[string]any{
			"order_counter":   next,
			"last_order_date": lastOrderDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleCounter
	}
	return nil
}

func (r *sessionRepo) DB() *gorm.DB { return r.db }
