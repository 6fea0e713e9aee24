package repository

import (
	"context"
	"errors"

	"github.com/altyebv/restaurant-pos-system/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SessionTotals is the result of recomputing a session's aggregates from
// its completed orders. It is the source of truth the cached session
// counters are reconciled against.
type SessionTotals struct {
	TotalSales         decimal.Decimal
	TotalCashCollected decimal.Decimal
	TotalOrders        int
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	Save(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	ApplyEdit(ctx context.Context, o *model.Order, edit *model.OrderEdit, newItems []model.OrderItem) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, page, limit int) ([]model.Order, int64, error)
	ListRecent(ctx context.Context, sessionID uuid.UUID, limit int) ([]model.Order, error)
	SumBySession(ctx context.Context, sessionID uuid.UUID) (SessionTotals, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *orderRepo) Save(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Omit("Items", "Edits").Save(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Edits", func(db *gorm.DB) *gorm.DB { return db.Order("edited_at ASC") }).
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Edits", func(db *gorm.DB) *gorm.DB { return db.Order("edited_at ASC") }).
		First(&o, "order_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// ApplyEdit replaces the order's items and records the edit snapshot in
// one transaction so a failed edit never leaves a half-updated order.
func (r *orderRepo) ApplyEdit(ctx context.Context, o *model.Order, edit *model.OrderEdit, newItems []model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items", "Edits").Save(o).Error; err != nil {
			return err
		}
		for i := range newItems {
			newItems[i].OrderID = o.ID
		}
		if len(newItems) > 0 {
			if err := tx.Create(&newItems).Error; err != nil {
				return err
			}
		}
		return tx.Create(edit).Error
	})
}

func (r *orderRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListRecent(ctx context.Context, sessionID uuid.UUID, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ? AND status IN ?", sessionID, []string{model.OrderCompleted, model.OrderRefunded}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) SumBySession(ctx context.Context, sessionID uuid.UUID) (SessionTotals, error) {
	var row struct {
		TotalSales         decimal.Decimal
		TotalCashCollected decimal.Decimal
		TotalOrders        int
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(`COALESCE(SUM(bill_total_with_tax), 0) AS total_sales,
			COALESCE(SUM(CASE WHEN payment_method = 'cash' THEN bill_total_with_tax ELSE 0 END), 0) AS total_cash_collected,
			COUNT(*) AS total_orders`).
		Where("session_id = ? AND status = ?", sessionID, model.OrderCompleted).
		Scan(&row).Error
	if err != nil {
		return SessionTotals{}, err
	}
	return SessionTotals{
		TotalSales:         row.TotalSales,
		TotalCashCollected: row.TotalCashCollected,
		TotalOrders:        row.TotalOrders,
	}, nil
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
