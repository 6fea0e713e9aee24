package repository

import (
	"context"
	"errors"

	"github.com/altyebv/restaurant-pos-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository interface {
	CreateCategory(ctx context.Context, c *model.MenuCategory) error
	ListCategories(ctx context.Context) ([]model.MenuCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, it *model.MenuItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	UpdateItem(ctx context.Context, it *model.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) CreateCategory(ctx context.Context, c *model.MenuCategory) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *menuRepo) ListCategories(ctx context.Context) ([]model.MenuCategory, error) {
	var cats []model.MenuCategory
	err := r.db.WithContext(ctx).Preload("Items").Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *menuRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.MenuCategory{}, "id = ?", id).Error
	})
}

func (r *menuRepo) CreateItem(ctx context.Context, it *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *menuRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var it model.MenuItem
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *menuRepo) UpdateItem(ctx context.Context, it *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *menuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MenuItem{}, "id = ?", id).Error
}
