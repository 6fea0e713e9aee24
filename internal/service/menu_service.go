package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/altyebv/restaurant-pos-system/internal/dto"
	"github.com/altyebv/restaurant-pos-system/internal/model"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

type MenuService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.MenuCategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.MenuCategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, req dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type menuService struct {
	repo repository.MenuRepository
}

func NewMenuService(repo repository.MenuRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.MenuCategoryResponse, error) {
	cat := &model.MenuCategory{Name: req.Name}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	resp := dto.NewMenuCategoryResponse(cat)
	return &resp, nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]dto.MenuCategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MenuCategoryResponse, 0, len(cats))
	for i := range cats {
		resp = append(resp, dto.NewMenuCategoryResponse(&cats[i]))
	}
	return resp, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *menuService) CreateItem(ctx context.Context, req dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	item := &model.MenuItem{
		CategoryID: categoryID,
		Name:       req.Name,
		Price:      req.Price,
		Image:      req.Image,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return &dto.MenuItemResponse{
		ID:    item.ID.String(),
		Name:  item.Name,
		Price: item.Price,
		Image: item.Image,
	}, nil
}

func (s *menuService) UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Image != nil {
		item.Image = req.Image
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return &dto.MenuItemResponse{
		ID:    item.ID.String(),
		Name:  item.Name,
		Price: item.Price,
		Image: item.Image,
	}, nil
}

func (s *menuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}
