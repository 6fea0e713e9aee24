package dto

import (
	"github.com/shopspring/decimal"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type CreateMenuItemRequest struct {
	CategoryID string          `json:"categoryId" validate:"required,uuid"`
	Name       string          `json:"name"       validate:"required,min=1"`
	Price      decimal.Decimal `json:"price"      validate:"required"`
	Image      *string         `json:"image"`
}

type UpdateMenuItemRequest struct {
	Name  *string          `json:"name"  validate:"omitempty,min=1"`
	Price *decimal.Decimal `json:"price"`
	Image *string          `json:"image"`
}

type MenuItemResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image *string         `json:"image,omitempty"`
}

type MenuCategoryResponse struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Items []MenuItemResponse `json:"items"`
}

func NewMenuCategoryResponse(c *model.MenuCategory) MenuCategoryResponse {
	resp := MenuCategoryResponse{ID: c.ID.String(), Name: c.Name, Items: []MenuItemResponse{}}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, MenuItemResponse{
			ID:    it.ID.String(),
			Name:  it.Name,
			Price: it.Price,
			Image: it.Image,
		})
	}
	return resp
}
