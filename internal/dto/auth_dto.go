package dto

import "github.com/altyebv/restaurant-pos-system/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type CreateUserRequest struct {
	Name        string `json:"name"        validate:"required,min=2"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"       validate:"omitempty,min=6"`
	Password    string `json:"password"    validate:"required,min=6"`
	Role        string `json:"role"        validate:"required,oneof=cashier manager admin"`
	CashierCode string `json:"cashierCode" validate:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2"`
	Phone    *string `json:"phone"    validate:"omitempty,min=6"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	IsActive *bool   `json:"isActive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	CashierCode string `json:"cashierCode"`
	IsActive    bool   `json:"isActive"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		CashierCode: u.CashierCode,
		IsActive:    u.IsActive,
	}
}

type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}
