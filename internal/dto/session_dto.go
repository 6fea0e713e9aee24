package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	StartingBalance *decimal.Decimal `json:"startingBalance" validate:"omitempty"`
}

type AddExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Description string          `json:"description" validate:"required,min=2"`
}

type ExpenseInput struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Description string          `json:"description" validate:"required,min=2"`
}

type CloseSessionRequest struct {
	SessionID          *string          `json:"sessionId" validate:"omitempty,uuid"`
	Expenses           []ExpenseInput   `json:"expenses"  validate:"omitempty,dive"`
	TotalCashCollected *decimal.Decimal `json:"totalCashCollected"`
	Comment            *string          `json:"comment"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OperationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedBy string         `json:"createdBy"`
	CreatedAt time.Time      `json:"createdAt"`
}

type SessionResponse struct {
	ID                 string              `json:"id"`
	CashierID          string              `json:"cashierId"`
	Status             string              `json:"status"`
	StartingBalance    decimal.Decimal     `json:"startingBalance"`
	TotalSales         decimal.Decimal     `json:"totalSales"`
	TotalCashCollected decimal.Decimal     `json:"totalCashCollected"`
	TotalExpenses      decimal.Decimal     `json:"totalExpenses"`
	TotalOrders        int                 `json:"totalOrders"`
	EndBalance         *decimal.Decimal    `json:"endBalance,omitempty"`
	StartedAt          time.Time           `json:"startedAt"`
	EndedAt            *time.Time          `json:"endedAt,omitempty"`
	Comment            *string             `json:"comment,omitempty"`
	Expenses           []ExpenseResponse   `json:"expenses,omitempty"`
	Operations         []OperationResponse `json:"operations,omitempty"`
}

func NewSessionResponse(s *model.Session) SessionResponse {
	resp := SessionResponse{
		ID:                 s.ID.String(),
		CashierID:          s.CashierID.String(),
		Status:             s.Status,
		StartingBalance:    s.StartingBalance,
		TotalSales:         s.TotalSales,
		TotalCashCollected: s.TotalCashCollected,
		TotalExpenses:      s.TotalExpenses,
		TotalOrders:        s.TotalOrders,
		EndBalance:         s.EndBalance,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		Comment:            s.Comment,
	}
	for _, e := range s.Expenses {
		resp.Expenses = append(resp.Expenses, ExpenseResponse{
			ID:          e.ID.String(),
			Amount:      e.Amount,
			Description: e.Description,
			CreatedBy:   e.CreatedBy.String(),
			CreatedAt:   e.CreatedAt,
		})
	}
	for _, op := range s.Operations {
		resp.Operations = append(resp.Operations, OperationResponse{
			ID:        op.ID.String(),
			Type:      op.Type,
			Details:   op.Details,
			CreatedBy: op.CreatedBy.String(),
			CreatedAt: op.CreatedAt,
		})
	}
	return resp
}
