package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemInput struct {
	Name      string          `json:"name"      validate:"required,min=1"`
	Quantity  int             `json:"quantity"  validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
}

// BillsInput uses pointers so a zero total (a fully comped order) is
// distinguishable from an absent field.
type BillsInput struct {
	Total        *decimal.Decimal `json:"total"        validate:"required"`
	Tax          *decimal.Decimal `json:"tax"          validate:"required"`
	TotalWithTax *decimal.Decimal `json:"totalWithTax" validate:"required"`
}

type AddOrderRequest struct {
	Items         []OrderItemInput `json:"items"         validate:"required,min=1,dive"`
	Bills         BillsInput       `json:"bills"         validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=cash card"`
}

type EditOrderRequest struct {
	Items  []OrderItemInput `json:"items"  validate:"required,min=1,dive"`
	Bills  BillsInput       `json:"bills"  validate:"required"`
	Reason string           `json:"reason" validate:"required,min=3"`
}

type RefundOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BillsResponse struct {
	Total        decimal.Decimal `json:"total"`
	Tax          decimal.Decimal `json:"tax"`
	TotalWithTax decimal.Decimal `json:"totalWithTax"`
}

type OrderItemResponse struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderEditResponse struct {
	EditedBy      string              `json:"editedBy"`
	Reason        string              `json:"reason"`
	PreviousItems []OrderItemResponse `json:"previousItems"`
	PreviousBills BillsResponse       `json:"previousBills"`
	EditedAt      time.Time           `json:"editedAt"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"orderNumber"`
	SequenceNumber int                 `json:"sequenceNumber"`
	Items          []OrderItemResponse `json:"items"`
	Bills          BillsResponse       `json:"bills"`
	PaymentMethod  string              `json:"paymentMethod"`
	CashierID      string              `json:"cashierId"`
	SessionID      *string             `json:"sessionId,omitempty"`
	Status         string              `json:"status"`
	RefundedAt     *time.Time          `json:"refundedAt,omitempty"`
	RefundedBy     *string             `json:"refundedBy,omitempty"`
	RefundReason   *string             `json:"refundReason,omitempty"`
	Receipt        string              `json:"receipt,omitempty"`
	Edits          []OrderEditResponse `json:"editHistory,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

func NewOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		SequenceNumber: o.SequenceNumber,
		Bills: BillsResponse{
			Total:        o.Bills.Total,
			Tax:          o.Bills.Tax,
			TotalWithTax: o.Bills.TotalWithTax,
		},
		PaymentMethod: o.PaymentMethod,
		CashierID:     o.CashierID.String(),
		Status:        o.Status,
		RefundedAt:    o.RefundedAt,
		RefundReason:  o.RefundReason,
		Receipt:       o.Receipt.Content,
		CreatedAt:     o.CreatedAt,
	}
	if o.SessionID != nil {
		id := o.SessionID.String()
		resp.SessionID = &id
	}
	if o.RefundedBy != nil {
		by := o.RefundedBy.String()
		resp.RefundedBy = &by
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	for _, e := range o.Edits {
		edit := OrderEditResponse{
			EditedBy: e.EditedBy.String(),
			Reason:   e.Reason,
			PreviousBills: BillsResponse{
				Total:        e.PreviousBills.Total,
				Tax:          e.PreviousBills.Tax,
				TotalWithTax: e.PreviousBills.TotalWithTax,
			},
			EditedAt: e.EditedAt,
		}
		for _, it := range e.PreviousItems {
			edit.PreviousItems = append(edit.PreviousItems, OrderItemResponse{
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		resp.Edits = append(resp.Edits, edit)
	}
	return resp
}

type SessionOrdersResponse struct {
	SessionID          string          `json:"sessionId"`
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalCashCollected decimal.Decimal `json:"totalCashCollected"`
	TotalOrders        int             `json:"totalOrders"`
	Page               int             `json:"page"`
	Limit              int             `json:"limit"`
	TotalRows          int64           `json:"totalRows"`
	Orders             []OrderResponse `json:"orders"`
}
