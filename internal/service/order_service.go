package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/altyebv/restaurant-pos-system/internal/dto"
	"github.com/altyebv/restaurant-pos-system/internal/model"
	"github.com/altyebv/restaurant-pos-system/internal/receipt"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
	"github.com/altyebv/restaurant-pos-system/internal/worker"
)

const (
	recentDefaultLimit = 15
	recentMaxLimit     = 50
	sessionPageLimit   = 50
	sessionPageMax     = 200
)

type OrderService interface {
	Add(ctx context.Context, actor Principal, req dto.AddOrderRequest) (*dto.OrderResponse, error)
	Edit(ctx context.Context, actor Principal, orderID uuid.UUID, req dto.EditOrderRequest) (*dto.OrderResponse, error)
	Refund(ctx context.Context, actor Principal, orderID uuid.UUID, req dto.RefundOrderRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, actor Principal, orderID uuid.UUID) (*dto.OrderResponse, error)
	Search(ctx context.Context, actor Principal, orderNumber string) (*dto.OrderResponse, error)
	Recent(ctx context.Context, actor Principal, limit int) ([]dto.OrderResponse, error)
	BySession(ctx context.Context, actor Principal, sessionID uuid.UUID, page, limit int) (*dto.SessionOrdersResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	sessions   repository.SessionRepository
	sequencer  OrderSequencer
	renderer   *receipt.Renderer
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

// NewOrderService wires the order ledger. dispatcher may be nil, in
// which case receipt PDFs are simply not generated.
func NewOrderService(
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	sequencer OrderSequencer,
	renderer *receipt.Renderer,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		orders:     orders,
		sessions:   sessions,
		sequencer:  sequencer,
		renderer:   renderer,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ── Add ───────────────────────────────────────────────────────────────────────

func (s *orderService) Add(ctx context.Context, actor Principal, req dto.AddOrderRequest) (*dto.OrderResponse, error) {
	number, seq, err := s.sequencer.GenerateOrderNumber(ctx, actor)
	if err != nil {
		return nil, err
	}

	// Session attachment is best-effort: the order stands on its own.
	// Losing the session here (closed mid-request, or a transient read
	// failure) must not drop a sale that already consumed a number.
	sess, err := s.sessions.FindOpenByCashier(ctx, actor.ID)
	if err != nil {
		log.Warn().Err(err).
			Str("cashier_id", actor.ID.String()).
			Str("order_number", number).
			Msg("failed to attach order to session")
		sess = nil
	}

	now := s.now()
	order := &model.Order{
		OrderNumber:    number,
		SequenceNumber: seq,
		Bills: model.Bills{
			Total:        *req.Bills.Total,
			Tax:          *req.Bills.Tax,
			TotalWithTax: *req.Bills.TotalWithTax,
		},
		PaymentMethod: req.PaymentMethod,
		CashierID:     actor.ID,
		Status:        model.OrderCompleted,
		Items:         itemsFromInput(req.Items),
	}
	if sess != nil {
		order.SessionID = &sess.ID
	}
	order.Receipt = model.Receipt{
		CafeName:  s.renderer.CafeName,
		Content:   s.renderer.Render(order, false, now),
		CreatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Aggregate and audit updates are best-effort: the order row is the
	// record, counters self-heal on the next recompute.
	if sess != nil {
		delta := repository.OrderDelta{
			Orders: 1,
			Sales:  order.Bills.TotalWithTax,
			Cash:   cashPortion(order),
		}
		if err := s.sessions.ApplyOrderDelta(ctx, sess.ID, delta); err != nil {
			log.Warn().Err(err).Str("order_number", number).Msg("failed to apply order delta")
		}
		s.appendOperation(ctx, sess.ID, actor.ID, model.OpOrderCreated, map[string]any{
			"orderNumber": number,
			"total":       order.Bills.TotalWithTax.String(),
		})
	}

	s.enqueuePDF(ctx, order.ID)

	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// ── Edit ──────────────────────────────────────────────────────────────────────

func (s *orderService) Edit(ctx context.Context, actor Principal, orderID uuid.UUID, req dto.EditOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderRefunded {
		return nil, ErrOrderRefunded
	}
	if order.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}

	now := s.now()
	edit := &model.OrderEdit{
		OrderID:       order.ID,
		EditedBy:      actor.ID,
		Reason:        req.Reason,
		PreviousItems: order.Items,
		PreviousBills: order.Bills,
		EditedAt:      now,
	}

	previousTotal := order.Bills.TotalWithTax
	order.Bills = model.Bills{
		Total:        *req.Bills.Total,
		Tax:          *req.Bills.Tax,
		TotalWithTax: *req.Bills.TotalWithTax,
	}
	newItems := itemsFromInput(req.Items)
	order.Items = newItems
	order.Receipt.Content = s.renderer.Render(order, true, now)

	if err := s.orders.ApplyEdit(ctx, order, edit, newItems); err != nil {
		return nil, err
	}

	difference := order.Bills.TotalWithTax.Sub(previousTotal)
	if order.SessionID != nil {
		delta := repository.OrderDelta{Sales: difference}
		if order.PaymentMethod == model.PaymentCash {
			delta.Cash = difference
		}
		if err := s.sessions.ApplyOrderDelta(ctx, *order.SessionID, delta); err != nil {
			log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("failed to apply edit delta")
		}
		s.appendOperation(ctx, *order.SessionID, actor.ID, model.OpOrderEdited, map[string]any{
			"orderNumber": order.OrderNumber,
			"difference":  difference.String(),
			"reason":      req.Reason,
		})
	}

	s.enqueuePDF(ctx, order.ID)

	order.Edits = append(order.Edits, *edit)
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// ── Refund ────────────────────────────────────────────────────────────────────

func (s *orderService) Refund(ctx context.Context, actor Principal, orderID uuid.UUID, req dto.RefundOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderRefunded {
		return nil, ErrOrderRefunded
	}
	if order.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}

	now := s.now()
	by := actor.ID
	reason := req.Reason
	order.Status = model.OrderRefunded
	order.RefundedAt = &now
	order.RefundedBy = &by
	order.RefundReason = &reason

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	if order.SessionID != nil {
		delta := repository.OrderDelta{
			Orders: -1,
			Sales:  order.Bills.TotalWithTax.Neg(),
			Cash:   cashPortion(order).Neg(),
			// Floors protect sessions holding orders imported from the
			// old system, whose counters never included them.
			Floor: true,
		}
		if err := s.sessions.ApplyOrderDelta(ctx, *order.SessionID, delta); err != nil {
			log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("failed to apply refund delta")
		}
		s.appendOperation(ctx, *order.SessionID, actor.ID, model.OpOrderRefunded, map[string]any{
			"orderNumber": order.OrderNumber,
			"total":       order.Bills.TotalWithTax.String(),
			"reason":      req.Reason,
		})
	}

	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) GetByID(ctx context.Context, actor Principal, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

func (s *orderService) Search(ctx context.Context, actor Principal, orderNumber string) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

func (s *orderService) Recent(ctx context.Context, actor Principal, limit int) ([]dto.OrderResponse, error) {
	if limit <= 0 {
		limit = recentDefaultLimit
	}
	if limit > recentMaxLimit {
		limit = recentMaxLimit
	}

	sess, err := s.sessions.FindOpenByCashier(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return []dto.OrderResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListRecent(ctx, sess.ID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponse(&orders[i]))
	}
	return resp, nil
}

func (s *orderService) BySession(ctx context.Context, actor Principal, sessionID uuid.UUID, page, limit int) (*dto.SessionOrdersResponse, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = sessionPageLimit
	}
	if limit > sessionPageMax {
		limit = sessionPageMax
	}

	totals, err := s.orders.SumBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	orders, totalRows, err := s.orders.ListBySession(ctx, sessionID, page, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionOrdersResponse{
		SessionID:          sessionID.String(),
		TotalSales:         totals.TotalSales,
		TotalCashCollected: totals.TotalCashCollected,
		TotalOrders:        totals.TotalOrders,
		Page:               page,
		Limit:              limit,
		TotalRows:          totalRows,
		Orders:             make([]dto.OrderResponse, 0, len(orders)),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, dto.NewOrderResponse(&orders[i]))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func itemsFromInput(in []dto.OrderItemInput) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(in))
	for _, it := range in {
		items = append(items, model.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return items
}

func cashPortion(o *model.Order) decimal.Decimal {
	if o.PaymentMethod == model.PaymentCash {
		return o.Bills.TotalWithTax
	}
	return decimal.Zero
}

func (s *orderService) appendOperation(ctx context.Context, sessionID, actorID uuid.UUID, opType string, details map[string]any) {
	op := &model.Operation{
		SessionID: sessionID,
		Type:      opType,
		Details:   details,
		CreatedBy: actorID,
	}
	if err := s.sessions.AppendOperation(ctx, op); err != nil {
		log.Warn().Err(err).
			Str("session_id", sessionID.String()).
			Str("type", opType).
			Msg("failed to append session operation")
	}
}

func (s *orderService) enqueuePDF(ctx context.Context, orderID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueReceiptPDF(ctx, orderID); err != nil {
		log.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to enqueue receipt pdf")
	}
}
