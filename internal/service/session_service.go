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
	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

type SessionService interface {
	Open(ctx context.Context, actor Principal, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Current(ctx context.Context, actor Principal) (*dto.SessionResponse, error)
	AddExpense(ctx context.Context, actor Principal, sessionID uuid.UUID, req dto.AddExpenseRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, actor Principal, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	List(ctx context.Context, actor Principal) ([]dto.SessionResponse, error)
	GetByID(ctx context.Context, actor Principal, id uuid.UUID) (*dto.SessionResponse, error)
	// NoteLogin records a login event on the cashier's open session, if any.
	NoteLogin(ctx context.Context, userID uuid.UUID)
}

type sessionService struct {
	sessions repository.SessionRepository
	orders   repository.OrderRepository
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, orders repository.OrderRepository) SessionService {
	return &sessionService{sessions: sessions, orders: orders, now: time.Now}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, actor Principal, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if _, err := s.sessions.FindOpenByCashier(ctx, actor.ID); err == nil {
		return nil, ErrSessionAlreadyOpen
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	starting := decimal.Zero
	if req.StartingBalance != nil {
		if req.StartingBalance.IsNegative() {
			return nil, ErrInvalidAmount
		}
		starting = *req.StartingBalance
	} else if last, err := s.sessions.FindLastClosedByCashier(ctx, actor.ID); err == nil && last.EndBalance != nil {
		// Carry yesterday's drawer forward when nothing was declared.
		starting = *last.EndBalance
	}

	sess := &model.Session{
		CashierID:       actor.ID,
		Status:          model.SessionOpen,
		StartingBalance: starting,
		StartedAt:       s.now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		// The partial unique index is the real guard against two opens racing.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSessionAlreadyOpen
		}
		return nil, err
	}

	s.appendOperation(ctx, sess.ID, actor.ID, model.OpSessionOpen, map[string]any{
		"startingBalance": starting.String(),
	})

	resp := dto.NewSessionResponse(sess)
	return &resp, nil
}

// ── Current ───────────────────────────────────────────────────────────────────

// Current returns the caller's open session with totals recomputed from
// the order rows, so a missed counter update never reaches the client.
func (s *sessionService) Current(ctx context.Context, actor Principal) (*dto.SessionResponse, error) {
	sess, err := s.sessions.FindOpenByCashier(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.overlayTotals(ctx, sess); err != nil {
		return nil, err
	}

	resp := dto.NewSessionResponse(sess)
	return &resp, nil
}

// ── AddExpense ────────────────────────────────────────────────────────────────

func (s *sessionService) AddExpense(ctx context.Context, actor Principal, sessionID uuid.UUID, req dto.AddExpenseRequest) (*dto.SessionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionOpen {
		return nil, ErrSessionNotOpen
	}
	if sess.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}

	expense := &model.Expense{
		SessionID:   sess.ID,
		Amount:      req.Amount,
		Description: req.Description,
		CreatedBy:   actor.ID,
	}
	if err := s.sessions.AppendExpense(ctx, expense); err != nil {
		return nil, err
	}
	if err := s.sessions.IncrementExpenses(ctx, sess.ID, req.Amount); err != nil {
		return nil, err
	}

	s.appendOperation(ctx, sess.ID, actor.ID, model.OpExpenseAdded, map[string]any{
		"amount":      req.Amount.String(),
		"description": req.Description,
	})

	return s.GetByID(ctx, actor, sess.ID)
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *sessionService) Close(ctx context.Context, actor Principal, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	var sess *model.Session
	var err error
	if req.SessionID != nil {
		id, perr := uuid.Parse(*req.SessionID)
		if perr != nil {
			return nil, repository.ErrNotFound
		}
		sess, err = s.sessions.FindByID(ctx, id)
	} else {
		sess, err = s.sessions.FindOpenByCashier(ctx, actor.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSession
		}
	}
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionOpen {
		return nil, ErrSessionNotOpen
	}
	if sess.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}

	// Totals are always recomputed from orders at close. The cached
	// counters are a live convenience, never the closing record.
	totals, err := s.orders.SumBySession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.TotalSales = totals.TotalSales
	sess.TotalCashCollected = totals.TotalCashCollected
	sess.TotalOrders = totals.TotalOrders

	for _, in := range req.Expenses {
		if !in.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		expense := &model.Expense{
			SessionID:   sess.ID,
			Amount:      in.Amount,
			Description: in.Description,
			CreatedBy:   actor.ID,
		}
		if err := s.sessions.AppendExpense(ctx, expense); err != nil {
			return nil, err
		}
		sess.Expenses = append(sess.Expenses, *expense)
	}

	totalExpenses := decimal.Zero
	for _, e := range sess.Expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	sess.TotalExpenses = totalExpenses

	if req.TotalCashCollected != nil {
		if req.TotalCashCollected.IsNegative() {
			return nil, ErrInvalidAmount
		}
		sess.TotalCashCollected = *req.TotalCashCollected
	}

	end := Reconcile(sess.StartingBalance, sess.TotalCashCollected, sess.TotalExpenses)
	now := s.now()
	sess.EndBalance = &end
	sess.Status = model.SessionClosed
	sess.EndedAt = &now
	sess.Comment = req.Comment

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}

	s.appendOperation(ctx, sess.ID, actor.ID, model.OpSessionClosed, map[string]any{
		"totalSales":         sess.TotalSales.String(),
		"totalCashCollected": sess.TotalCashCollected.String(),
		"totalExpenses":      sess.TotalExpenses.String(),
		"totalOrders":        sess.TotalOrders,
		"endBalance":         end.String(),
	})

	resp := dto.NewSessionResponse(sess)
	return &resp, nil
}

// ── List / GetByID ────────────────────────────────────────────────────────────

func (s *sessionService) List(ctx context.Context, actor Principal) ([]dto.SessionResponse, error) {
	var cashierID *uuid.UUID
	if !actor.Manager() {
		id := actor.ID
		cashierID = &id
	}
	sessions, err := s.sessions.List(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, dto.NewSessionResponse(&sessions[i]))
	}
	return resp, nil
}

func (s *sessionService) GetByID(ctx context.Context, actor Principal, id uuid.UUID) (*dto.SessionResponse, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.CashierID != actor.ID && !actor.Manager() {
		return nil, ErrPermissionDenied
	}
	if sess.Status == model.SessionOpen {
		if err := s.overlayTotals(ctx, sess); err != nil {
			return nil, err
		}
	}
	resp := dto.NewSessionResponse(sess)
	return &resp, nil
}

// ── NoteLogin ─────────────────────────────────────────────────────────────────

func (s *sessionService) NoteLogin(ctx context.Context, userID uuid.UUID) {
	sess, err := s.sessions.FindOpenByCashier(ctx, userID)
	if err != nil {
		return
	}
	s.appendOperation(ctx, sess.ID, userID, model.OpUserLogin, nil)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *sessionService) overlayTotals(ctx context.Context, sess *model.Session) error {
	totals, err := s.orders.SumBySession(ctx, sess.ID)
	if err != nil {
		return err
	}
	sess.TotalSales = totals.TotalSales
	sess.TotalCashCollected = totals.TotalCashCollected
	sess.TotalOrders = totals.TotalOrders
	return nil
}

// appendOperation records an audit entry. Audit writes never fail the
// business operation that triggered them.
func (s *sessionService) appendOperation(ctx context.Context, sessionID, actorID uuid.UUID, opType string, details map[string]any) {
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
