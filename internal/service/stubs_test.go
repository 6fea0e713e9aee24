package service

// In-memory repository stubs shared by the service tests. They mirror
// the SQL semantics the real repositories rely on: the partial unique
// index on open sessions, the compare-and-swap counter persist, and the
// floor-at-zero aggregate deltas.

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/altyebv/restaurant-pos-system/internal/model"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

// ── Sessions ─────────────────────────────────────────────────────────────────

type memSessionRepo struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*model.Session
	expenses   []model.Expense
	operations []model.Operation
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Status == model.SessionOpen {
		for _, existing := range r.sessions {
			if existing.CashierID == s.CashierID && existing.Status == model.SessionOpen {
				return repository.ErrDuplicateKey
			}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withRelations(s), nil
}

func (r *memSessionRepo) FindOpenByCashier(_ context.Context, cashierID uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.CashierID == cashierID && s.Status == model.SessionOpen {
			return r.withRelations(s), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memSessionRepo) FindLastClosedByCashier(_ context.Context, cashierID uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *model.Session
	for _, s := range r.sessions {
		if s.CashierID != cashierID || s.Status != model.SessionClosed || s.EndedAt == nil {
			continue
		}
		if last == nil || s.EndedAt.After(*last.EndedAt) {
			last = s
		}
	}
	if last == nil {
		return nil, repository.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (r *memSessionRepo) Update(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.Expenses = nil
	cp.Operations = nil
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) List(_ context.Context, cashierID *uuid.UUID) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.sessions {
		if cashierID != nil && s.CashierID != *cashierID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSessionRepo) AppendExpense(_ context.Context, e *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *memSessionRepo) AppendOperation(_ context.Context, op *model.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	op.CreatedAt = time.Now()
	r.operations = append(r.operations, *op)
	return nil
}

func (r *memSessionRepo) IncrementExpenses(_ context.Context, sessionID uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	s.TotalExpenses = s.TotalExpenses.Add(amount)
	return nil
}

func (r *memSessionRepo) ApplyOrderDelta(_ context.Context, sessionID uuid.UUID, d repository.OrderDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	orders := s.TotalOrders + d.Orders
	sales := s.TotalSales.Add(d.Sales)
	cash := s.TotalCashCollected.Add(d.Cash)
	if d.Floor {
		if orders < 0 {
			orders = 0
		}
		if sales.IsNegative() {
			sales = decimal.Zero
		}
		if cash.IsNegative() {
			cash = decimal.Zero
		}
	}
	s.TotalOrders = orders
	s.TotalSales = sales
	s.TotalCashCollected = cash
	return nil
}

func (r *memSessionRepo) PersistCounter(_ context.Context, sessionID uuid.UUID, prev, next int, lastOrderDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.OrderCounter != prev {
		return repository.ErrStaleCounter
	}
	s.OrderCounter = next
	t := lastOrderDate
	s.LastOrderDate = &t
	return nil
}

func (r *memSessionRepo) DB() *gorm.DB { return nil }

// withRelations returns a copy with expenses and operations attached.
// Callers must hold r.mu.
func (r *memSessionRepo) withRelations(s *model.Session) *model.Session {
	cp := *s
	cp.Expenses = nil
	cp.Operations = nil
	for _, e := range r.expenses {
		if e.SessionID == s.ID {
			cp.Expenses = append(cp.Expenses, e)
		}
	}
	for _, op := range r.operations {
		if op.SessionID == s.ID {
			cp.Operations = append(cp.Operations, op)
		}
	}
	return &cp
}

func (r *memSessionRepo) operationsOfType(sessionID uuid.UUID, opType string) []model.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Operation
	for _, op := range r.operations {
		if op.SessionID == sessionID && op.Type == opType {
			out = append(out, op)
		}
	}
	return out
}

// ── Orders ───────────────────────────────────────────────────────────────────

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.Order
	edits  []model.OrderEdit
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrDuplicateKey
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Save(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withEdits(o), nil
}

func (r *memOrderRepo) FindByNumber(_ context.Context, number string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return r.withEdits(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memOrderRepo) NumberExists(_ context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrderRepo) ApplyEdit(_ context.Context, o *model.Order, edit *model.OrderEdit, newItems []model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	cp.Items = newItems
	r.orders[o.ID] = &cp
	if edit.ID == uuid.Nil {
		edit.ID = uuid.New()
	}
	r.edits = append(r.edits, *edit)
	return nil
}

func (r *memOrderRepo) ListBySession(_ context.Context, sessionID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	all := r.bySession(sessionID, nil)
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memOrderRepo) ListRecent(_ context.Context, sessionID uuid.UUID, limit int) ([]model.Order, error) {
	statuses := map[string]bool{model.OrderCompleted: true, model.OrderRefunded: true}
	all := r.bySession(sessionID, statuses)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memOrderRepo) SumBySession(_ context.Context, sessionID uuid.UUID) (repository.SessionTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := repository.SessionTotals{
		TotalSales:         decimal.Zero,
		TotalCashCollected: decimal.Zero,
	}
	for _, o := range r.orders {
		if o.SessionID == nil || *o.SessionID != sessionID || o.Status != model.OrderCompleted {
			continue
		}
		totals.TotalOrders++
		totals.TotalSales = totals.TotalSales.Add(o.Bills.TotalWithTax)
		if o.PaymentMethod == model.PaymentCash {
			totals.TotalCashCollected = totals.TotalCashCollected.Add(o.Bills.TotalWithTax)
		}
	}
	return totals, nil
}

func (r *memOrderRepo) DB() *gorm.DB { return nil }

// bySession returns the session's orders newest-first, optionally
// filtered by status.
func (r *memOrderRepo) bySession(sessionID uuid.UUID, statuses map[string]bool) []model.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if o.SessionID == nil || *o.SessionID != sessionID {
			continue
		}
		if statuses != nil && !statuses[o.Status] {
			continue
		}
		out = append(out, *o)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// withEdits returns a copy with edit history attached. Callers must hold r.mu.
func (r *memOrderRepo) withEdits(o *model.Order) *model.Order {
	cp := *o
	cp.Edits = nil
	for _, e := range r.edits {
		if e.OrderID == o.ID {
			cp.Edits = append(cp.Edits, e)
		}
	}
	return &cp
}
