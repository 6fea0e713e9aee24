package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altyebv/restaurant-pos-system/internal/model"
)

func newSequencerFixtures(now func() time.Time) (*memSessionRepo, *memOrderRepo, *orderSequencer) {
	sessions := newMemSessionRepo()
	orders := newMemOrderRepo()
	seq := &orderSequencer{
		sessions: sessions,
		orders:   orders,
		locker:   NewLocalLocker(),
		now:      now,
	}
	return sessions, orders, seq
}

func openTestSession(t *testing.T, sessions *memSessionRepo, actor Principal, counter int, lastOrder *time.Time) uuid.UUID {
	t.Helper()
	s := &model.Session{
		CashierID:     actor.ID,
		Status:        model.SessionOpen,
		OrderCounter:  counter,
		LastOrderDate: lastOrder,
		StartedAt:     time.Now(),
	}
	require.NoError(t, sessions.Create(context.Background(), s))
	return s.ID
}

func TestSequencerFirstNumber(t *testing.T) {
	actor := cashier()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	sessions, _, seq := newSequencerFixtures(func() time.Time { return now })
	openTestSession(t, sessions, actor, 0, nil)

	number, n, err := seq.GenerateOrderNumber(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "A1-001", number)
	assert.Equal(t, 1, n)
}

func TestSequencerIncrementsWithinDay(t *testing.T) {
	actor := cashier()
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)
	earlier := now.Add(-2 * time.Hour)
	sessions, _, seq := newSequencerFixtures(func() time.Time { return now })
	openTestSession(t, sessions, actor, 41, &earlier)

	number, n, err := seq.GenerateOrderNumber(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "A1-042", number)
	assert.Equal(t, 42, n)
}

func TestSequencerResetsOnNewDay(t *testing.T) {
	actor := cashier()
	now := time.Date(2026, 3, 15, 0, 5, 0, 0, time.Local)
	yesterday := now.Add(-30 * time.Minute) // 23:35 the previous day
	sessions, _, seq := newSequencerFixtures(func() time.Time { return now })
	sessionID := openTestSession(t, sessions, actor, 41, &yesterday)

	number, n, err := seq.GenerateOrderNumber(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "A1-001", number)
	assert.Equal(t, 1, n)

	stored, err := sessions.FindByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.OrderCounter)
	require.NotNil(t, stored.LastOrderDate)
	assert.True(t, stored.LastOrderDate.Equal(now))
}

func TestSequencerNoOpenSession(t *testing.T) {
	_, _, seq := newSequencerFixtures(time.Now)

	_, _, err := seq.GenerateOrderNumber(context.Background(), cashier())
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestSequencerSkipsTakenNumbers(t *testing.T) {
	actor := cashier()
	sessions, orders, seq := newSequencerFixtures(time.Now)
	sessionID := openTestSession(t, sessions, actor, 0, nil)

	// Imported orders already occupy the first three numbers.
	for i := 1; i <= 3; i++ {
		seedOrder(t, orders, sessionID, actor.ID, FormatOrderNumber("A1", i), "10.00", model.PaymentCash, model.OrderCompleted)
	}

	number, n, err := seq.GenerateOrderNumber(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "A1-004", number)
	assert.Equal(t, 4, n)
}

func TestSequencerGivesUpAfterTenProbes(t *testing.T) {
	actor := cashier()
	sessions, orders, seq := newSequencerFixtures(time.Now)
	sessionID := openTestSession(t, sessions, actor, 0, nil)

	for i := 1; i <= maxNumberAttempts; i++ {
		seedOrder(t, orders, sessionID, actor.ID, FormatOrderNumber("A1", i), "10.00", model.PaymentCash, model.OrderCompleted)
	}

	_, _, err := seq.GenerateOrderNumber(context.Background(), actor)
	assert.ErrorIs(t, err, ErrOrderNumberExhausted)
}

func TestSequencerConcurrentGeneration(t *testing.T) {
	actor := cashier()
	sessions, orders, seq := newSequencerFixtures(time.Now)
	sessionID := openTestSession(t, sessions, actor, 0, nil)

	const n = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make(map[string]bool)
	errs := make([]error, 0)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, _, err := seq.GenerateOrderNumber(context.Background(), actor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if numbers[number] {
				errs = append(errs, fmt.Errorf("duplicate number %s", number))
				return
			}
			numbers[number] = true
			// Claim the number the way OrderService.Add would.
			amount := dec("10.00")
			if err := orders.Create(context.Background(), &model.Order{
				OrderNumber:   number,
				Bills:         model.Bills{Total: amount, TotalWithTax: amount},
				PaymentMethod: model.PaymentCash,
				CashierID:     actor.ID,
				SessionID:     &sessionID,
				Status:        model.OrderCompleted,
			}); err != nil {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, n)

	stored, err := sessions.FindByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.OrderCounter)
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "A1-001", FormatOrderNumber("A1", 1))
	assert.Equal(t, "B12-042", FormatOrderNumber("B12", 42))
	assert.Equal(t, "C3-1000", FormatOrderNumber("C3", 1000))
}

func TestNewOrderDay(t *testing.T) {
	assert.True(t, newOrderDay(nil, time.Now()))

	sameDay := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	later := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	assert.False(t, newOrderDay(&sameDay, later))

	nextDay := time.Date(2026, 3, 15, 0, 0, 1, 0, time.Local)
	assert.True(t, newOrderDay(&sameDay, nextDay))
}
