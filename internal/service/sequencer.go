package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

const (
	// maxNumberAttempts bounds the probe for a free order number before
	// giving up. Collisions only happen against orders imported from an
	// earlier system, so in practice the first probe wins.
	maxNumberAttempts = 10

	// casRetries bounds how many times we re-read the session after a
	// lost compare-and-swap on the counter.
	casRetries = 3
)

// OrderSequencer hands out per-cashier daily order numbers of the form
// CODE-NNN. Numbers reset each calendar day and are unique across all
// orders ever recorded.
type OrderSequencer interface {
	GenerateOrderNumber(ctx context.Context, actor Principal) (string, int, error)
}

type orderSequencer struct {
	sessions repository.SessionRepository
	orders   repository.OrderRepository
	locker   SessionLocker
	now      func() time.Time
}

func NewOrderSequencer(sessions repository.SessionRepository, orders repository.OrderRepository, locker SessionLocker) OrderSequencer {
	return &orderSequencer{sessions: sessions, orders: orders, locker: locker, now: time.Now}
}

func (s *orderSequencer) GenerateOrderNumber(ctx context.Context, actor Principal) (string, int, error) {
	open, err := s.sessions.FindOpenByCashier(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", 0, ErrNoOpenSession
	}
	if err != nil {
		return "", 0, err
	}

	var number string
	var seq int
	err = s.locker.WithLock(ctx, "session:"+open.ID.String(), func() error {
		for attempt := 0; attempt < casRetries; attempt++ {
			sess, err := s.sessions.FindByID(ctx, open.ID)
			if err != nil {
				return err
			}

			now := s.now()
			counter := sess.OrderCounter + 1
			if newOrderDay(sess.LastOrderDate, now) {
				counter = 1
			}

			candidate := FormatOrderNumber(actor.CashierCode, counter)
			probes := 1
			for {
				exists, err := s.orders.NumberExists(ctx, candidate)
				if err != nil {
					return err
				}
				if !exists {
					break
				}
				if probes >= maxNumberAttempts {
					return ErrOrderNumberExhausted
				}
				counter++
				probes++
				candidate = FormatOrderNumber(actor.CashierCode, counter)
			}

			err = s.sessions.PersistCounter(ctx, sess.ID, sess.OrderCounter, counter, now)
			if errors.Is(err, repository.ErrStaleCounter) {
				log.Debug().Str("session_id", sess.ID.String()).Msg("order counter moved, retrying")
				continue
			}
			if err != nil {
				return err
			}

			number = candidate
			seq = counter
			return nil
		}
		return repository.ErrStaleCounter
	})
	if err != nil {
		return "", 0, err
	}
	return number, seq, nil
}

// FormatOrderNumber renders an order number like "A1-007".
func FormatOrderNumber(cashierCode string, counter int) string {
	return fmt.Sprintf("%s-%03d", cashierCode, counter)
}

// newOrderDay reports whether now falls on a later calendar day than the
// session's last order. A session that never issued an order starts at 1.
func newOrderDay(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	ly, lm, ld := last.Local().Date()
	ny, nm, nd := now.Local().Date()
	return ly != ny || lm != nm || ld != nd
}
