// Package sweeper runs the periodic auto-completion pass: bookings
// still CONFIRMED after their end time has elapsed are transitioned to
// COMPLETED.  The sweep is idempotent because completion is a
// conditional versioned update, so running two sweeps concurrently
// (or a sweep against a user who just acted on the same booking) can
// never double-apply an effect – the loser of the race simply skips.
package sweeper

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
	"github.com/sonamoo/counsel-scheduling/internal/scheduling"
)

// Ledger is the slice of the booking repository the sweeper needs.
type Ledger interface {
	FindExpiredConfirmed(ctx context.Context, scope model.TenantScope, today time.Time, now model.TimeOfDay) ([]model.Booking, error)
}

// Completer applies the completion transition.  Implemented by
// scheduling.Service; the sweeper goes through the same state machine
// as interactive callers rather than writing statuses directly.
type Completer interface {
	Complete(ctx context.Context, scope model.TenantScope, id uint64) (*model.Booking, error)
}

// Sweeper scans for past-due confirmed bookings on a fixed interval.
// Each row is processed independently under its own timeout, so one
// stuck row cannot stall the rest of the sweep, and per-row failures
// are counted and logged but never abort the pass.
type Sweeper struct {
	ledger     Ledger
	completer  Completer
	interval   time.Duration
	rowTimeout time.Duration
	now        func() time.Time
}

// New constructs a Sweeper.  interval is the cadence between passes
// and rowTimeout bounds each per-booking completion attempt.
func New(ledger Ledger, completer Completer, interval, rowTimeout time.Duration) *Sweeper {
	if ledger == nil || completer == nil {
		panic("nil dependency passed to sweeper.New")
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if rowTimeout <= 0 {
		rowTimeout = 5 * time.Second
	}
	return &Sweeper{
		ledger:     ledger,
		completer:  completer,
		interval:   interval,
		rowTimeout: rowTimeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the sweeper's notion of "now" for tests.
func (s *Sweeper) SetClock(now func() time.Time) { s.now = now }

// Run sweeps immediately and then on every tick until the context is
// cancelled.  It is meant to be started as a background goroutine from
// main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass and returns how many bookings were
// completed, skipped (lost a race to a concurrent transition) and
// failed.  The expired-row query runs under the explicit all-tenants
// scope: the sweeper is the one system actor allowed to cross tenant
// boundaries, and each completion is then applied under the owning
// tenant's own scope.
func (s *Sweeper) Sweep(ctx context.Context) (completed, skipped, failed int) {
	now := s.now()
	expired, err := s.ledger.FindExpiredConfirmed(ctx, model.AllTenants(), model.DateOnly(now), model.TimeOfDayFrom(now))
	if err != nil {
		log.Printf("sweeper: expired-booking query failed: %v", err)
		return 0, 0, 0
	}
	for i := range expired {
		b := &expired[i]
		switch err := s.completeOne(ctx, b); {
		case err == nil:
			completed++
		case errors.Is(err, scheduling.ErrConcurrentModification):
			// A user-driven transition won the version race; the row is
			// no longer ours to touch.
			skipped++
		case isInvalidTransition(err), errors.Is(err, repository.ErrBookingNotFound):
			// The booking left CONFIRMED (or was soft-deleted) between
			// the query and the completion attempt.
			skipped++
		default:
			failed++
			log.Printf("sweeper: completing booking %d failed: %v", b.ID, err)
		}
	}
	if completed > 0 || failed > 0 {
		log.Printf("sweeper: pass done: completed=%d skipped=%d failed=%d", completed, skipped, failed)
	}
	return completed, skipped, failed
}

// completeOne applies the completion transition for a single booking
// under its own bounded context.
func (s *Sweeper) completeOne(ctx context.Context, b *model.Booking) error {
	rowCtx, cancel := context.WithTimeout(ctx, s.rowTimeout)
	defer cancel()
	_, err := s.completer.Complete(rowCtx, model.ForTenant(b.TenantID), b.ID)
	return err
}

func isInvalidTransition(err error) bool {
	var it *scheduling.InvalidTransition
	return errors.As(err, &it)
}
