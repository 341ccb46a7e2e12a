package booking

import (
	"context"
	"sync"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/utils"
)

// User-facing messages for the two submission failure classes.
const (
	ConflictMessage = "This time slot is already booked for the selected table. Please choose a different time slot."
	RetryMessage    = "Failed to submit booking. Please try again."
)

type State int

const (
	StateIdle State = iota
	StateSelecting
	StateSubmitting
	StateCommitted
)

type Outcome int

const (
	// OutcomeInvalid: validation failed, nothing was transmitted.
	OutcomeInvalid Outcome = iota
	// OutcomeCommitted: the upstream accepted the booking.
	OutcomeCommitted
	// OutcomeConflict: the slot was taken between the last refresh and this
	// submission; the cache has been resynced.
	OutcomeConflict
	// OutcomeFailed: network or server failure; the form stays intact.
	OutcomeFailed
)

// Flow is one customer's booking attempt. The client never reserves a slot
// before submitting: it trusts the last-fetched availability snapshot,
// attempts the write, and reconciles on a conflict answer instead of locking
// anything up front.
type Flow struct {
	bookings *store.BookingStore

	mu    sync.Mutex
	state State
	table models.Table
	slot  string
	date  string
}

func NewFlow(bookings *store.BookingStore) *Flow {
	return &Flow{bookings: bookings}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selection returns the current provisional (table, slot, date) choice.
func (f *Flow) Selection() (models.Table, string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.table, f.slot, f.date
}

// Select records a provisional choice and opens the form. Re-selecting a
// different table drops any previously chosen slot.
func (f *Flow) Select(table models.Table, slot, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.table.ID != table.ID {
		f.slot = ""
	}
	f.table = table
	if slot != "" {
		f.slot = slot
	}
	f.date = date
	f.state = StateSelecting
}

// Cancel abandons the attempt and clears the selection.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = models.Table{}
	f.slot = ""
	f.date = ""
	f.state = StateIdle
}

// Submit validates the form and sends the booking upstream.
//
//   - Invalid form: no network call, selection kept.
//   - Accepted: selection cleared, booking list already refetched.
//   - Conflict (409): booking list refetched so the stale slot now renders as
//     booked; back to selecting for another slot.
//   - Anything else: back to selecting with the form data intact.
func (f *Flow) Submit(ctx context.Context, form Form) (Outcome, models.Booking, error) {
	f.mu.Lock()
	if f.state != StateSelecting {
		f.mu.Unlock()
		return OutcomeInvalid, models.Booking{}, ErrNoSelection
	}
	table, slot, date := f.table, f.slot, f.date
	f.mu.Unlock()

	candidate, err := form.Validate(table, slot, date)
	if err != nil {
		return OutcomeInvalid, models.Booking{}, err
	}

	f.setState(StateSubmitting)

	created, err := f.bookings.Create(ctx, candidate)
	switch {
	case err == nil:
		utils.InfoLogger.Printf("booking committed: table=%s date=%s time=%s", table.ID, date, slot)
		f.Cancel()
		f.setState(StateCommitted)
		return OutcomeCommitted, created, nil

	case client.IsConflict(err):
		// The store already refetched, so the competing booking is visible.
		utils.InfoLogger.Printf("booking conflict: table=%s date=%s time=%s", table.ID, date, slot)
		f.setState(StateSelecting)
		return OutcomeConflict, models.Booking{}, err

	default:
		utils.ErrorLogger.Printf("booking submission failed: %v", err)
		f.setState(StateSelecting)
		return OutcomeFailed, models.Booking{}, err
	}
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}
