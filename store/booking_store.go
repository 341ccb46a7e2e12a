// Package store holds the in-memory copies of upstream state this service
// renders from. The upstream database stays authoritative; these caches are
// refreshed by polling and replaced wholesale on every successful fetch.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/utils"
)

const (
	// CustomerPollInterval is the refresh cadence of the public booking page.
	CustomerPollInterval = 30 * time.Second
	// AdminPollInterval is the tighter cadence of the dashboard views.
	AdminPollInterval = 10 * time.Second
)

// BookingStore caches the upstream booking list. Reads never block on the
// network; writes go upstream first and then force a full refetch, because the
// cache carries no conflict-resolution logic of its own.
type BookingStore struct {
	api    *client.Client
	poller *poller

	// gen numbers every issued fetch. A response is applied only while its
	// generation is still the newest issued, so a slow in-flight fetch can
	// never overwrite the result of a later one.
	gen atomic.Uint64

	mu       sync.RWMutex
	bookings []models.Booking
	date     string
	lastErr  error

	// OnError receives non-fatal fetch failures (the cache stays stale but
	// usable). Authorization failures never reach it; they stop polling
	// silently instead, since anonymous viewers are expected to lack access.
	OnError func(error)
}

func NewBookingStore(api *client.Client, interval time.Duration) *BookingStore {
	s := &BookingStore{api: api}
	s.poller = newPoller(interval, s.refresh)
	return s
}

// Start fetches immediately and then polls every interval.
func (s *BookingStore) Start(ctx context.Context) {
	s.poller.start(ctx)
}

func (s *BookingStore) Stop() {
	s.poller.stop()
}

// Pause suspends the ticker, as the browser does for a backgrounded tab.
func (s *BookingStore) Pause() {
	s.poller.pause()
}

// Resume restarts the ticker and refreshes immediately.
func (s *BookingStore) Resume(ctx context.Context) {
	s.poller.resume(ctx)
}

// SetInterval retimes the poll cadence, e.g. tightening it while the admin
// dashboard is open.
func (s *BookingStore) SetInterval(d time.Duration) {
	s.poller.setInterval(d)
}

// SetDate switches the selected calendar date and refetches right away.
func (s *BookingStore) SetDate(ctx context.Context, date string) {
	s.mu.Lock()
	s.date = date
	s.mu.Unlock()
	s.Refresh(ctx)
}

func (s *BookingStore) Date() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

// Bookings returns a copy of the full cached list.
func (s *BookingStore) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// BookingsFor returns the cached bookings whose booking_date equals date,
// compared string-exact.
func (s *BookingStore) BookingsFor(date string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.BookingDate == date {
			out = append(out, b)
		}
	}
	return out
}

// LastError returns the most recent fetch failure, nil after any success.
func (s *BookingStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresh forces a fetch outside the polling schedule.
func (s *BookingStore) Refresh(ctx context.Context) {
	s.refresh(ctx)
}

func (s *BookingStore) refresh(ctx context.Context) {
	gen := s.gen.Add(1)

	bookings, err := s.api.ListBookings(ctx)

	if gen != s.gen.Load() {
		// A newer fetch was issued while this one was in flight; its outcome,
		// success or failure, is obsolete.
		return
	}

	if err != nil {
		if client.IsUnauthorized(err) {
			// Expected for anonymous viewers; stop hammering the endpoint
			// and keep quiet.
			utils.InfoLogger.Printf("booking poll unauthorized, stopping poller")
			s.poller.stop()
			return
		}
		utils.ErrorLogger.Printf("failed to fetch bookings: %v", err)
		s.mu.Lock()
		if gen != s.gen.Load() {
			s.mu.Unlock()
			return
		}
		s.lastErr = err
		s.mu.Unlock()
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		return
	}
	s.bookings = bookings
	s.lastErr = nil
}

// Create submits a booking upstream and refetches the list. A conflict also
// refetches, so the caller's next availability read already shows the slot as
// taken by the competing booking.
func (s *BookingStore) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	created, err := s.api.CreateBooking(ctx, booking)
	if err == nil || client.IsConflict(err) {
		s.refresh(ctx)
	}
	return created, err
}

// MarkCompleted releases the booking's slot and refetches. On failure the
// booking keeps its prior status and the error is returned once; no retry.
func (s *BookingStore) MarkCompleted(ctx context.Context, bookingID string) error {
	if _, err := s.api.CompleteBooking(ctx, bookingID); err != nil {
		utils.ErrorLogger.Printf("failed to complete booking %s: %v", bookingID, err)
		return err
	}
	s.refresh(ctx)
	return nil
}

// CompleteByTable releases every booking on the table in one upstream call,
// then refetches.
func (s *BookingStore) CompleteByTable(ctx context.Context, tableID string) error {
	if err := s.api.CompleteBookingsByTable(ctx, tableID); err != nil {
		utils.ErrorLogger.Printf("failed to release table %s: %v", tableID, err)
		return err
	}
	s.refresh(ctx)
	return nil
}

// DeleteByTable removes every booking on the table upstream, then refetches.
// Used when the table itself is being removed, so no orphaned records linger.
func (s *BookingStore) DeleteByTable(ctx context.Context, tableID string) error {
	if err := s.api.DeleteBookingsByTable(ctx, tableID); err != nil {
		utils.ErrorLogger.Printf("failed to delete bookings for table %s: %v", tableID, err)
		return err
	}
	s.refresh(ctx)
	return nil
}

// Delete removes a booking upstream and refetches.
func (s *BookingStore) Delete(ctx context.Context, bookingID string) error {
	if err := s.api.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// Polling reports whether the ticker loop is still live (false after Stop or
// an authorization failure).
func (s *BookingStore) Polling() bool {
	return s.poller.isRunning()
}
