package booking

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagebistro/reservation-app/availability"
	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/stubbackend"
)

func setupFlowTest(t *testing.T) (*store.BookingStore, models.Table, func()) {
	gin.SetMode(gin.TestMode)

	stub, err := stubbackend.New("test-secret")
	require.NoError(t, err)
	table, err := stub.SeedTable("A1", 4)
	require.NoError(t, err)

	srv := httptest.NewServer(stub.Router())
	api := client.New(srv.URL, nil)
	bookings := store.NewBookingStore(api, time.Minute)
	bookings.Refresh(context.Background())

	return bookings, table, srv.Close
}

func TestSubmitCommitsBooking(t *testing.T) {
	bookings, table, done := setupFlowTest(t)
	defer done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	flow := NewFlow(bookings)
	flow.Select(table, "14:00", date)
	assert.Equal(t, StateSelecting, flow.State())

	outcome, created, err := flow.Submit(context.Background(), validForm())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
	assert.Equal(t, StateCommitted, flow.State())
	assert.Equal(t, models.BookingStatusConfirmed, created.Status)
	assert.NotEmpty(t, created.ID)

	// The store refetched; the committed slot is now occupied.
	assert.True(t, availability.IsSlotBooked(bookings.BookingsFor(date), table.ID, "14:00", date))

	// Selection cleared after commit.
	_, slot, _ := flow.Selection()
	assert.Empty(t, slot)
}

func TestSubmitConflictResyncsAndReturnsToSelecting(t *testing.T) {
	bookings, table, done := setupFlowTest(t)
	defer done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	// First customer wins the slot.
	first := NewFlow(bookings)
	first.Select(table, "14:00", date)
	outcome, _, err := first.Submit(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, OutcomeCommitted, outcome)

	// Second customer submits against a stale snapshot of the same slot.
	second := NewFlow(bookings)
	second.Select(table, "14:00", date)
	form := validForm()
	form.CustomerName = "Grace Hopper"
	outcome, _, err = second.Submit(context.Background(), form)

	assert.Equal(t, OutcomeConflict, outcome)
	assert.True(t, client.IsConflict(err))
	// Back to selecting so another slot can be chosen.
	assert.Equal(t, StateSelecting, second.State())
	// Forced resync: the slot renders as booked from the refreshed cache.
	assert.True(t, availability.IsSlotBooked(bookings.BookingsFor(date), table.ID, "14:00", date))

	// A different slot on the same table still goes through.
	second.Select(table, "15:00", date)
	outcome, _, err = second.Submit(context.Background(), form)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, outcome)
}

func TestSubmitValidationFailureSendsNothing(t *testing.T) {
	bookings, table, done := setupFlowTest(t)
	// Close the upstream; an invalid form must fail before any network call.
	done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	flow := NewFlow(bookings)
	flow.Select(table, "14:00", date)

	form := validForm()
	form.CustomerPhone = "12345"
	outcome, _, err := flow.Submit(context.Background(), form)

	assert.Equal(t, OutcomeInvalid, outcome)
	assert.ErrorIs(t, err, ErrPhoneFormat)
	assert.Equal(t, StateSelecting, flow.State())
}

func TestSubmitNetworkFailureKeepsSelection(t *testing.T) {
	bookings, table, done := setupFlowTest(t)
	done() // upstream gone

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	flow := NewFlow(bookings)
	flow.Select(table, "14:00", date)

	outcome, _, err := flow.Submit(context.Background(), validForm())
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Error(t, err)
	assert.False(t, client.IsConflict(err))

	// Selection survives for a retry.
	assert.Equal(t, StateSelecting, flow.State())
	selTable, slot, selDate := flow.Selection()
	assert.Equal(t, table.ID, selTable.ID)
	assert.Equal(t, "14:00", slot)
	assert.Equal(t, date, selDate)
}

func TestSubmitWithoutSelection(t *testing.T) {
	bookings, _, done := setupFlowTest(t)
	defer done()

	flow := NewFlow(bookings)
	outcome, _, err := flow.Submit(context.Background(), validForm())
	assert.Equal(t, OutcomeInvalid, outcome)
	assert.ErrorIs(t, err, ErrNoSelection)
}
