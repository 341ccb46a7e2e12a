package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sagebistro/reservation-app/models"
)

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking submits a new booking. The id is generated client side and the
// record is stamped confirmed, matching the upstream contract; the server's
// uniqueness check on (table_id, booking_date, booking_time) remains the sole
// arbiter and answers 409 when the slot was taken concurrently.
func (c *Client) CreateBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}

	var created models.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", booking, &created); err != nil {
		return models.Booking{}, err
	}
	if created.ID == "" {
		created = booking
	}
	return created, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id string, updates map[string]interface{}) (models.Booking, error) {
	body := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		body[k] = v
	}
	body["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	var updated models.Booking
	if err := c.do(ctx, http.MethodPut, "/api/bookings/"+id, body, &updated); err != nil {
		return models.Booking{}, err
	}
	return updated, nil
}

// CompleteBooking releases the booking's slot while keeping the record for
// history.
func (c *Client) CompleteBooking(ctx context.Context, id string) (models.Booking, error) {
	return c.UpdateBooking(ctx, id, map[string]interface{}{
		"status":       models.BookingStatusCompleted,
		"completed_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+id, nil, nil)
}

func (c *Client) DeleteBookingsByTable(ctx context.Context, tableID string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/table/"+tableID, nil, nil)
}

// CompleteBookingsByTable marks every booking on the table completed in one
// call, the admin "release table" action.
func (c *Client) CompleteBookingsByTable(ctx context.Context, tableID string) error {
	body := map[string]interface{}{"status": models.BookingStatusCompleted}
	return c.do(ctx, http.MethodPut, "/api/bookings/table/"+tableID, body, nil)
}
