// Package booking carries a reservation attempt from slot selection through
// upstream submission, including the conflict path where somebody else took
// the slot first.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sagebistro/reservation-app/availability"
	"github.com/sagebistro/reservation-app/models"
)

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrEmailRequired = errors.New("customer email is required")
	ErrPhoneFormat   = errors.New("phone number must contain exactly 10 digits")
	ErrInvalidSlot   = errors.New("booking time must be one of the offered time slots")
	ErrDateFormat    = errors.New("booking date must be in YYYY-MM-DD format")
	ErrDateInPast    = errors.New("booking date cannot be in the past")
	ErrNoSelection   = errors.New("no table and time slot selected")
)

// Form is the customer-entered half of a booking.
type Form struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests"`
}

// NormalizePhone strips every non-digit character and requires exactly 10
// digits: "123-456-7890" normalizes to "1234567890", "12345" is rejected.
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 10 {
		return "", ErrPhoneFormat
	}
	return digits.String(), nil
}

// Validate checks the form against the selected table, slot and date. This is
// advisory, client-side validation: it blocks obviously bad submissions before
// any network call, while the upstream stays authoritative. On success it
// returns the booking ready for submission, with the phone normalized.
func (f Form) Validate(table models.Table, slot, date string) (models.Booking, error) {
	if strings.TrimSpace(f.CustomerName) == "" {
		return models.Booking{}, ErrNameRequired
	}
	if strings.TrimSpace(f.CustomerEmail) == "" {
		return models.Booking{}, ErrEmailRequired
	}

	phone, err := NormalizePhone(f.CustomerPhone)
	if err != nil {
		return models.Booking{}, err
	}

	if f.NumberOfGuests < 1 || f.NumberOfGuests > table.Capacity {
		return models.Booking{}, fmt.Errorf("number of guests must be between 1 and %d", table.Capacity)
	}

	if !availability.IsValidSlot(slot) {
		return models.Booking{}, ErrInvalidSlot
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.Booking{}, ErrDateFormat
	}
	// Canonical ISO dates order lexicographically, so a plain string compare
	// against today suffices.
	if date < time.Now().Format("2006-01-02") {
		return models.Booking{}, ErrDateInPast
	}

	return models.Booking{
		TableID:         table.ID,
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerEmail:   strings.TrimSpace(f.CustomerEmail),
		CustomerPhone:   phone,
		NumberOfGuests:  f.NumberOfGuests,
		BookingDate:     date,
		BookingTime:     slot,
		SpecialRequests: strings.TrimSpace(f.SpecialRequests),
	}, nil
}
