// Package availability decides which (table, slot) pairs are bookable on a
// given date. Every function is a pure computation over a bookings snapshot:
// feeding the same tables, bookings and date twice yields the same answer.
package availability

import "github.com/sagebistro/reservation-app/models"

// TimeSlots is the canonical booking grid: 14 hourly slots, 10:00 through
// 23:00. Every booking_time in the system must be one of these values.
var TimeSlots = []string{
	"10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
	"18:00", "19:00", "20:00", "21:00",
	"22:00", "23:00",
}

// IsValidSlot reports whether slot is one of the canonical values.
func IsValidSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// IsSlotBooked reports whether a non-completed booking claims the
// (tableID, date, slot) triple. Dates compare string-exact: "2025-01-01" and
// "2025-1-1" are different keys, so callers canonicalize to ISO form first.
func IsSlotBooked(bookings []models.Booking, tableID, slot, date string) bool {
	for _, b := range bookings {
		if b.TableID == tableID && b.BookingDate == date && b.BookingTime == slot && b.Occupies() {
			return true
		}
	}
	return false
}

// TableHasAvailability reports whether at least one slot on the table is still
// free for the date. A table with no bookings at all is fully available.
func TableHasAvailability(bookings []models.Booking, tableID, date string) bool {
	for _, slot := range TimeSlots {
		if !IsSlotBooked(bookings, tableID, slot, date) {
			return true
		}
	}
	return false
}

// TableBookings returns the bookings still occupying any slot on the table,
// regardless of date.
func TableBookings(bookings []models.Booking, tableID string) []models.Booking {
	var matched []models.Booking
	for _, b := range bookings {
		if b.TableID == tableID && b.Occupies() {
			matched = append(matched, b)
		}
	}
	return matched
}

// AvailableSlots lists the canonical slots not occupied on the table for the
// date, preserving catalog order.
func AvailableSlots(bookings []models.Booking, tableID, date string) []string {
	free := make([]string, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		if !IsSlotBooked(bookings, tableID, slot, date) {
			free = append(free, slot)
		}
	}
	return free
}
