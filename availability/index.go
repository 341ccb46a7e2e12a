package availability

import "github.com/sagebistro/reservation-app/models"

type slotKey struct {
	tableID string
	date    string
	slot    string
}

// Index is an occupancy map over one bookings snapshot. It answers the same
// questions as the linear scans, in O(1) per slot, for callers that evaluate
// every table against the full grid on each refresh. Rebuild it whenever the
// snapshot changes; it holds no state of its own beyond the map.
type Index struct {
	occupied map[slotKey]models.Booking
}

func NewIndex(bookings []models.Booking) *Index {
	idx := &Index{occupied: make(map[slotKey]models.Booking, len(bookings))}
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		idx.occupied[slotKey{tableID: b.TableID, date: b.BookingDate, slot: b.BookingTime}] = b
	}
	return idx
}

// SlotBooking returns the booking occupying the triple, if any.
func (idx *Index) SlotBooking(tableID, slot, date string) (models.Booking, bool) {
	b, ok := idx.occupied[slotKey{tableID: tableID, date: date, slot: slot}]
	return b, ok
}

func (idx *Index) SlotBooked(tableID, slot, date string) bool {
	_, ok := idx.SlotBooking(tableID, slot, date)
	return ok
}

func (idx *Index) TableHasAvailability(tableID, date string) bool {
	for _, slot := range TimeSlots {
		if !idx.SlotBooked(tableID, slot, date) {
			return true
		}
	}
	return false
}

func (idx *Index) AvailableSlots(tableID, date string) []string {
	free := make([]string, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		if !idx.SlotBooked(tableID, slot, date) {
			free = append(free, slot)
		}
	}
	return free
}
