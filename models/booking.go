package models

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking dates and times travel as plain strings: booking_date is an ISO
// calendar date ("2006-01-02") and booking_time one of the canonical hourly
// slots ("HH:00"). Comparisons are string-exact, so producers must emit the
// canonical form.
type Booking struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TableID         string `json:"table_id" gorm:"type:varchar(36);index;not null"`
	CustomerName    string `json:"customer_name" gorm:"type:varchar(100);not null"`
	CustomerEmail   string `json:"customer_email" gorm:"type:varchar(100);not null"`
	CustomerPhone   string `json:"customer_phone" gorm:"type:varchar(20);not null"`
	NumberOfGuests  int    `json:"number_of_guests" gorm:"not null"`
	BookingDate     string `json:"booking_date" gorm:"type:varchar(10);index;not null"`
	BookingTime     string `json:"booking_time" gorm:"type:varchar(5);not null"`
	SpecialRequests string `json:"special_requests,omitempty" gorm:"type:text"`
	Status          string `json:"status,omitempty" gorm:"type:varchar(20);default:'confirmed'"`
	CreatedAt       string `json:"created_at" gorm:"type:varchar(40)"`
	CompletedAt     string `json:"completed_at,omitempty" gorm:"type:varchar(40)"`
}

// Occupies reports whether the booking still claims its
// (table_id, booking_date, booking_time) triple. Only completed bookings
// release their slot; cancelled ones keep occupying it, matching the
// production behavior this service fronts.
func (b Booking) Occupies() bool {
	return b.Status != BookingStatusCompleted
}
