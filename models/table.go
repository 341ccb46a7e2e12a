package models

// Table statuses are advisory labels for the dashboard. Slot availability is
// always derived from bookings, never from this field.
const (
	TableStatusAvailable = "available"
	TableStatusBooked    = "booked"
)

type Table struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TableNumber string `json:"table_number" gorm:"type:varchar(50);not null"`
	Capacity    int    `json:"capacity" gorm:"not null"`
	Status      string `json:"status" gorm:"type:varchar(50);not null;default:'available'"`
	CreatedAt   string `json:"created_at" gorm:"type:varchar(40)"`
	UpdatedAt   string `json:"updated_at" gorm:"type:varchar(40)"`
}
