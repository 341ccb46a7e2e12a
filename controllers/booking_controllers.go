package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/availability"
	"github.com/sagebistro/reservation-app/booking"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/utils"
)

type BookingController struct {
	Tables   *store.TableStore
	Bookings *store.BookingStore
}

func NewBookingController(tables *store.TableStore, bookings *store.BookingStore) *BookingController {
	return &BookingController{Tables: tables, Bookings: bookings}
}

// tableAvailability is one row of the availability grid the booking page
// renders from.
type tableAvailability struct {
	Table          models.Table `json:"table"`
	Available      bool         `json:"available"`
	AvailableSlots []string     `json:"available_slots"`
}

// GetAvailability -> the (table, slot) grid for a date; defaults to today.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be in YYYY-MM-DD format"))
		return
	}

	idx := availability.NewIndex(bc.Bookings.BookingsFor(date))

	tables := bc.Tables.Tables()
	grid := make([]tableAvailability, 0, len(tables))
	for _, t := range tables {
		grid = append(grid, tableAvailability{
			Table:          t,
			Available:      idx.TableHasAvailability(t.ID, date),
			AvailableSlots: idx.AvailableSlots(t.ID, date),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Availability for "+date, gin.H{
		"date":       date,
		"time_slots": availability.TimeSlots,
		"tables":     grid,
	})
}

type createBookingRequest struct {
	TableID     string `json:"table_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	BookingTime string `json:"booking_time" binding:"required"`
	booking.Form
}

// CreateBooking -> submit a reservation against the last-fetched availability
// snapshot. An upstream conflict comes back as 409 with the advice message;
// by then the cache has been resynced so the next grid render shows the slot
// as taken.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, ok := bc.Tables.TableByID(req.TableID)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("unknown table"))
		return
	}

	flow := booking.NewFlow(bc.Bookings)
	flow.Select(table, req.BookingTime, req.BookingDate)

	outcome, created, err := flow.Submit(c.Request.Context(), req.Form)
	switch outcome {
	case booking.OutcomeCommitted:
		utils.RespondJSON(c, http.StatusCreated, "Booking confirmed", created)
	case booking.OutcomeConflict:
		utils.RespondError(c, http.StatusConflict, errors.New(booking.ConflictMessage))
	case booking.OutcomeInvalid:
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusBadGateway, errors.New(booking.RetryMessage))
	}
}

// ListBookings -> the cached booking list for the dashboard, optionally
// filtered by date. refresh=true forces a fetch before answering.
func (bc *BookingController) ListBookings(c *gin.Context) {
	if c.Query("refresh") == "true" {
		bc.Bookings.Refresh(c.Request.Context())
	}

	var bookings []models.Booking
	if date := c.Query("date"); date != "" {
		bookings = bc.Bookings.BookingsFor(date)
	} else {
		bookings = bc.Bookings.Bookings()
	}

	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// CompleteBooking -> release a booking's slot, keeping the record.
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	bookingID := c.Param("booking_id")

	if err := bc.Bookings.MarkCompleted(c.Request.Context(), bookingID); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.InfoLogger.Printf("booking %s marked completed", bookingID)
	utils.RespondJSON(c, http.StatusOK, "Booking completed", nil)
}

// DeleteBooking -> remove a booking entirely.
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	bookingID := c.Param("booking_id")

	if err := bc.Bookings.Delete(c.Request.Context(), bookingID); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking deleted", nil)
}

// ReleaseTable -> complete every booking on a table at once.
func (bc *BookingController) ReleaseTable(c *gin.Context) {
	tableID := c.Param("table_id")

	if err := bc.Bookings.CompleteByTable(c.Request.Context(), tableID); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.InfoLogger.Printf("table %s released", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table released", nil)
}
