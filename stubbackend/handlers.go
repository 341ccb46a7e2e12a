package stubbackend

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/utils"
)

var errSlotTaken = errors.New("Time slot already booked for this table")

func (s *Server) listTables(c *gin.Context) {
	var tables []models.Table
	if err := s.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (s *Server) createTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if table.ID == "" {
		table.ID = uuid.NewString()
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if err := s.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

func (s *Server) updateTable(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := s.DB.Where("id = ?", c.Param("id")).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := s.DB.Model(&table).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (s *Server) deleteTable(c *gin.Context) {
	if err := s.DB.Where("id = ?", c.Param("id")).Delete(&models.Table{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

func (s *Server) listBookings(c *gin.Context) {
	if s.ProtectBookingsRead {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < len("Bearer ") || s.parseToken(authHeader[len("Bearer "):]) != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("bookings read requires authorization"))
			return
		}
	}

	var bookings []models.Booking
	if err := s.DB.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// createBooking enforces the occupancy rule the whole system hinges on: one
// non-completed booking per (table_id, booking_date, booking_time).
func (s *Server) createBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if booking.TableID == "" || booking.BookingDate == "" || booking.BookingTime == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table_id, booking_date and booking_time are required"))
		return
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	if booking.CreatedAt == "" {
		booking.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	// Check and insert in one transaction so concurrent creates cannot both
	// pass the occupancy check.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupied int64
		err := tx.Model(&models.Booking{}).
			Where("table_id = ? AND booking_date = ? AND booking_time = ? AND status <> ?",
				booking.TableID, booking.BookingDate, booking.BookingTime, models.BookingStatusCompleted).
			Count(&occupied).Error
		if err != nil {
			return err
		}
		if occupied > 0 {
			return errSlotTaken
		}
		return tx.Create(&booking).Error
	})
	if errors.Is(err, errSlotTaken) {
		utils.RespondError(c, http.StatusConflict, errSlotTaken)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

func (s *Server) updateBooking(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// The schema has no updated_at column; the stamp is part of the wire
	// contract but not stored.
	delete(updates, "updated_at")

	var booking models.Booking
	if err := s.DB.Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := s.DB.Model(&booking).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}

func (s *Server) deleteBooking(c *gin.Context) {
	if err := s.DB.Where("id = ?", c.Param("id")).Delete(&models.Booking{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking deleted", nil)
}

func (s *Server) completeBookingsByTable(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)
	err := s.DB.Model(&models.Booking{}).
		Where("table_id = ? AND status <> ?", c.Param("table_id"), models.BookingStatusCompleted).
		Updates(map[string]interface{}{
			"status":       models.BookingStatusCompleted,
			"completed_at": now,
		}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings completed", nil)
}

func (s *Server) deleteBookingsByTable(c *gin.Context) {
	if err := s.DB.Where("table_id = ?", c.Param("table_id")).Delete(&models.Booking{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings deleted", nil)
}

func (s *Server) listMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := s.DB.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

func (s *Server) createMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (s *Server) updateMenuItem(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := s.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := s.DB.Model(&item).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	if err := s.DB.Where("id = ?", c.Param("id")).Delete(&models.MenuItem{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

func (s *Server) listCarouselImages(c *gin.Context) {
	var rows []CarouselImage
	if err := s.DB.Order("id asc").Find(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	images := make([]string, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.URL)
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel images", images)
}

func (s *Server) replaceCarouselImages(c *gin.Context) {
	var req struct {
		Images []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&CarouselImage{}).Error; err != nil {
			return err
		}
		for _, url := range req.Images {
			if err := tx.Create(&CarouselImage{URL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel images replaced", gin.H{"images": req.Images})
}

func (s *Server) deleteCarouselImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("index must be a non-negative integer"))
		return
	}

	var rows []CarouselImage
	if err := s.DB.Order("id asc").Find(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if index >= len(rows) {
		utils.RespondError(c, http.StatusNotFound, errors.New("no image at that index"))
		return
	}
	if err := s.DB.Delete(&rows[index]).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	images := make([]string, 0, len(rows)-1)
	for i, row := range rows {
		if i != index {
			images = append(images, row.URL)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel image deleted", gin.H{"images": images})
}

func (s *Server) updateCarouselImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("index must be a non-negative integer"))
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image file is required"))
		return
	}

	var rows []CarouselImage
	if err := s.DB.Order("id asc").Find(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if index >= len(rows) {
		utils.RespondError(c, http.StatusNotFound, errors.New("no image at that index"))
		return
	}

	rows[index].URL = "/uploads/" + uuid.NewString() + "_" + fileHeader.Filename
	if err := s.DB.Save(&rows[index]).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	images := make([]string, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.URL)
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel image updated", gin.H{"images": images})
}

// uploadImage accepts the multipart file and fabricates a URL; the stub stores
// no bytes.
func (s *Server) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image file is required"))
		return
	}
	url := "/uploads/" + uuid.NewString() + "_" + fileHeader.Filename
	utils.RespondJSON(c, http.StatusCreated, "Image uploaded", gin.H{"url": url})
}
