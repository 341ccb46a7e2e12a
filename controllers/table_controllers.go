package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/utils"
)

type TableController struct {
	Tables   *store.TableStore
	Bookings *store.BookingStore
}

func NewTableController(tables *store.TableStore, bookings *store.BookingStore) *TableController {
	return &TableController{Tables: tables, Bookings: bookings}
}

// GetAllTables -> the cached table list.
func (tc *TableController) GetAllTables(c *gin.Context) {
	if c.Query("refresh") == "true" {
		tc.Tables.Refresh(c.Request.Context())
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tc.Tables.Tables())
}

// CreateTable -> add a table upstream.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be a positive integer"))
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), req.TableNumber, req.Capacity)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.InfoLogger.Printf("table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// DeleteTable -> remove a table upstream, clearing its bookings first so no
// orphaned records survive a table the grid can no longer reach.
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")

	if err := tc.Bookings.DeleteByTable(c.Request.Context(), tableID); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	if err := tc.Tables.Delete(c.Request.Context(), tableID); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.InfoLogger.Printf("table %s deleted", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}
