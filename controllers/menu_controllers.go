package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/utils"
)

// MenuController passes the menu catalog through to the upstream. The menu is
// independent of the booking grid, so no local cache or reconciliation is
// involved.
type MenuController struct {
	API *client.Client
}

func NewMenuController(api *client.Client) *MenuController {
	return &MenuController{API: api}
}

func (mc *MenuController) GetMenu(c *gin.Context) {
	items, err := mc.API.ListMenu(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if item.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
		return
	}
	switch item.Category {
	case models.MenuCategoryAppetizer, models.MenuCategoryMain, models.MenuCategoryDessert, models.MenuCategoryBeverage:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown menu category"))
		return
	}

	created, err := mc.API.CreateMenuItem(c.Request.Context(), item)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", created)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := mc.API.UpdateMenuItem(c.Request.Context(), c.Param("item_id"), updates)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", updated)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	if err := mc.API.DeleteMenuItem(c.Request.Context(), c.Param("item_id")); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

// UploadImage forwards a multipart menu image to the upstream store and
// returns its public URL.
func (mc *MenuController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	url, err := mc.API.UploadImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Image uploaded", gin.H{"url": url})
}
