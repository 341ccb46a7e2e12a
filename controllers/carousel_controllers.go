package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/utils"
)

type CarouselController struct {
	API *client.Client
}

func NewCarouselController(api *client.Client) *CarouselController {
	return &CarouselController{API: api}
}

// GetImages -> the carousel image list, with the fallback set when the
// upstream cannot be reached. The landing page never renders an empty
// carousel.
func (cc *CarouselController) GetImages(c *gin.Context) {
	images, err := cc.API.ListCarouselImages(c.Request.Context())
	if err != nil {
		utils.ErrorLogger.Printf("carousel fetch failed, serving fallback: %v", err)
		utils.RespondJSON(c, http.StatusOK, "Fallback carousel images", client.FallbackCarouselImages)
		return
	}
	if len(images) == 0 {
		images = client.FallbackCarouselImages
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel images", images)
}

// ReplaceImages -> overwrite the whole list.
func (cc *CarouselController) ReplaceImages(c *gin.Context) {
	var req struct {
		Images []string `json:"images" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	images, err := cc.API.ReplaceCarouselImages(c.Request.Context(), req.Images)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel images replaced", gin.H{"images": images})
}

func (cc *CarouselController) DeleteImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("index must be a non-negative integer"))
		return
	}

	images, err := cc.API.DeleteCarouselImage(c.Request.Context(), index)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel image deleted", gin.H{"images": images})
}

// UpdateImage -> replace the image at an index with an uploaded file.
func (cc *CarouselController) UpdateImage(c *gin.Context) {
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
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	images, err := cc.API.UpdateCarouselImage(c.Request.Context(), index, fileHeader.Filename, file)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Carousel image updated", gin.H{"images": images})
}

// UploadImage -> add a new carousel image.
func (cc *CarouselController) UploadImage(c *gin.Context) {
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

	url, err := cc.API.UploadCarouselImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Carousel image uploaded", gin.H{"url": url})
}
