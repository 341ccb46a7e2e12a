package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/session"
	"github.com/sagebistro/reservation-app/utils"
)

type AdminController struct {
	API      *client.Client
	Sessions *session.Manager
}

func NewAdminController(api *client.Client, sessions *session.Manager) *AdminController {
	return &AdminController{API: api, Sessions: sessions}
}

// Login forwards credentials upstream and, on success, opens the local admin
// session whose token all subsequent authorized calls ride on.
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, err := ac.API.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if client.IsUnauthorized(err) {
			utils.RespondError(c, http.StatusUnauthorized, err)
			return
		}
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	ac.Sessions.Login(token, req.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"email": req.Email,
	})
}

func (ac *AdminController) Logout(c *gin.Context) {
	ac.Sessions.Logout()
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// SessionInfo -> whether an admin is signed in, and who.
func (ac *AdminController) SessionInfo(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Session info", gin.H{
		"active":  ac.Sessions.Active(),
		"expired": ac.Sessions.Expired(),
		"email":   ac.Sessions.Email(),
	})
}
