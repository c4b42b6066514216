package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/services"
)

type NowHandler struct {
	now *services.NowService
}

type CreateNowPostRequest struct {
	Text      string  `json:"text" binding:"required"`
	Mood      string  `json:"mood" binding:"omitempty,oneof=chill talk drink walk fun other"`
	Latitude  float64 `json:"latitude" binding:"required,latitude"`
	Longitude float64 `json:"longitude" binding:"required,longitude"`
}

func NewNowHandler(now *services.NowService) *NowHandler {
	return &NowHandler{now: now}
}

func (h *NowHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CreateNowPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.now.Create(c.Request.Context(), userID, req.Text, models.NowMood(req.Mood), req.Latitude, req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *NowHandler) List(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		respondError(c, apperrors.InvalidArgument("lat and lng query parameters are required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	posts, err := h.now.ListNearby(c.Request.Context(), lat, lng, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
