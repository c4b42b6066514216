package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
	"nearmeet-server/internal/services"
)

type AdHandler struct {
	ads *services.AdService
}

type CreateAdRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Text        string `json:"text" binding:"required,max=2000"`
	Category    string `json:"category" binding:"omitempty,oneof=F4M M4F M4M F4F Other"`
	CountryCode string `json:"country_code" binding:"required,len=2"`
	CountryName string `json:"country_name" binding:"required"`
	City        string `json:"city" binding:"required"`
}

func NewAdHandler(ads *services.AdService) *AdHandler {
	return &AdHandler{ads: ads}
}

func (h *AdHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), userID, services.CreateAdInput{
		Title:       req.Title,
		Text:        req.Text,
		Category:    models.AdCategory(req.Category),
		CountryCode: req.CountryCode,
		CountryName: req.CountryName,
		City:        req.City,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ad": ad})
}

// List returns active ads. category=ALL (or none) spans every category.
func (h *AdHandler) List(c *gin.Context) {
	filters := repository.AdFilters{
		Category:    models.AdCategory(c.Query("category")),
		CountryCode: c.Query("country"),
		City:        c.Query("city"),
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	ads, err := h.ads.List(c.Request.Context(), filters, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

// Deactivate retires the caller's own ad.
func (h *AdHandler) Deactivate(c *gin.Context) {
	userID := middleware.UserID(c)
	adID := c.Param("ad_id")

	if err := h.ads.Deactivate(c.Request.Context(), adID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ad removed"})
}
