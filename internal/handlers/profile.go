package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/geo"
	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/services"
)

type ProfileHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	storage *services.StorageService
}

type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Intents     []string `json:"intents,omitempty"`
	Mood        *string  `json:"mood,omitempty" binding:"omitempty,oneof=happy chill active serious party"`
	Goal        *string  `json:"goal,omitempty" binding:"omitempty,oneof=dating friends chat long_term short_term"`
	AdultOptIn  *bool    `json:"adult_opt_in,omitempty"`
	MysteryMode *bool    `json:"mystery_mode,omitempty"`
	PushToken   *string  `json:"push_token,omitempty"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,latitude"`
	Longitude float64 `json:"longitude" binding:"required,longitude"`
}

func NewProfileHandler(db *gorm.DB, cfg *config.Config, storage *services.StorageService) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg, storage: storage}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.DisplayName != nil && *req.DisplayName != "" {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Interests != nil {
		user.Interests = req.Interests
	}
	if req.Intents != nil {
		user.Intents = req.Intents
	}
	if req.Mood != nil {
		mood := models.Mood(*req.Mood)
		user.Mood = &mood
	}
	if req.Goal != nil {
		goal := models.Goal(*req.Goal)
		user.Goal = &goal
	}
	if req.AdultOptIn != nil {
		user.AdultOptIn = *req.AdultOptIn
	}
	if req.MysteryMode != nil {
		user.MysteryMode = *req.MysteryMode
	}
	if req.PushToken != nil {
		user.PushToken = req.PushToken
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// UpdateLocation stores coordinates plus their geohash, which scopes rooms,
// regions and the ranking proximity bonus.
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := geo.Encode(req.Latitude, req.Longitude)
	err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"latitude":  req.Latitude,
			"longitude": req.Longitude,
			"geohash":   hash,
		}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"geohash": hash})
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID := middleware.UserID(c)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo provided"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	allowed := false
	for _, t := range h.cfg.AllowedImageTypes {
		if t == contentType {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	url, err := h.storage.UploadPhoto(c.Request.Context(), file, header.Filename, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	user.Photos = append(user.Photos, url)
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url, "photos": user.Photos})
}

type DeletePhotoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// DeletePhoto removes a photo from the profile and from object storage.
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	userID := middleware.UserID(c)

	var req DeletePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	kept := make(models.StringList, 0, len(user.Photos))
	found := false
	for _, photo := range user.Photos {
		if photo == req.URL {
			found = true
			continue
		}
		kept = append(kept, photo)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	user.Photos = kept
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// The object delete is best effort; the profile no longer references it.
	if err := h.storage.DeletePhoto(c.Request.Context(), req.URL); err != nil {
		logger.L().WithError(err).Warn("failed to delete photo object")
	}

	c.JSON(http.StatusOK, gin.H{"photos": user.Photos})
}

func (h *ProfileHandler) BlockUser(c *gin.Context) {
	userID := middleware.UserID(c)
	blockedID := c.Param("user_id")
	if blockedID == "" || blockedID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	block := models.BlockedUser{BlockerID: userID, BlockedID: blockedID}
	if err := h.db.FirstOrCreate(&block, block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (h *ProfileHandler) UnblockUser(c *gin.Context) {
	userID := middleware.UserID(c)
	blockedID := c.Param("user_id")

	if err := h.db.Delete(&models.BlockedUser{}, "blocker_id = ? AND blocked_id = ?", userID, blockedID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

type ReportUserRequest struct {
	ReportedID  string `json:"reported_id" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description,omitempty"`
}

func (h *ProfileHandler) ReportUser(c *gin.Context) {
	userID := middleware.UserID(c)

	var req ReportUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := models.Report{
		ReporterID: userID,
		ReportedID: req.ReportedID,
		Reason:     req.Reason,
	}
	if req.Description != "" {
		report.Description = &req.Description
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted"})
}
