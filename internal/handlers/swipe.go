package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/services"
)

type SwipeHandler struct {
	swipes *services.SwipeService
	quota  *services.QuotaTracker
}

func NewSwipeHandler(swipes *services.SwipeService, quota *services.QuotaTracker) *SwipeHandler {
	return &SwipeHandler{swipes: swipes, quota: quota}
}

// Candidates returns ranked, unseen profiles for the swipe deck.
func (h *SwipeHandler) Candidates(c *gin.Context) {
	userID := middleware.UserID(c)

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	candidates, err := h.swipes.Candidates(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *SwipeHandler) Pass(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID := c.Param("user_id")

	if err := h.swipes.RecordPass(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passed"})
}

// Like records a like. Quota denial is a normal outcome, not an error:
// the client shows "come back tomorrow" off matched=false, quota_left=0.
func (h *SwipeHandler) Like(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID := c.Param("user_id")

	result, err := h.swipes.RecordLike(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SwipeHandler) SuperLike(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID := c.Param("user_id")

	result, err := h.swipes.RecordSuperLike(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Quota reports the remaining daily budgets without consuming them.
func (h *SwipeHandler) Quota(c *gin.Context) {
	userID := middleware.UserID(c)

	likes, superlikes, err := h.quota.Remaining(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes_left":      likes,
		"superlikes_left": superlikes,
	})
}
