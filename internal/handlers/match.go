package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

type MatchHandler struct {
	matches  *repository.MatchRepository
	profiles *repository.ProfileRepository
}

type MatchResponse struct {
	ID        string       `json:"id"`
	ChatID    string       `json:"chat_id"`
	User      *models.User `json:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewMatchHandler(matches *repository.MatchRepository, profiles *repository.ProfileRepository) *MatchHandler {
	return &MatchHandler{matches: matches, profiles: profiles}
}

// List returns the user's matches, newest first, each with the other
// member's profile attached.
func (h *MatchHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	matches, err := h.matches.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]MatchResponse, 0, len(matches))
	for _, match := range matches {
		response := MatchResponse{
			ID:        match.ID,
			ChatID:    match.ID,
			CreatedAt: match.CreatedAt,
		}
		if other, err := h.profiles.Get(c.Request.Context(), match.Other(userID)); err == nil {
			response.User = other
		}
		responses = append(responses, response)
	}

	c.JSON(http.StatusOK, gin.H{"matches": responses})
}

// Get returns one match the caller is a member of.
func (h *MatchHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	matchID := c.Param("match_id")

	match, err := h.matches.Get(c.Request.Context(), matchID)
	if err != nil {
		respondError(c, err)
		return
	}
	if match.UserAID != userID && match.UserBID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": match})
}
