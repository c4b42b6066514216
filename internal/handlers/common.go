package handlers

import (
	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/config"
	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/utils"
)

func issueToken(userID string, cfg *config.Config) (string, error) {
	return utils.GenerateToken(userID, cfg.JWTSecret, cfg.JWTExpiry)
}

// respondError maps a service error to its HTTP status and user-visible
// message, logging internals.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		logger.L().WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}
