package repository

import (
	"context"

	"gorm.io/gorm"

	"nearmeet-server/internal/models"
)

// ProfileRepository provides user profile access for the swipe and discovery
// paths.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get loads a user by id.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// PushTokens returns the registered push tokens of the given users, skipping
// users without one.
func (r *ProfileRepository) PushTokens(ctx context.Context, userIDs ...string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN ? AND push_token IS NOT NULL AND push_token <> ''", userIDs).
		Pluck("push_token", &tokens).Error
	return tokens, err
}

// CandidatePool returns up to limit profiles excluding the caller, everyone
// the caller already decided on, and blocked users in either direction.
func (r *ProfileRepository) CandidatePool(ctx context.Context, userID string, exclude []string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}

	excluded := append([]string{userID}, exclude...)

	blocked := r.db.
		Model(&models.BlockedUser{}).
		Select("blocked_id").
		Where("blocker_id = ?", userID)
	blockedBy := r.db.
		Model(&models.BlockedUser{}).
		Select("blocker_id").
		Where("blocked_id = ?", userID)

	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id NOT IN ?", excluded).
		Where("id NOT IN (?)", blocked).
		Where("id NOT IN (?)", blockedBy).
		Limit(limit).
		Find(&users).Error
	return users, err
}
