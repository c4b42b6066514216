package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nearmeet-server/internal/models"
)

// MatchRepository manages Match, Conversation and Message records. A match
// and its thread are the one resource owned by two users, so creation is the
// one place that needs a real multi-row transaction.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// EnsureMatch creates a Match and its Conversation in a single transaction,
// both keyed by the deterministic pair id. Calling it again for the same
// pair is a no-op: either both rows exist or neither does.
func (r *MatchRepository) EnsureMatch(ctx context.Context, userA, userB string) (*models.Match, error) {
	pair := []string{userA, userB}
	sort.Strings(pair)
	id := models.PairID(userA, userB)
	now := time.Now().UTC()

	match := models.Match{ID: id, UserAID: pair[0], UserBID: pair[1], CreatedAt: now}
	conversation := models.Conversation{
		ID:      id,
		UserAID: pair[0],
		UserBID: pair[1],
		LastAt:  now,
	}

	doNothing := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(doNothing).Create(&match).Error; err != nil {
			return err
		}
		return tx.Clauses(doNothing).Create(&conversation).Error
	})
	if err != nil {
		return nil, err
	}

	// Re-read so callers see the original creation time on repeat calls.
	var persisted models.Match
	if err := r.db.WithContext(ctx).First(&persisted, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &persisted, nil
}

// Get loads a match by id.
func (r *MatchRepository) Get(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// Exists reports whether a match exists for the pair.
func (r *MatchRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", models.PairID(userA, userB)).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns all matches the user is a member of, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// GetConversation loads a conversation by id.
func (r *MatchRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversations returns the user's threads, most recently active first.
func (r *MatchRepository) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// AppendMessage writes a message and updates the thread preview in one
// transaction.
func (r *MatchRepository) AppendMessage(ctx context.Context, conversationID, authorID, text string) (*models.Message, error) {
	message := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		AuthorID:       authorID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_text": text,
				"last_at":   message.CreatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns a thread's messages in creation order.
func (r *MatchRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	return messages, err
}
