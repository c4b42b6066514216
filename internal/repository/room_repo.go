package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nearmeet-server/internal/models"
)

// RoomRepository manages geo rooms, their presence records and message logs.
// Rooms are multi-writer; scalar updates are last-write-wins and the message
// log is append-only.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// EnsureRoom creates the room if absent, otherwise bumps last_active_at.
// Returns the persisted room.
func (r *RoomRepository) EnsureRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_active_at": room.LastActiveAt,
			}),
		}).
		Create(room).Error
	if err != nil {
		return nil, err
	}

	var persisted models.Room
	if err := r.db.WithContext(ctx).First(&persisted, "id = ?", room.ID).Error; err != nil {
		return nil, err
	}
	return &persisted, nil
}

// Get loads a room by id.
func (r *RoomRepository) Get(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// TouchMember upserts the (room, user) presence record with the current
// time. Clients call this on a fixed interval while in a room.
func (r *RoomRepository) TouchMember(ctx context.Context, roomID, userID, nickname string, seenAt time.Time) error {
	member := models.RoomMember{
		RoomID:   roomID,
		UserID:   userID,
		Nickname: nickname,
		LastSeen: seenAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"nickname":  nickname,
				"last_seen": seenAt,
			}),
		}).
		Create(&member).Error
}

// ActiveMembers returns members seen since the cutoff, most recent first.
// Presence is derived by readers; nothing deletes stale rows.
func (r *RoomRepository) ActiveMembers(ctx context.Context, roomID string, since time.Time) ([]models.RoomMember, error) {
	var members []models.RoomMember
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND last_seen >= ?", roomID, since).
		Order("last_seen DESC").
		Find(&members).Error
	return members, err
}

// AppendMessage writes a room message and bumps last_active_at in one
// transaction.
func (r *RoomRepository) AppendMessage(ctx context.Context, roomID, userID, nickname, text string) (*models.RoomMessage, error) {
	message := models.RoomMessage{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Nickname:  nickname,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("last_active_at", message.CreatedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns the newest messages of a room, newest first.
func (r *RoomRepository) ListMessages(ctx context.Context, roomID string, limit int) ([]models.RoomMessage, error) {
	if limit <= 0 {
		limit = 80
	}
	var messages []models.RoomMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// CreateNowPost persists a now-post.
func (r *RoomRepository) CreateNowPost(ctx context.Context, post *models.NowPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// ListNowPosts returns the newest posts in a region.
func (r *RoomRepository) ListNowPosts(ctx context.Context, region string, limit int) ([]models.NowPost, error) {
	if limit <= 0 {
		limit = 200
	}
	var posts []models.NowPost
	err := r.db.WithContext(ctx).
		Where("region = ?", region).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
