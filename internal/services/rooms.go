package services

import (
	"context"
	"strings"
	"time"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/config"
	"nearmeet-server/internal/geo"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

// RoomService resolves coordinates into geo rooms and manages their chat and
// presence. Room ids are pure functions of kind + location, so everyone in
// the same cell lands in the same room with no coordination.
type RoomService struct {
	rooms *repository.RoomRepository
}

func NewRoomService(rooms *repository.RoomRepository) *RoomService {
	return &RoomService{rooms: rooms}
}

// Resolve returns the room for a kind at a location, creating it on first
// visit and bumping last_active_at on later ones.
func (s *RoomService) Resolve(ctx context.Context, kind models.RoomKind, lat, lng float64) (*models.Room, error) {
	meta, ok := geo.MetaFor(kind)
	if !ok {
		return nil, apperrors.InvalidArgument("unknown room kind")
	}
	if !geo.ValidCoords(lat, lng) {
		return nil, apperrors.InvalidArgument("malformed coordinates")
	}

	now := time.Now().UTC()
	room := &models.Room{
		ID:           geo.RoomID(kind, lat, lng),
		Kind:         kind,
		Title:        meta.Label,
		Latitude:     lat,
		Longitude:    lng,
		Geohash:      geo.Encode(lat, lng),
		Precision:    meta.Precision,
		RadiusM:      meta.RadiusM,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	return s.rooms.EnsureRoom(ctx, room)
}

// Touch marks the user as present in the room. Clients call this on a fixed
// interval (around 20s) while in a room; presence decays by itself once they
// stop.
func (s *RoomService) Touch(ctx context.Context, roomID, userID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if roomID == "" {
		return apperrors.InvalidArgument("room id is required")
	}
	return s.rooms.TouchMember(ctx, roomID, userID, geo.Nickname(userID), time.Now().UTC())
}

// Send appends a message to the room log under the user's anonymous
// nickname and refreshes their presence.
func (s *RoomService) Send(ctx context.Context, roomID, userID, text string) (*models.RoomMessage, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidArgument("message text is empty")
	}
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return nil, err
	}

	nickname := geo.Nickname(userID)
	message, err := s.rooms.AppendMessage(ctx, roomID, userID, nickname, text)
	if err != nil {
		return nil, err
	}
	// Sending implies presence.
	_ = s.rooms.TouchMember(ctx, roomID, userID, nickname, message.CreatedAt)
	return message, nil
}

// Messages returns the newest messages of a room.
func (s *RoomService) Messages(ctx context.Context, roomID string, limit int) ([]models.RoomMessage, error) {
	return s.rooms.ListMessages(ctx, roomID, limit)
}

// ActiveMembers lists members seen within the presence window.
func (s *RoomService) ActiveMembers(ctx context.Context, roomID string) ([]models.RoomMember, error) {
	cutoff := time.Now().UTC().Add(-config.PresenceWindow)
	return s.rooms.ActiveMembers(ctx, roomID, cutoff)
}
