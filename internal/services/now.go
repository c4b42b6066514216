package services

import (
	"context"
	"strings"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/geo"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

var validNowMoods = map[models.NowMood]struct{}{
	models.NowChill: {}, models.NowTalk: {}, models.NowDrink: {},
	models.NowWalk: {}, models.NowFun: {}, models.NowOther: {},
}

// NowService publishes and lists "available right now" posts scoped to a
// coarse geohash region.
type NowService struct {
	rooms *repository.RoomRepository
}

func NewNowService(rooms *repository.RoomRepository) *NowService {
	return &NowService{rooms: rooms}
}

// Create publishes a post in the region derived from the coordinates.
func (s *NowService) Create(ctx context.Context, userID, text string, mood models.NowMood, lat, lng float64) (*models.NowPost, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidArgument("post text is empty")
	}
	if !geo.ValidCoords(lat, lng) {
		return nil, apperrors.InvalidArgument("malformed coordinates")
	}
	if _, ok := validNowMoods[mood]; !ok {
		mood = models.NowOther
	}

	post := &models.NowPost{
		UserID:    userID,
		Nickname:  geo.Nickname(userID),
		Text:      text,
		Mood:      mood,
		Region:    geo.Region(lat, lng),
		Latitude:  &lat,
		Longitude: &lng,
	}
	if err := s.rooms.CreateNowPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListNearby returns the newest posts in the caller's region.
func (s *NowService) ListNearby(ctx context.Context, lat, lng float64, limit int) ([]models.NowPost, error) {
	if !geo.ValidCoords(lat, lng) {
		return nil, apperrors.InvalidArgument("malformed coordinates")
	}
	return s.rooms.ListNowPosts(ctx, geo.Region(lat, lng), limit)
}
