package services

import (
	"context"
	"strings"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

var validAdCategories = map[models.AdCategory]struct{}{
	models.AdF4M: {}, models.AdM4F: {}, models.AdM4M: {},
	models.AdF4F: {}, models.AdOther: {},
}

// AdService publishes and lists personal ads, a classifieds board scoped by
// country and city instead of live location.
type AdService struct {
	ads *repository.AdRepository
}

func NewAdService(ads *repository.AdRepository) *AdService {
	return &AdService{ads: ads}
}

type CreateAdInput struct {
	Title       string
	Text        string
	Category    models.AdCategory
	CountryCode string
	CountryName string
	City        string
}

// Create publishes an active ad. Unknown categories degrade to Other.
func (s *AdService) Create(ctx context.Context, authorID string, input CreateAdInput) (*models.PersonalAd, error) {
	if authorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.Text)
	if title == "" || text == "" {
		return nil, apperrors.InvalidArgument("ad title and text are required")
	}
	if input.CountryCode == "" || input.City == "" {
		return nil, apperrors.InvalidArgument("ad country and city are required")
	}
	category := input.Category
	if _, ok := validAdCategories[category]; !ok {
		category = models.AdOther
	}

	ad := &models.PersonalAd{
		AuthorID:    authorID,
		Title:       title,
		Text:        text,
		Category:    category,
		CountryCode: strings.ToUpper(input.CountryCode),
		CountryName: input.CountryName,
		City:        input.City,
		IsActive:    true,
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// List returns active ads matching the filters, newest first.
func (s *AdService) List(ctx context.Context, filters repository.AdFilters, limit int) ([]models.PersonalAd, error) {
	return s.ads.List(ctx, filters, limit)
}

// Deactivate retires one of the caller's ads. Someone else's ad, or an
// already retired one, reports not found.
func (s *AdService) Deactivate(ctx context.Context, adID, authorID string) error {
	if authorID == "" {
		return apperrors.ErrNotAuthenticated
	}
	changed, err := s.ads.Deactivate(ctx, adID, authorID)
	if err != nil {
		return err
	}
	if !changed {
		return apperrors.ErrNotFound
	}
	return nil
}
