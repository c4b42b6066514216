package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nearmeet-server/internal/models"
)

// AdRepository persists personal ads.
type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Create(ctx context.Context, ad *models.PersonalAd) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(ad).Error
}

// AdFilters narrows a listing. Zero values mean no constraint; the ALL
// category behaves the same as none.
type AdFilters struct {
	Category    models.AdCategory
	CountryCode string
	City        string
}

// List returns active ads matching the filters, newest first.
func (r *AdRepository) List(ctx context.Context, filters AdFilters, limit int) ([]models.PersonalAd, error) {
	if limit <= 0 {
		limit = 80
	}

	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if filters.Category != "" && filters.Category != models.AdAll {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.CountryCode != "" {
		query = query.Where("country_code = ?", filters.CountryCode)
	}
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}

	var ads []models.PersonalAd
	err := query.Order("created_at DESC").Limit(limit).Find(&ads).Error
	return ads, err
}

// Deactivate retires an ad. Only the author's own active ad is affected;
// returns whether a row changed.
func (r *AdRepository) Deactivate(ctx context.Context, adID, authorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PersonalAd{}).
		Where("id = ? AND author_id = ? AND is_active = ?", adID, authorID, true).
		Update("is_active", false)
	return result.RowsAffected > 0, result.Error
}
