package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
	"nearmeet-server/internal/services"
)

func TestCreateAdTrimsAndDefaults(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")

	ad, err := env.adSvc.Create(ctx, "poster", services.CreateAdInput{
		Title:       "  Coffee buddy wanted  ",
		Text:        " anyone up for a walk? ",
		Category:    models.AdCategory("nonsense"),
		CountryCode: "hr",
		CountryName: "Croatia",
		City:        "Zagreb",
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee buddy wanted", ad.Title)
	assert.Equal(t, "anyone up for a walk?", ad.Text)
	assert.Equal(t, models.AdOther, ad.Category)
	assert.Equal(t, "HR", ad.CountryCode)
	assert.True(t, ad.IsActive)
	assert.NotEmpty(t, ad.ID)
}

func TestCreateAdRejectsEmptyFields(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")

	_, err := env.adSvc.Create(ctx, "poster", services.CreateAdInput{
		Title:       "   ",
		Text:        "hello",
		Category:    models.AdF4M,
		CountryCode: "HR",
		City:        "Zagreb",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.adSvc.Create(ctx, "poster", services.CreateAdInput{
		Title:    "hi",
		Text:     "hello",
		Category: models.AdF4M,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.adSvc.Create(ctx, "", services.CreateAdInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestListAdsFilters(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")

	seed := func(category models.AdCategory, country, city string) *models.PersonalAd {
		ad, err := env.adSvc.Create(ctx, "poster", services.CreateAdInput{
			Title:       "title",
			Text:        "text",
			Category:    category,
			CountryCode: country,
			CountryName: country,
			City:        city,
		})
		require.NoError(t, err)
		return ad
	}

	seed(models.AdF4M, "HR", "Zagreb")
	seed(models.AdM4F, "HR", "Split")
	seed(models.AdF4M, "DE", "Berlin")

	// Category filter.
	ads, err := env.adSvc.List(ctx, repository.AdFilters{Category: models.AdF4M}, 0)
	require.NoError(t, err)
	assert.Len(t, ads, 2)

	// ALL spans categories; country narrows.
	ads, err = env.adSvc.List(ctx, repository.AdFilters{Category: models.AdAll, CountryCode: "HR"}, 0)
	require.NoError(t, err)
	assert.Len(t, ads, 2)

	// City is the narrowest scope.
	ads, err = env.adSvc.List(ctx, repository.AdFilters{CountryCode: "HR", City: "Split"}, 0)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, models.AdM4F, ads[0].Category)

	// No filters lists everything active.
	ads, err = env.adSvc.List(ctx, repository.AdFilters{}, 0)
	require.NoError(t, err)
	assert.Len(t, ads, 3)
}

func TestListAdsNewestFirstAndActiveOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")

	older := models.PersonalAd{
		ID: "ad-old", AuthorID: "poster", Title: "old", Text: "old",
		Category: models.AdOther, CountryCode: "HR", CountryName: "Croatia",
		City: "Zagreb", IsActive: true,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(&older).Error)

	newer, err := env.adSvc.Create(ctx, "poster", services.CreateAdInput{
		Title: "new", Text: "new", Category: models.AdOther,
		CountryCode: "HR", CountryName: "Croatia", City: "Zagreb",
	})
	require.NoError(t, err)

	ads, err := env.adSvc.List(ctx, repository.AdFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, newer.ID, ads[0].ID)
	assert.Equal(t, "ad-old", ads[1].ID)

	// Retired ads disappear from listings.
	require.NoError(t, env.adSvc.Deactivate(ctx, "ad-old", "poster"))
	ads, err = env.adSvc.List(ctx, repository.AdFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, newer.ID, ads[0].ID)
}

func TestDeactivateAdAuthorOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")
	env.seedUser(t, "stranger")

	ad, err := env.adSvc.Create(ctx, "poster", services.CreateAdInput{
		Title: "t", Text: "x", Category: models.AdF4F,
		CountryCode: "HR", CountryName: "Croatia", City: "Zagreb",
	})
	require.NoError(t, err)

	// Someone else cannot retire it.
	err = env.adSvc.Deactivate(ctx, ad.ID, "stranger")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, env.adSvc.Deactivate(ctx, ad.ID, "poster"))

	// Retiring twice reports not found.
	err = env.adSvc.Deactivate(ctx, ad.ID, "poster")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
