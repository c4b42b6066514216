package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/redis"
	"nearmeet-server/internal/repository"
)

// QuotaTracker enforces the daily like/super-like budgets. Counters live in
// the database as one snapshot row per user; rollover is lazy (the first
// consumption of a new day resets the row) and consumption is atomic, so a
// burst of swipes from the same user cannot exceed the limit. Remaining
// counts are mirrored into Redis for the read-side endpoint.
type QuotaTracker struct {
	quotas *repository.QuotaRepository
	cache  *redis.Client
	now    func() time.Time
}

func NewQuotaTracker(quotas *repository.QuotaRepository, cache *redis.Client) *QuotaTracker {
	return &QuotaTracker{
		quotas: quotas,
		cache:  cache,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Used by tests to cross day
// boundaries.
func (t *QuotaTracker) WithClock(now func() time.Time) *QuotaTracker {
	t.now = now
	return t
}

// Limit returns the daily cap for a verdict.
func Limit(verdict models.Verdict) int {
	if verdict == models.VerdictSuperLike {
		return config.DailySuperLikes
	}
	return config.DailyLikes
}

func (t *QuotaTracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

// CheckAndConsume consumes one unit of the verdict's quota if available.
// Returns allowed and the remaining budget after consumption. The rollover
// reset is persisted even when the attempt is denied.
func (t *QuotaTracker) CheckAndConsume(ctx context.Context, userID string, verdict models.Verdict) (bool, int, error) {
	today := t.today()
	limit := Limit(verdict)

	if err := t.quotas.EnsureFresh(ctx, userID, today); err != nil {
		return false, 0, fmt.Errorf("quota snapshot upsert: %w", err)
	}

	allowed, remaining, err := t.quotas.TryConsume(ctx, userID, today, verdict, limit)
	if err != nil {
		return false, 0, fmt.Errorf("quota consume: %w", err)
	}

	if t.cache != nil {
		key := quotaCacheKey(verdict, userID, today)
		if allowed {
			_ = t.cache.Set(ctx, key, remaining, 48*time.Hour)
		} else {
			_ = t.cache.Set(ctx, key, 0, 48*time.Hour)
		}
	}

	return allowed, remaining, nil
}

// Refund returns one unit of today's quota for the verdict. Called when a
// consumed swipe turns out to duplicate an existing decision.
func (t *QuotaTracker) Refund(ctx context.Context, userID string, verdict models.Verdict) error {
	today := t.today()
	if err := t.quotas.Refund(ctx, userID, today, verdict); err != nil {
		return fmt.Errorf("quota refund: %w", err)
	}
	if t.cache != nil {
		_ = t.cache.Del(ctx, quotaCacheKey(verdict, userID, today))
	}
	return nil
}

// Remaining reports the budget left for both verdicts without consuming.
// A stale snapshot (or none at all) counts as a full budget.
func (t *QuotaTracker) Remaining(ctx context.Context, userID string) (likes, superlikes int, err error) {
	today := t.today()
	snapshot, err := t.quotas.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return config.DailyLikes, config.DailySuperLikes, nil
		}
		return 0, 0, err
	}
	if snapshot.Date != today {
		return config.DailyLikes, config.DailySuperLikes, nil
	}
	likes = config.DailyLikes - snapshot.Likes
	if likes < 0 {
		likes = 0
	}
	superlikes = config.DailySuperLikes - snapshot.SuperLikes
	if superlikes < 0 {
		superlikes = 0
	}
	return likes, superlikes, nil
}

func quotaCacheKey(verdict models.Verdict, userID, date string) string {
	return fmt.Sprintf("quota:%s:%s:%s", verdict, userID, date)
}
