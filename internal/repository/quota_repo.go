package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nearmeet-server/internal/models"
)

// QuotaRepository persists per-user daily counters. Both steps of
// consumption are single atomic SQL statements, never read-modify-write, so
// rapid double-taps from the same user cannot bypass the limit.
type QuotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func counterColumn(verdict models.Verdict) (string, error) {
	switch verdict {
	case models.VerdictLike:
		return "likes", nil
	case models.VerdictSuperLike:
		return "super_likes", nil
	default:
		return "", fmt.Errorf("verdict %q has no quota counter", verdict)
	}
}

// EnsureFresh upserts the snapshot row for today. If the stored date is
// stale the row is reset to zero counters; the rollover is persisted whether
// or not the following consumption is allowed.
func (r *QuotaRepository) EnsureFresh(ctx context.Context, userID, today string) error {
	snapshot := models.QuotaSnapshot{UserID: userID, Date: today}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"date":        today,
				"likes":       0,
				"super_likes": 0,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Neq{Column: clause.Column{Table: "quota_snapshots", Name: "date"}, Value: today},
			}},
		}).
		Create(&snapshot).Error
}

// TryConsume increments the counter for verdict if it is still under limit.
// Returns (allowed, remaining). The conditional UPDATE is atomic against
// concurrent swipes from the same user.
func (r *QuotaRepository) TryConsume(ctx context.Context, userID, today string, verdict models.Verdict, limit int) (bool, int, error) {
	column, err := counterColumn(verdict)
	if err != nil {
		return false, 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.QuotaSnapshot{}).
		Where(fmt.Sprintf("user_id = ? AND date = ? AND %s < ?", column), userID, today, limit).
		Update(column, gorm.Expr(fmt.Sprintf("%s + 1", column)))
	if result.Error != nil {
		return false, 0, result.Error
	}
	if result.RowsAffected == 0 {
		return false, 0, nil
	}

	var snapshot models.QuotaSnapshot
	if err := r.db.WithContext(ctx).First(&snapshot, "user_id = ?", userID).Error; err != nil {
		return false, 0, err
	}
	consumed := snapshot.Likes
	if verdict == models.VerdictSuperLike {
		consumed = snapshot.SuperLikes
	}
	remaining := limit - consumed
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, nil
}

// Refund hands back one unit consumed today. Used when a swipe turns out to
// be a duplicate only after its quota was consumed.
func (r *QuotaRepository) Refund(ctx context.Context, userID, today string, verdict models.Verdict) error {
	column, err := counterColumn(verdict)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.QuotaSnapshot{}).
		Where(fmt.Sprintf("user_id = ? AND date = ? AND %s > 0", column), userID, today).
		Update(column, gorm.Expr(fmt.Sprintf("%s - 1", column))).Error
}

// Get loads the snapshot for a user, if any.
func (r *QuotaRepository) Get(ctx context.Context, userID string) (*models.QuotaSnapshot, error) {
	var snapshot models.QuotaSnapshot
	if err := r.db.WithContext(ctx).First(&snapshot, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
