package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nearmeet-server/internal/models"
)

// DecisionRepository provides data access for swipe decisions.
type DecisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Record inserts a decision for (actor, target). Decisions are append-once
// per ordered pair: if a row already exists the call is a no-op and the
// original verdict stands. Returns whether a new row was written.
func (r *DecisionRepository) Record(ctx context.Context, actorID, targetID string, verdict models.Verdict) (bool, error) {
	decision := models.SwipeDecision{
		ActorID:  actorID,
		TargetID: targetID,
		Verdict:  verdict,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(&decision)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Get loads the decision for an ordered (actor, target) pair.
func (r *DecisionRepository) Get(ctx context.Context, actorID, targetID string) (*models.SwipeDecision, error) {
	var decision models.SwipeDecision
	if err := r.db.WithContext(ctx).First(&decision, "actor_id = ? AND target_id = ?", actorID, targetID).Error; err != nil {
		return nil, err
	}
	return &decision, nil
}

// HasLiked reports whether actor has recorded a like or super-like for
// target. Used for the reciprocity check on each incoming like.
func (r *DecisionRepository) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SwipeDecision{}).
		Where("actor_id = ? AND target_id = ? AND verdict IN ?",
			actorID, targetID, []models.Verdict{models.VerdictLike, models.VerdictSuperLike}).
		Count(&count).Error
	return count > 0, err
}

// DecidedTargets returns the ids of every user the actor has already swiped
// on, in any direction of verdict. Candidates are drawn from outside this
// set.
func (r *DecisionRepository) DecidedTargets(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.SwipeDecision{}).
		Where("actor_id = ?", actorID).
		Pluck("target_id", &ids).Error
	return ids, err
}

// MutualLikePairs returns ordered (a, b) pairs, a < b, where both sides have
// liked each other. Used by the reconciliation sweep to repair mutual likes
// that never produced a match (e.g. a crash between the like write and the
// match check).
func (r *DecisionRepository) MutualLikePairs(ctx context.Context, limit int) ([][2]string, error) {
	type row struct {
		A string
		B string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("swipe_decisions d").
		Select("d.actor_id AS a, d.target_id AS b").
		Joins(`JOIN swipe_decisions r ON r.actor_id = d.target_id AND r.target_id = d.actor_id
			AND r.verdict IN ('like', 'superlike')`).
		Where("d.verdict IN ('like', 'superlike') AND d.actor_id < d.target_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	pairs := make([][2]string, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, [2]string{r.A, r.B})
	}
	return pairs, nil
}
