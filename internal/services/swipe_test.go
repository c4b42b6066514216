package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/config"
	"nearmeet-server/internal/models"
)

func TestRecordLikeNoMatchUntilReciprocal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	result, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, config.DailyLikes-1, result.QuotaLeft)

	// Reciprocal like creates the match and the thread with the pair id.
	result, err = env.swipes.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "alice_bob", result.ChatID)

	match, err := env.matches.Get(ctx, "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", match.UserAID)
	assert.Equal(t, "bob", match.UserBID)

	messages, err := env.chat.Messages(ctx, "alice_bob", "bob", 0)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// B sends "hi" into the thread.
	message, err := env.chat.SendMessage(ctx, "alice_bob", "bob", "hi")
	require.NoError(t, err)
	assert.Equal(t, "bob", message.AuthorID)
	assert.Equal(t, "hi", message.Text)

	messages, err = env.chat.Messages(ctx, "alice_bob", "alice", 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Text)

	conversation, err := env.matches.GetConversation(ctx, "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, "hi", conversation.LastText)
}

func TestRecordLikeSelfTargetFailsFast(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")

	_, err := env.swipes.RecordLike(ctx, "alice", "alice")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	err = env.swipes.RecordPass(ctx, "alice", "alice")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRecordLikeQuotaExhaustion(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")

	// Burn the full daily budget against distinct targets.
	for i := 0; i < config.DailyLikes; i++ {
		target := env.seedUser(t, fmt.Sprintf("target-%02d", i))
		result, err := env.swipes.RecordLike(ctx, "alice", target.ID)
		require.NoError(t, err)
		assert.Equal(t, config.DailyLikes-i-1, result.QuotaLeft)
	}

	// Denied attempt: no decision written, remaining stays at zero.
	env.seedUser(t, "onemore")
	result, err := env.swipes.RecordLike(ctx, "alice", "onemore")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Zero(t, result.QuotaLeft)

	var count int64
	require.NoError(t, env.db.Model(&models.SwipeDecision{}).
		Where("actor_id = ? AND target_id = ?", "alice", "onemore").
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestSuperLikeQuotaAndNextDayReset(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")

	day1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	env.quota.WithClock(func() time.Time { return day1 })

	targets := []string{"b1", "b2", "b3", "b4", "b5", "b6"}
	for _, id := range targets {
		env.seedUser(t, id)
	}

	for i := 0; i < config.DailySuperLikes; i++ {
		result, err := env.swipes.RecordSuperLike(ctx, "alice", targets[i])
		require.NoError(t, err)
		assert.Equal(t, config.DailySuperLikes-i-1, result.QuotaLeft)
	}

	// Sixth super-like the same day is denied.
	result, err := env.swipes.RecordSuperLike(ctx, "alice", targets[5])
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Zero(t, result.QuotaLeft)

	// Next calendar day the budget is fresh.
	env.quota.WithClock(func() time.Time { return day1.Add(24 * time.Hour) })
	result, err = env.swipes.RecordSuperLike(ctx, "alice", targets[5])
	require.NoError(t, err)
	assert.Equal(t, config.DailySuperLikes-1, result.QuotaLeft)
}

func TestQuotaRolloverAtLimit(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")

	// Snapshot stored at the limit for an old day must not deny today.
	require.NoError(t, env.db.Create(&models.QuotaSnapshot{
		UserID: "alice",
		Date:   "2024-01-01",
		Likes:  config.DailyLikes,
	}).Error)

	env.quota.WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC)
	})

	allowed, remaining, err := env.quota.CheckAndConsume(ctx, "alice", models.VerdictLike)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, config.DailyLikes-1, remaining)
}

func TestPassHasNoQuotaEffect(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	require.NoError(t, env.swipes.RecordPass(ctx, "alice", "bob"))
	// Re-pass is a no-op.
	require.NoError(t, env.swipes.RecordPass(ctx, "alice", "bob"))

	likes, superlikes, err := env.quota.Remaining(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, config.DailyLikes, likes)
	assert.Equal(t, config.DailySuperLikes, superlikes)
}

func TestCandidatesExcludeDecidedAndBlocked(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "seen")
	env.seedUser(t, "blocked")
	env.seedUser(t, "fresh")

	require.NoError(t, env.swipes.RecordPass(ctx, "alice", "seen"))
	require.NoError(t, env.db.Create(&models.BlockedUser{BlockerID: "alice", BlockedID: "blocked"}).Error)

	candidates, err := env.swipes.Candidates(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fresh", candidates[0].ID)
}

func TestDuplicateLikeConsumesNoQuota(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	first, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, config.DailyLikes-1, first.QuotaLeft)

	// Repeating the like is a no-op: same quota, still one decision row.
	second, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, second.Matched)
	assert.Equal(t, config.DailyLikes-1, second.QuotaLeft)

	var count int64
	require.NoError(t, env.db.Model(&models.SwipeDecision{}).
		Where("actor_id = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A super-like attempt on the same target leaves both budgets alone and
	// keeps the recorded like.
	replay, err := env.swipes.RecordSuperLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, config.DailySuperLikes, replay.QuotaLeft)

	var decision models.SwipeDecision
	require.NoError(t, env.db.First(&decision, "actor_id = ? AND target_id = ?", "alice", "bob").Error)
	assert.Equal(t, models.VerdictLike, decision.Verdict)

	likes, superlikes, err := env.quota.Remaining(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, config.DailyLikes-1, likes)
	assert.Equal(t, config.DailySuperLikes, superlikes)
}

func TestDuplicateLikeAfterMatchReplaysIt(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	_, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	matched, err := env.swipes.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, matched.Matched)

	// The duplicate reports the existing match without spending quota.
	replay, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, replay.Matched)
	assert.Equal(t, "alice_bob", replay.ChatID)
	assert.Equal(t, config.DailyLikes-1, replay.QuotaLeft)

	var matchCount int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&matchCount).Error)
	assert.EqualValues(t, 1, matchCount)
}

func TestLikeAfterPassDoesNotMatch(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	require.NoError(t, env.swipes.RecordPass(ctx, "alice", "bob"))
	_, err := env.swipes.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)

	// Alice's pass stands, so her later like attempt cannot create a match
	// and costs nothing.
	result, err := env.swipes.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, config.DailyLikes, result.QuotaLeft)

	var matchCount int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&matchCount).Error)
	assert.Zero(t, matchCount)
}

func TestDecisionAppendOnce(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")

	// A super-like followed by a pass keeps the super-like.
	_, err := env.swipes.RecordSuperLike(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, env.swipes.RecordPass(ctx, "alice", "bob"))

	var decision models.SwipeDecision
	require.NoError(t, env.db.First(&decision, "actor_id = ? AND target_id = ?", "alice", "bob").Error)
	assert.Equal(t, models.VerdictSuperLike, decision.Verdict)
}
