package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearmeet-server/internal/models"
)

func TestOnReciprocalLikeIdempotent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "zoe", withToken("tok-zoe"))
	env.seedUser(t, "adam", withToken("tok-adam"))

	// Repeated invocations, argument order flipped, yield one match and one
	// thread with the sorted-join id.
	for i := 0; i < 3; i++ {
		a, b := "zoe", "adam"
		if i%2 == 1 {
			a, b = b, a
		}
		result, err := env.matchmaker.OnReciprocalLike(ctx, a, b)
		require.NoError(t, err)
		assert.Equal(t, "adam_zoe", result.MatchID)
		assert.Equal(t, "adam_zoe", result.ChatID)
	}

	var matchCount, threadCount int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&matchCount).Error)
	require.NoError(t, env.db.Model(&models.Conversation{}).Count(&threadCount).Error)
	assert.EqualValues(t, 1, matchCount)
	assert.EqualValues(t, 1, threadCount)
}

func TestMatchNotificationIsBestEffort(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "zoe", withToken("tok-zoe"))
	env.seedUser(t, "adam") // no token registered

	result, err := env.matchmaker.OnReciprocalLike(ctx, "zoe", "adam")
	require.NoError(t, err)
	require.NotNil(t, result)

	// The notification goroutine only sees the one registered token.
	assert.Eventually(t, func() bool {
		env.push.mu.Lock()
		defer env.push.mu.Unlock()
		return len(env.push.sends) == 1 && len(env.push.sends[0].Tokens) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestReconcileStrandedMatches(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ana")
	env.seedUser(t, "ben")
	env.seedUser(t, "cleo")

	// Mutual likes written directly, simulating a crash before the match
	// check ever ran.
	require.NoError(t, env.db.Create(&models.SwipeDecision{ActorID: "ana", TargetID: "ben", Verdict: models.VerdictLike}).Error)
	require.NoError(t, env.db.Create(&models.SwipeDecision{ActorID: "ben", TargetID: "ana", Verdict: models.VerdictSuperLike}).Error)
	// One-sided like must not be repaired into a match.
	require.NoError(t, env.db.Create(&models.SwipeDecision{ActorID: "cleo", TargetID: "ana", Verdict: models.VerdictLike}).Error)

	repaired, err := env.matchmaker.ReconcileStrandedMatches(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	match, err := env.matches.Get(ctx, models.PairID("ana", "ben"))
	require.NoError(t, err)
	assert.Equal(t, "ana_ben", match.ID)

	// A second sweep finds nothing to do.
	repaired, err = env.matchmaker.ReconcileStrandedMatches(ctx, 100)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestPairIDSortedJoin(t *testing.T) {
	assert.Equal(t, "a_b", models.PairID("b", "a"))
	assert.Equal(t, "a_b", models.PairID("a", "b"))
}
