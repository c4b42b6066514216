package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/models"
)

func TestResolveIsDeterministic(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	// Two independent callers in the same spot converge on the same room.
	first, err := env.roomSvc.Resolve(ctx, models.RoomBar, 45.8150, 15.9819)
	require.NoError(t, err)
	second, err := env.roomSvc.Resolve(ctx, models.RoomBar, 45.8150, 15.9819)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	var count int64
	require.NoError(t, env.db.Model(&models.Room{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveNearbyVsFarCells(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	// ~50 meters apart: same cafe cell.
	a, err := env.roomSvc.Resolve(ctx, models.RoomCafe, 45.81500, 15.98190)
	require.NoError(t, err)
	b, err := env.roomSvc.Resolve(ctx, models.RoomCafe, 45.81505, 15.98195)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	// Several kilometers apart: different cell.
	c, err := env.roomSvc.Resolve(ctx, models.RoomCafe, 45.9000, 16.1000)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestResolveKindPrecision(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	park, err := env.roomSvc.Resolve(ctx, models.RoomPark, 45.8150, 15.9819)
	require.NoError(t, err)
	home, err := env.roomSvc.Resolve(ctx, models.RoomHome, 45.8150, 15.9819)
	require.NoError(t, err)

	// Parks use coarser cells than homes.
	assert.Equal(t, 6, park.Precision)
	assert.Equal(t, 8, home.Precision)
	assert.Equal(t, 900, park.RadiusM)
	assert.Equal(t, 80, home.RadiusM)
}

func TestResolveRejectsBadInput(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.roomSvc.Resolve(ctx, models.RoomKind("spaceship"), 45.0, 15.0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.roomSvc.Resolve(ctx, models.RoomBar, 91.0, 15.0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRoomPresenceWindow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "walker")
	env.seedUser(t, "ghost")

	room, err := env.roomSvc.Resolve(ctx, models.RoomPark, 45.8150, 15.9819)
	require.NoError(t, err)

	require.NoError(t, env.roomSvc.Touch(ctx, room.ID, "walker"))
	// A member last seen long ago does not count as present.
	require.NoError(t, env.rooms.TouchMember(ctx, room.ID, "ghost", "Old Ghost 1",
		time.Now().UTC().Add(-10*time.Minute)))

	members, err := env.roomSvc.ActiveMembers(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "walker", members[0].UserID)
}

func TestRoomSendMessage(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "talker")

	room, err := env.roomSvc.Resolve(ctx, models.RoomCafe, 45.8150, 15.9819)
	require.NoError(t, err)

	message, err := env.roomSvc.Send(ctx, room.ID, "talker", "  anyone here?  ")
	require.NoError(t, err)
	assert.Equal(t, "anyone here?", message.Text)
	assert.NotEmpty(t, message.Nickname)

	// Empty messages are rejected before any write.
	_, err = env.roomSvc.Send(ctx, room.ID, "talker", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	// Sending counts as presence.
	members, err := env.roomSvc.ActiveMembers(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)

	messages, err := env.roomSvc.Messages(ctx, room.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	updated, err := env.rooms.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, updated.LastActiveAt.Before(room.LastActiveAt))
}

func TestNowPostsScopedToRegion(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "poster")

	post, err := env.nowSvc.Create(ctx, "poster", "coffee anyone?", models.NowDrink, 45.8150, 15.9819)
	require.NoError(t, err)
	assert.Len(t, post.Region, 3)

	// Same region sees the post.
	posts, err := env.nowSvc.ListNearby(ctx, 45.8160, 15.9830, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "coffee anyone?", posts[0].Text)

	// A distant region does not.
	posts, err = env.nowSvc.ListNearby(ctx, 59.3293, 18.0686, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Unknown moods degrade to "other".
	post, err = env.nowSvc.Create(ctx, "poster", "hm", models.NowMood("weird"), 45.8150, 15.9819)
	require.NoError(t, err)
	assert.Equal(t, models.NowOther, post.Mood)
}
