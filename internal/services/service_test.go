package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nearmeet-server/internal/database"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/redis"
	"nearmeet-server/internal/repository"
	"nearmeet-server/internal/services"
)

// recordingSender captures push notifications for assertions.
type recordingSender struct {
	mu    sync.Mutex
	sends []sentPush
}

type sentPush struct {
	Tokens []string
	Title  string
}

func (r *recordingSender) Send(_ context.Context, tokens []string, title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, sentPush{Tokens: tokens, Title: title})
}

type testEnv struct {
	db         *gorm.DB
	cache      *redis.Client
	decisions  *repository.DecisionRepository
	quotas     *repository.QuotaRepository
	matches    *repository.MatchRepository
	rooms      *repository.RoomRepository
	profiles   *repository.ProfileRepository
	ads        *repository.AdRepository
	quota      *services.QuotaTracker
	matchmaker *services.Matchmaker
	swipes     *services.SwipeService
	chat       *services.ChatService
	roomSvc    *services.RoomService
	nowSvc     *services.NowService
	adSvc      *services.AdService
	push       *recordingSender
}

// setupEnv spins up an in-memory SQLite DB with the full schema plus a
// miniredis, and wires the service graph. Each test gets isolated state.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	env := &testEnv{
		db:        db,
		cache:     redis.NewFromAddr(mr.Addr()),
		decisions: repository.NewDecisionRepository(db),
		quotas:    repository.NewQuotaRepository(db),
		matches:   repository.NewMatchRepository(db),
		rooms:     repository.NewRoomRepository(db),
		profiles:  repository.NewProfileRepository(db),
		ads:       repository.NewAdRepository(db),
		push:      &recordingSender{},
	}
	env.quota = services.NewQuotaTracker(env.quotas, env.cache)
	env.matchmaker = services.NewMatchmaker(env.matches, env.decisions, env.profiles, env.push)
	env.swipes = services.NewSwipeService(env.decisions, env.profiles, env.quota, env.matchmaker, env.push)
	env.chat = services.NewChatService(env.matches)
	env.roomSvc = services.NewRoomService(env.rooms)
	env.nowSvc = services.NewNowService(env.rooms)
	env.adSvc = services.NewAdService(env.ads)
	return env
}

func (e *testEnv) seedUser(t *testing.T, id string, mutate ...func(*models.User)) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        id + "@test.local",
		PasswordHash: "x",
		DisplayName:  id,
		BirthDate:    time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		Gender:       "other",
		Interests:    models.StringList{},
		Intents:      models.StringList{},
		Photos:       models.StringList{},
	}
	for _, m := range mutate {
		m(user)
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func withToken(token string) func(*models.User) {
	return func(u *models.User) { u.PushToken = &token }
}

func withCoords(lat, lng float64) func(*models.User) {
	return func(u *models.User) {
		u.Latitude = &lat
		u.Longitude = &lng
	}
}

func withTags(intents, interests []string) func(*models.User) {
	return func(u *models.User) {
		u.Intents = intents
		u.Interests = interests
	}
}
