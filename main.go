package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/database"
	"nearmeet-server/internal/handlers"
	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/redis"
	"nearmeet-server/internal/repository"
	"nearmeet-server/internal/services"
	"nearmeet-server/internal/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.L().Info("No .env file found")
	}

	cfg := config.Load()
	logger.InitFromConfig(cfg)
	gin.SetMode(cfg.GinMode)

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.L().WithError(err).Fatal("Failed to connect to database")
	}

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logger.L().WithError(err).Fatal("Failed to connect to Redis")
	}

	var push services.PushSender = services.NoopSender{}
	if cfg.FirebaseProjectID != "" {
		fcm, err := services.NewFCMSender(context.Background(), cfg)
		if err != nil {
			logger.L().WithError(err).Warn("Firebase not available, push notifications disabled")
		} else {
			push = fcm
		}
	}

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logger.L().WithError(err).Fatal("Failed to initialize storage")
	}

	hub := websocket.NewHub()
	go hub.Run()

	// Repositories
	decisions := repository.NewDecisionRepository(db)
	quotas := repository.NewQuotaRepository(db)
	matches := repository.NewMatchRepository(db)
	rooms := repository.NewRoomRepository(db)
	profiles := repository.NewProfileRepository(db)
	adsRepo := repository.NewAdRepository(db)

	// Services
	quotaTracker := services.NewQuotaTracker(quotas, redisClient)
	matchmaker := services.NewMatchmaker(matches, decisions, profiles, push)
	swipeService := services.NewSwipeService(decisions, profiles, quotaTracker, matchmaker, push)
	chatService := services.NewChatService(matches)
	roomService := services.NewRoomService(rooms)
	nowService := services.NewNowService(rooms)
	adService := services.NewAdService(adsRepo)

	// Background repair of mutual likes that never produced a match.
	go matchmaker.RunReconcileLoop(context.Background(), cfg.ReconcileInterval)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg)
	profileHandler := handlers.NewProfileHandler(db, cfg, storage)
	swipeHandler := handlers.NewSwipeHandler(swipeService, quotaTracker)
	matchHandler := handlers.NewMatchHandler(matches, profiles)
	messageHandler := handlers.NewMessageHandler(chatService, hub)
	roomHandler := handlers.NewRoomHandler(roomService, hub)
	nowHandler := handlers.NewNowHandler(nowService)
	adHandler := handlers.NewAdHandler(adService)

	router := setupRoutes(cfg, redisClient, hub,
		authHandler, profileHandler, swipeHandler, matchHandler, messageHandler, roomHandler, nowHandler, adHandler)

	logger.L().WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.L().WithError(err).Fatal("Failed to start server")
	}
}

func setupRoutes(cfg *config.Config, redisClient *redis.Client, hub *websocket.Hub,
	authHandler *handlers.AuthHandler, profileHandler *handlers.ProfileHandler,
	swipeHandler *handlers.SwipeHandler, matchHandler *handlers.MatchHandler,
	messageHandler *handlers.MessageHandler, roomHandler *handlers.RoomHandler,
	nowHandler *handlers.NowHandler, adHandler *handlers.AdHandler) *gin.Engine {

	handlers.RegisterValidations()

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(cfg, redisClient)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
		}

		users := v1.Group("/users")
		users.Use(authRequired)
		{
			users.GET("/profile", profileHandler.GetProfile)
			users.PUT("/profile", profileHandler.UpdateProfile)
			users.POST("/profile/photo", profileHandler.UploadPhoto)
			users.DELETE("/profile/photo", profileHandler.DeletePhoto)
			users.POST("/location", profileHandler.UpdateLocation)
			users.POST("/block/:user_id", profileHandler.BlockUser)
			users.DELETE("/block/:user_id", profileHandler.UnblockUser)
			users.POST("/report", profileHandler.ReportUser)
		}

		swipes := v1.Group("/swipes")
		swipes.Use(authRequired)
		{
			swipes.GET("/candidates", swipeHandler.Candidates)
			swipes.POST("/like/:user_id", swipeHandler.Like)
			swipes.POST("/pass/:user_id", swipeHandler.Pass)
			swipes.POST("/superlike/:user_id", swipeHandler.SuperLike)
			swipes.GET("/quota", swipeHandler.Quota)
		}

		matches := v1.Group("/matches")
		matches.Use(authRequired)
		{
			matches.GET("", matchHandler.List)
			matches.GET("/:match_id", matchHandler.Get)
		}

		conversations := v1.Group("/conversations")
		conversations.Use(authRequired)
		{
			conversations.GET("", messageHandler.ListConversations)
			conversations.GET("/:conversation_id/messages", messageHandler.ListMessages)
			conversations.POST("/:conversation_id/messages", messageHandler.SendMessage)
		}

		rooms := v1.Group("/rooms")
		rooms.Use(authRequired)
		{
			rooms.POST("/resolve", roomHandler.Resolve)
			rooms.POST("/:room_id/touch", roomHandler.Touch)
			rooms.POST("/:room_id/messages", roomHandler.Send)
			rooms.GET("/:room_id/messages", roomHandler.Messages)
			rooms.GET("/:room_id/members", roomHandler.Members)
		}

		now := v1.Group("/now")
		now.Use(authRequired)
		{
			now.POST("", nowHandler.Create)
			now.GET("", nowHandler.List)
		}

		ads := v1.Group("/ads")
		ads.Use(authRequired)
		{
			ads.POST("", adHandler.Create)
			ads.GET("", adHandler.List)
			ads.DELETE("/:ad_id", adHandler.Deactivate)
		}

		v1.GET("/ws", authRequired, func(c *gin.Context) {
			websocket.HandleWebSocket(hub, c, middleware.UserID(c))
		})
	}

	return router
}
