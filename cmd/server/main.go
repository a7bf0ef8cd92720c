package main

import (
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/habitsync-api/internal/cache"
	"github.com/yukikurage/habitsync-api/internal/config"
	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/database"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/handlers"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"github.com/yukikurage/habitsync-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs sessions, the change broker and the reset-token cache
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	// Initialize Gin router
	r := gin.Default()

	// CORS for the web client
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // username (empty for default user)
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	pairingRepo := repository.NewPairingRepository(db)

	// Change broker and read gateway
	broker := gateway.NewRedisBroker(redisClient)
	gw := gateway.New(taskRepo, rewardRepo, activityRepo, scoreRepo, broker)

	// Services
	tokenCache := cache.NewTokenCache(redisClient)
	authService := services.NewAuthService(userRepo, tokenCache)
	taskService := services.NewTaskService(taskRepo, broker)
	rewardService := services.NewRewardService(rewardRepo, broker)
	ledgerService := services.NewLedgerService(ledgerRepo, scoreRepo, broker)
	pairingService := services.NewPairingService(pairingRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, ledgerService, gw)
	rewardHandler := handlers.NewRewardHandler(rewardService, ledgerService, gw)
	activityHandler := handlers.NewActivityHandler(activityRepo, ledgerService)
	scoreHandler := handlers.NewScoreHandler(ledgerService)
	pairingHandler := handlers.NewPairingHandler(pairingService, authService)
	partnerHandler := handlers.NewPartnerHandler(gw)
	streamHandler := handlers.NewStreamHandler(gw, pairingService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "HabitSync API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public unless noted)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/username", middleware.RequireAuth(), authHandler.UpdateUsername)
			auth.POST("/password-reset", authHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
		}

		// Reward routes (protected)
		rewards := api.Group("/rewards")
		rewards.Use(middleware.RequireAuth())
		{
			rewards.GET("", rewardHandler.ListRewards)
			rewards.POST("", rewardHandler.CreateReward)
			rewards.GET("/:id", rewardHandler.GetReward)
			rewards.PATCH("/:id", rewardHandler.UpdateReward)
			rewards.DELETE("/:id", rewardHandler.DeleteReward)
			rewards.POST("/:id/claim", rewardHandler.ClaimReward)
		}

		// Activity ledger routes (protected)
		activities := api.Group("/activities")
		activities.Use(middleware.RequireAuth())
		{
			activities.GET("", activityHandler.ListActivities)
			activities.DELETE("/:id", activityHandler.DeleteActivity)
		}

		// Score routes (protected)
		score := api.Group("/score")
		score.Use(middleware.RequireAuth())
		{
			score.GET("", scoreHandler.GetScore)
			score.GET("/audit", scoreHandler.AuditScore)
			score.POST("/adjust", scoreHandler.AdjustScore)
		}

		// Pairing routes (protected)
		pairing := api.Group("/pairing")
		pairing.Use(middleware.RequireAuth())
		{
			pairing.POST("/invitations", pairingHandler.SendInvitation)
			pairing.GET("/invitations", pairingHandler.ListInvitations)
			pairing.POST("/invitations/:id/accept", pairingHandler.AcceptInvitation)
			pairing.POST("/invitations/:id/reject", pairingHandler.RejectInvitation)
			pairing.GET("/partner", pairingHandler.GetPartner)
			pairing.DELETE("/partner", pairingHandler.Unpair)
		}

		// Partner read-only views (protected, require an accepted pairing)
		partner := api.Group("/partner")
		partner.Use(middleware.RequireAuth(), middleware.RequirePartner(pairingService))
		{
			partner.GET("/tasks", partnerHandler.ListPartnerTasks)
			partner.GET("/rewards", partnerHandler.ListPartnerRewards)
			partner.GET("/activities", partnerHandler.ListPartnerActivities)
			partner.GET("/score", partnerHandler.GetPartnerScore)
		}

		// Live state stream (protected)
		api.GET("/stream", middleware.RequireAuth(), streamHandler.Stream)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
