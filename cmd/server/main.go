// @title Salesboard API
// @version 1.0
// @description CRM pipeline backend with Messenger ingestion and intent automation
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"salesboard-be/config"
	"salesboard-be/internal/database"
	"salesboard-be/internal/handlers"
	"salesboard-be/internal/middleware"
	"salesboard-be/internal/repository"
	"salesboard-be/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "salesboard-be/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Select the persistence backend
	var stores *repository.Stores
	switch cfg.StorageBackend {
	case "mongo":
		mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongodb.Disconnect()
		stores = repository.NewMongoStores(mongodb.Database)
		logger.Info("using MongoDB storage", zap.String("database", cfg.MongoDBDatabase))
	default:
		stores = repository.NewMemoryStores()
		logger.Info("using in-memory storage")
	}

	// Initialize services
	cardService := services.NewCardService(stores.Cards, logger)
	messenger := services.NewGraphMessenger(cfg, stores.Contacts, stores.Communications, logger)
	contactService := services.NewContactService(stores.Contacts, stores.Columns, stores.Cards, messenger, logger)
	classifier := services.NewIntentClassifier(cfg, stores.Intents, logger)
	automation := services.NewAutomationService(cfg.AutomationConfidence, messenger, stores.Intents, stores.Communications, cardService, logger)
	inbound := services.NewInboundService(contactService, classifier, stores.Communications, stores.Cards, automation, logger)

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(stores.Boards, stores.Columns, stores.Cards, logger)
	cardHandler := handlers.NewCardHandler(stores.Cards, cardService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(stores.Columns, stores.Cards, logger)
	contactHandler := handlers.NewContactHandler(stores.Contacts, stores.Communications, logger)
	intentHandler := handlers.NewIntentHandler(stores.Intents, logger)
	webhookHandler := handlers.NewWebhookHandler(cfg, inbound, logger)
	authHandler := handlers.NewAuthHandler(cfg, stores.Users, logger)

	// Background worker
	services.StartOverdueWorker(context.Background(), cfg.OverdueCheckInterval, stores.Cards, logger)

	// Initialize Gin
	r := gin.Default()

	// Apply CORS middleware
	r.Use(middleware.CORS(cfg))

	// Public routes
	public := r.Group("/api")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Salesboard API is running",
				"storage": cfg.StorageBackend,
			})
		})

		// Messenger webhook (verified by token/signature, never by JWT)
		public.GET("/messenger/verify", webhookHandler.Verify)
		public.POST("/messenger/webhook", webhookHandler.Receive)

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleAuth)
			auth.GET("/google", authHandler.GoogleAuthURL)
			auth.GET("/github", authHandler.GitHubAuthURL)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
	}

	// CRM routes, bearer-protected only when auth is enabled
	crm := r.Group("/api")
	if cfg.AuthEnabled {
		crm.Use(middleware.AuthMiddleware(cfg))
	}
	{
		crm.POST("/boards", boardHandler.CreateBoard)
		crm.GET("/boards", boardHandler.GetBoards)
		crm.GET("/boards/:board_id/columns", boardHandler.GetBoardColumns)
		crm.POST("/initialize", boardHandler.Initialize)

		crm.POST("/cards", cardHandler.CreateCard)
		crm.GET("/cards", cardHandler.GetCards)
		crm.PUT("/cards/:card_id", cardHandler.UpdateCard)
		crm.DELETE("/cards/:card_id", cardHandler.DeleteCard)
		crm.POST("/cards/move", cardHandler.MoveCard)

		crm.GET("/analytics/pipeline", analyticsHandler.GetPipelineAnalytics)

		crm.GET("/contacts", contactHandler.GetContacts)
		crm.GET("/contacts/:contact_id/communications", contactHandler.GetContactCommunications)
		crm.GET("/communications", contactHandler.GetCommunications)

		crm.GET("/intents", intentHandler.GetIntents)
		crm.POST("/intents", intentHandler.CreateIntent)
	}

	// Routes that always require a valid token
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
