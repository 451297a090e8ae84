package main

import (
	"fmt"
	"net/http"
	"os"

	"pennywise/internal/config"
	"pennywise/internal/crypto"
	"pennywise/internal/database"
	"pennywise/internal/handlers"
	"pennywise/internal/logger"
	"pennywise/internal/middleware"
	"pennywise/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pennywise/internal/docs" // Import swagger docs
)

// @title           Pennywise API
// @version         1.0
// @description     Pennywise is a personal budgeting application: users register, authenticate, and manage categorized budgets with monetary fields encrypted at rest.

// @host      localhost:8080
// @BasePath  /

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize the field cipher with the process-wide secret
	fieldCipher, err := crypto.New(appConfig.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to initialize field cipher: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, appConfig.SessionLifetime)
	budgetService := services.NewBudgetService(db, fieldCipher)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, auditService)
	accountHandler := handlers.NewAccountHandler(userService, sessionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/register", authHandler.RegisterForm)
	router.POST("/register", authHandler.Register)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.SessionGate(sessionService))

	protected.GET("/", budgetHandler.Index)
	protected.GET("/budget/:id", budgetHandler.GetBudget)
	protected.GET("/create", budgetHandler.NewBudgetForm)
	protected.POST("/create", budgetHandler.CreateBudget)
	protected.POST("/update", budgetHandler.UpdateBudget)
	protected.POST("/delete", budgetHandler.DeleteBudget)

	protected.GET("/account", accountHandler.GetAccount)
	protected.POST("/change-password", accountHandler.ChangePassword)
	protected.POST("/delete-account", accountHandler.DeleteAccount)

	// Themed 404 for unknown routes
	router.NoRoute(handlers.NotFound)

	log.Infof("Starting Pennywise server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
