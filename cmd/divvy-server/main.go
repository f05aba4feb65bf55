package main

import (
	"log"

	"github.com/divvyapp/divvy/pkg/divvy/activity"
	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/config"
	"github.com/divvyapp/divvy/pkg/divvy/database"
	"github.com/divvyapp/divvy/pkg/divvy/groups"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/divvyapp/divvy/pkg/divvy/sharelinks"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Divvy API
// @version 1.0
// @description Shared-finance groups with invite links, approval policies, and activity feeds.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Create default admin user if no admin exists
	if err := ensureAdminExists(); err != nil {
		logger.Fatal("Failed to ensure admin user exists", zap.Error(err))
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "divvy",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Groups routes (protected)
		groupsHandler := groups.NewHandler(database.GetDB(), cfg, logger)
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterMemberRoutes(groupsGroup)

		// Share link routes (protected; preview does not require membership)
		shareHandler := sharelinks.NewHandler(database.GetDB(), cfg)
		shareHandler.RegisterGroupRoutes(groupsGroup)

		joinGroup := api.Group("/join")
		joinGroup.Use(auth.AuthMiddleware())
		shareHandler.RegisterJoinRoutes(joinGroup)
		groupsHandler.RegisterJoinRoutes(joinGroup)

		// Activity feed routes (protected)
		activityHandler := activity.NewHandler(database.GetDB())
		activityGroup := api.Group("/activity")
		activityGroup.Use(auth.AuthMiddleware())
		activityHandler.RegisterRoutes(activityGroup)
	}

	logger.Info("Starting Divvy server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the database
func ensureAdminExists() error {
	db := database.GetDB()

	// Check if any admin user exists
	var count int64
	if err := db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Create default admin user
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        "admin@divvy.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		SystemRole:   models.SystemRoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin@divvy.local (password: changeme)")
	return nil
}
