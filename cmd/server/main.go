package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LeapSeeker/matzip-demo/internal/api/routes"
	"github.com/LeapSeeker/matzip-demo/internal/config"
	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/services"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize row store
	schema := rowstore.DefaultSchema()
	var store rowstore.Store
	if cfg.DatabaseURL == "memory" {
		store = rowstore.NewMemory(schema)
		logger.Info("Using in-memory row store")
	} else {
		pg, err := rowstore.Open(cfg.DatabaseURL, schema)
		if err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		store = pg
	}

	// Initialize identity service
	var idSvc identity.Service
	if cfg.IdentityURL != "" {
		idSvc = identity.NewHTTPClient(cfg.IdentityURL, cfg.IdentityAPIKey)
	} else {
		mem := identity.NewMemory()
		mem.Secret = cfg.JWTSecret
		idSvc = mem
		logger.Info("Using in-memory identity service")
	}

	// Keep the current identity fresh for the whole process
	watcher := services.NewAuthWatcher(idSvc, cfg.SignOutBudget)
	watcher.Start(context.Background())
	defer watcher.Stop()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, store, idSvc, watcher, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Server starting on port " + port)
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", err)
	}
}
