package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/api/handlers"
	"github.com/LeapSeeker/matzip-demo/internal/api/middleware"
	"github.com/LeapSeeker/matzip-demo/internal/config"
	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/services"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

func SetupRoutes(router *gin.Engine, store rowstore.Store, idSvc identity.Service, watcher *services.AuthWatcher, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	gate := services.NewSessionGate(idSvc, cfg.SessionPoll, cfg.SessionBudget)
	authService := services.NewAuthService(idSvc, gate, cfg.LoginBudget)
	reviewService := services.NewReviewService(store)
	restaurantService := services.NewRestaurantService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, watcher)
	reviewHandler := handlers.NewReviewHandler(reviewService, store)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, store, cfg.RestaurantCap)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}

	// Restaurant routes
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("/", restaurantHandler.ListRestaurants)
		restaurants.GET("/:restaurant_id", restaurantHandler.GetRestaurant)
		restaurants.POST("/", middleware.AuthMiddleware(cfg), restaurantHandler.CreateRestaurant)
		restaurants.DELETE("/:restaurant_id", middleware.AuthMiddleware(cfg), restaurantHandler.DeleteRestaurant)
		restaurants.GET("/:restaurant_id/reviews", reviewHandler.GetRestaurantReviews)
		restaurants.POST("/:restaurant_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.UpsertReview)
		restaurants.PUT("/:restaurant_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.UpsertReview)
	}

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.DELETE("/:review_id", middleware.AuthMiddleware(cfg), reviewHandler.DeleteReview)
	}

	// Contributions of the signed-in user
	api.GET("/me/contributions", middleware.AuthMiddleware(cfg), restaurantHandler.GetMine)

	logger.Info("Routes initialized successfully")
}
