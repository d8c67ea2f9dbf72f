package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/api/middleware"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/services"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
)

type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	store             rowstore.Store
	listCap           int
}

func NewRestaurantHandler(restaurantService *services.RestaurantService, store rowstore.Store, listCap int) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService, store: store, listCap: listCap}
}

// ListRestaurants returns the newest listings with their rating stats.
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	cache := services.NewCollectionCache(h.store, h.listCap)
	defer cache.Close()

	if err := cache.LoadAll(c.Request.Context()); err != nil {
		utils.SendInternalError(c, "Failed to fetch restaurants", err)
		return
	}

	utils.SendSuccess(c, "Restaurants retrieved successfully", gin.H{
		"restaurants": cache.Restaurants(),
		"stats":       cache.Stats(),
	})
}

// GetRestaurant returns one listing with its reviews, the caller's own
// review pinned first when signed in.
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid restaurant ID")
		return
	}

	cache := services.NewCollectionCache(h.store, 0)
	defer cache.Close()

	restaurant, err := cache.LoadRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch restaurant", err)
		return
	}
	if restaurant == nil {
		utils.SendValidationError(c, "Restaurant not found")
		return
	}

	utils.SendSuccess(c, "Restaurant retrieved successfully", gin.H{
		"restaurant": restaurant,
		"reviews":    services.PinOwn(cache.Reviews(), c.GetString("user_id")),
		"stats":      cache.Stats()[restaurantID],
	})
}

// CreateRestaurant registers a new listing owned by the caller.
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req services.RestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	id := middleware.IdentityFrom(c)
	restaurant, err := h.restaurantService.Create(c.Request.Context(), id, req)
	if err != nil {
		utils.SendAppError(c, "Failed to create restaurant", err)
		return
	}

	utils.SendSuccess(c, "Restaurant created successfully", restaurant)
}

// DeleteRestaurant removes a listing the caller owns.
func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid restaurant ID")
		return
	}

	id := middleware.IdentityFrom(c)
	if err := h.restaurantService.DeleteOwn(c.Request.Context(), id, restaurantID); err != nil {
		utils.SendAppError(c, "Failed to delete restaurant", err)
		return
	}

	utils.SendSuccess(c, "Restaurant deleted successfully", nil)
}

// GetMine returns the caller's own listings and reviews for the manage
// view.
func (h *RestaurantHandler) GetMine(c *gin.Context) {
	cache := services.NewCollectionCache(h.store, 0)
	defer cache.Close()

	id := middleware.IdentityFrom(c)
	if err := cache.LoadOwn(c.Request.Context(), id.ID); err != nil {
		utils.SendInternalError(c, "Failed to fetch your contributions", err)
		return
	}

	utils.SendSuccess(c, "Contributions retrieved successfully", gin.H{
		"restaurants": cache.Restaurants(),
		"reviews":     cache.Reviews(),
	})
}
