package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/api/middleware"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/services"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	store         rowstore.Store
}

func NewReviewHandler(reviewService *services.ReviewService, store rowstore.Store) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, store: store}
}

type UpsertReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GetRestaurantReviews lists a restaurant's reviews newest first. When the
// caller is signed in their own review is pinned to the top.
func (h *ReviewHandler) GetRestaurantReviews(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid restaurant ID")
		return
	}

	cache := services.NewCollectionCache(h.store, 0)
	defer cache.Close()

	if err := cache.ReloadReviews(c.Request.Context(), restaurantID); err != nil {
		utils.SendInternalError(c, "Failed to fetch reviews", err)
		return
	}

	reviews := services.PinOwn(cache.Reviews(), c.GetString("user_id"))
	utils.SendSuccess(c, "Reviews retrieved successfully", gin.H{
		"reviews": reviews,
		"stats":   cache.Stats()[restaurantID],
	})
}

// UpsertReview creates or replaces the caller's review for a restaurant.
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid restaurant ID")
		return
	}

	var req UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	cache := services.NewCollectionCache(h.store, 0)
	defer cache.Close()

	id := middleware.IdentityFrom(c)
	outcome, err := h.reviewService.UpsertOwn(c.Request.Context(), cache, restaurantID, id, req.Rating, req.Comment)
	if err != nil {
		utils.SendAppError(c, "Failed to save review", err)
		return
	}

	message := "Review saved successfully"
	if outcome.RefreshErr != nil {
		message = "Review saved; refresh failed"
	}
	utils.SendSuccess(c, message, outcome.Review)
}

// DeleteReview removes the caller's review. The row store independently
// refuses deletes of other users' rows.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch review", err)
		return
	}
	if review == nil {
		utils.SendValidationError(c, "Review not found")
		return
	}

	cache := services.NewCollectionCache(h.store, 0)
	defer cache.Close()

	id := middleware.IdentityFrom(c)
	outcome, err := h.reviewService.DeleteOwn(c.Request.Context(), cache, *review, id)
	if err != nil {
		utils.SendAppError(c, "Failed to delete review", err)
		return
	}

	message := "Review deleted successfully"
	if outcome.RefreshErr != nil {
		message = "Review deleted; refresh failed"
	}
	utils.SendSuccess(c, message, nil)
}
