package services

import (
	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/types"
)

// Client-side ownership checks. These exist for fast-fail UX before a
// network round trip and for optimistic UI; they are never the security
// boundary. The row store enforces the same predicates independently and
// remains the authority of last resort.

// CanMutateReview reports whether the identity owns the review.
func CanMutateReview(review models.Review, id types.Identity) bool {
	return id.ID != "" && review.UserID == id.ID
}

// CanDeleteRestaurant reports whether the identity created the listing.
func CanDeleteRestaurant(restaurant models.Restaurant, id types.Identity) bool {
	return id.ID != "" && restaurant.CreatedBy == id.ID
}
