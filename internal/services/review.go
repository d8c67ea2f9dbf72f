package services

import (
	"context"
	"sync/atomic"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/types"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

// ReviewMutation is the outcome of a successful review write. RefreshErr
// is the secondary failure of the targeted reload that follows a write: it
// must never be reported as a failure of the write itself.
type ReviewMutation struct {
	Review     models.Review
	RefreshErr error
}

// ReviewService mutates one's own reviews. At most one mutation is in
// flight per instance: the busy flag rejects re-entrant submits as no-ops
// instead of queueing them.
type ReviewService struct {
	store  rowstore.Store
	saving atomic.Bool
}

func NewReviewService(store rowstore.Store) *ReviewService {
	return &ReviewService{store: store}
}

// UpsertOwn creates or replaces the identity's single review for a
// restaurant, keyed on (restaurant_id, user_id). Calling it twice with
// different content replaces the one row rather than adding a second.
// After the write only the affected review collection is reloaded.
func (s *ReviewService) UpsertOwn(ctx context.Context, cache *CollectionCache, restaurantID int64, id types.Identity, rating int, comment string) (*ReviewMutation, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, apperr.ErrBusy
	}
	defer s.saving.Store(false)

	if id.ID == "" {
		return nil, apperr.ErrNotSignedIn
	}

	c := utils.SanitizeString(comment)
	if c == "" {
		return nil, apperr.Validation("comment is required")
	}
	if !utils.IsValidComment(c) {
		return nil, apperr.Validation("comment must be at most 120 characters")
	}
	if !utils.IsValidRating(rating) {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	review := models.Review{
		RestaurantID: restaurantID,
		UserID:       id.ID,
		Rating:       rating,
		Comment:      c,
	}

	ctx = rowstore.WithActor(ctx, id.ID)
	if err := s.store.Upsert(ctx, "reviews", review.Row(), []string{"restaurant_id", "user_id"}); err != nil {
		return nil, apperr.NormalizeStore(err)
	}

	outcome := &ReviewMutation{Review: review}
	if err := cache.ReloadReviews(ctx, restaurantID); err != nil {
		// The write is committed; surface the refresh problem separately.
		logger.WithFields(map[string]interface{}{"restaurant_id": restaurantID, "error": err.Error()}).Warn("review saved but refresh failed")
		outcome.RefreshErr = err
		return outcome, nil
	}

	for _, r := range cache.Reviews() {
		if r.RestaurantID == restaurantID && r.UserID == id.ID {
			outcome.Review = r
			break
		}
	}
	return outcome, nil
}

// DeleteOwn removes the identity's review. The ownership fast-check here
// is UX only; the row store independently restricts the delete to the
// owner's rows. On failure the cache is left untouched.
func (s *ReviewService) DeleteOwn(ctx context.Context, cache *CollectionCache, review models.Review, id types.Identity) (*ReviewMutation, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, apperr.ErrBusy
	}
	defer s.saving.Store(false)

	if id.ID == "" {
		return nil, apperr.ErrNotSignedIn
	}
	if !CanMutateReview(review, id) {
		return nil, apperr.Validation("only the review owner can delete it")
	}

	ctx = rowstore.WithActor(ctx, id.ID)
	err := s.store.Delete(ctx, "reviews", []rowstore.Filter{
		rowstore.Eq("restaurant_id", review.RestaurantID),
		rowstore.Eq("user_id", id.ID),
	})
	if err != nil {
		return nil, apperr.NormalizeStore(err)
	}

	cache.RemoveReview(review.ID)

	outcome := &ReviewMutation{Review: review}
	if err := cache.ReloadReviews(ctx, review.RestaurantID); err != nil {
		logger.WithFields(map[string]interface{}{"restaurant_id": review.RestaurantID, "error": err.Error()}).Warn("review deleted but refresh failed")
		outcome.RefreshErr = err
	}
	return outcome, nil
}

// Get fetches one review by id. Reads are public; ownership only matters
// for mutations.
func (s *ReviewService) Get(ctx context.Context, reviewID int64) (*models.Review, error) {
	row, err := s.store.SelectOne(ctx, rowstore.Query{
		Collection: "reviews",
		Filters:    []rowstore.Filter{rowstore.Eq("id", reviewID)},
	})
	if err != nil {
		return nil, apperr.NormalizeStore(err)
	}
	if row == nil {
		return nil, nil
	}
	review := models.ReviewFromRow(row)
	return &review, nil
}

// PinOwn puts the identity's own review first, keeping the rest in their
// fetched recency order. Purely a presentation transform; the underlying
// collection order is untouched.
func PinOwn(reviews []models.Review, uid string) []models.Review {
	if uid == "" {
		return reviews
	}
	out := make([]models.Review, 0, len(reviews))
	var own *models.Review
	for i := range reviews {
		if reviews[i].UserID == uid && own == nil {
			own = &reviews[i]
			continue
		}
		out = append(out, reviews[i])
	}
	if own == nil {
		return reviews
	}
	return append([]models.Review{*own}, out...)
}
