package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
)

const defaultRestaurantCap = 30

// CollectionCache is one view's in-memory copy of the two collections, with
// targeted refresh after a mutation instead of a full reload. Instances
// are per view, never shared: cross-view consistency comes from re-reading
// after mutations, not from propagating deltas.
type CollectionCache struct {
	store         rowstore.Store
	restaurantCap int

	mu          sync.Mutex
	closed      bool
	generation  uint64
	restaurants []models.Restaurant
	reviews     []models.Review
	stats       map[int64]models.AggregateStats
}

// NewCollectionCache builds a view cache whose restaurant list is capped
// at listCap rows; zero or negative falls back to the default.
func NewCollectionCache(store rowstore.Store, listCap int) *CollectionCache {
	if listCap <= 0 {
		listCap = defaultRestaurantCap
	}
	return &CollectionCache{
		store:         store,
		restaurantCap: listCap,
		stats:         map[int64]models.AggregateStats{},
	}
}

// Close marks the view as gone. Results of loads still in flight are
// discarded instead of overwriting a newer view's data.
func (c *CollectionCache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// LoadAll fetches the restaurant list (newest first, capped) and the whole
// review collection, then recomputes aggregates.
func (c *CollectionCache) LoadAll(ctx context.Context) error {
	gen := c.begin()

	restaurants, err := c.fetchRestaurants(ctx, nil, c.restaurantCap)
	if err != nil {
		return fmt.Errorf("load restaurants: %w", err)
	}
	reviews, err := c.fetchReviews(ctx, nil)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}

	c.commit(gen, func() {
		c.restaurants = restaurants
		c.reviews = reviews
		c.stats = Aggregate(reviews)
	})
	return nil
}

// LoadRestaurant fetches one listing and its reviews.
func (c *CollectionCache) LoadRestaurant(ctx context.Context, restaurantID int64) (*models.Restaurant, error) {
	gen := c.begin()

	row, err := c.store.SelectOne(ctx, rowstore.Query{
		Collection: "restaurants",
		Filters:    []rowstore.Filter{rowstore.Eq("id", restaurantID)},
	})
	if err != nil {
		return nil, fmt.Errorf("load restaurant %d: %w", restaurantID, err)
	}
	if row == nil {
		return nil, nil
	}
	restaurant := models.RestaurantFromRow(row)

	reviews, err := c.fetchReviews(ctx, []rowstore.Filter{rowstore.Eq("restaurant_id", restaurantID)})
	if err != nil {
		return nil, fmt.Errorf("load reviews for restaurant %d: %w", restaurantID, err)
	}

	c.commit(gen, func() {
		c.restaurants = []models.Restaurant{restaurant}
		c.reviews = reviews
		c.stats = Aggregate(reviews)
	})
	return &restaurant, nil
}

// ReloadReviews is the targeted refresh after a review mutation: only the
// affected restaurant's review collection is re-fetched, through the same
// read path the initial load uses.
func (c *CollectionCache) ReloadReviews(ctx context.Context, restaurantID int64) error {
	gen := c.begin()

	reviews, err := c.fetchReviews(ctx, []rowstore.Filter{rowstore.Eq("restaurant_id", restaurantID)})
	if err != nil {
		return fmt.Errorf("reload reviews for restaurant %d: %w", restaurantID, err)
	}

	c.commit(gen, func() {
		c.reviews = reviews
		c.stats = Aggregate(reviews)
	})
	return nil
}

// LoadOwn fetches the identity's own reviews and listings for the manage
// view.
func (c *CollectionCache) LoadOwn(ctx context.Context, uid string) error {
	gen := c.begin()

	reviews, err := c.fetchReviews(ctx, []rowstore.Filter{rowstore.Eq("user_id", uid)})
	if err != nil {
		return fmt.Errorf("load own reviews: %w", err)
	}
	restaurants, err := c.fetchRestaurants(ctx, []rowstore.Filter{rowstore.Eq("created_by", uid)}, 0)
	if err != nil {
		return fmt.Errorf("load own restaurants: %w", err)
	}

	c.commit(gen, func() {
		c.reviews = reviews
		c.restaurants = restaurants
		c.stats = Aggregate(reviews)
	})
	return nil
}

// RemoveReview drops a review from the cached collection optimistically
// after a confirmed delete.
func (c *CollectionCache) RemoveReview(reviewID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.reviews[:0]
	for _, r := range c.reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	c.reviews = kept
	c.stats = Aggregate(c.reviews)
}

func (c *CollectionCache) Restaurants() []models.Restaurant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Restaurant(nil), c.restaurants...)
}

func (c *CollectionCache) Reviews() []models.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Review(nil), c.reviews...)
}

// Stats returns the aggregate derived from the cached reviews. A missing
// key means "no rating".
func (c *CollectionCache) Stats() map[int64]models.AggregateStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]models.AggregateStats, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

// fetchRestaurants is the canonical restaurant read path.
func (c *CollectionCache) fetchRestaurants(ctx context.Context, filters []rowstore.Filter, limit int) ([]models.Restaurant, error) {
	rows, err := c.store.Select(ctx, rowstore.Query{
		Collection: "restaurants",
		Filters:    filters,
		OrderBy:    "created_at",
		Desc:       true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	restaurants := make([]models.Restaurant, len(rows))
	for i, row := range rows {
		restaurants[i] = models.RestaurantFromRow(row)
	}
	return restaurants, nil
}

// fetchReviews is the one place review queries are built, so the initial
// load and every targeted reload share identical sort and filter
// semantics. Newest activity first.
func (c *CollectionCache) fetchReviews(ctx context.Context, filters []rowstore.Filter) ([]models.Review, error) {
	rows, err := c.store.Select(ctx, rowstore.Query{
		Collection: "reviews",
		Filters:    filters,
		OrderBy:    "updated_at",
		Desc:       true,
	})
	if err != nil {
		return nil, err
	}
	reviews := make([]models.Review, len(rows))
	for i, row := range rows {
		reviews[i] = models.ReviewFromRow(row)
	}
	return reviews, nil
}

func (c *CollectionCache) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// commit applies fetched data unless the view closed or a newer load
// started while this one was in flight.
func (c *CollectionCache) commit(gen uint64, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	apply()
}
