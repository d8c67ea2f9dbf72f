package services

import (
	"context"
	"strings"
	"sync"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/types"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

// RestaurantInput is the raw form payload for a new listing. GalleryText is
// free text; URLs are derived from it, not taken as-is.
type RestaurantInput struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	MapURL       string `json:"map_url"`
	Category     string `json:"category"`
	MainMenu     string `json:"main_menu"`
	Features     string `json:"features"`
	Phone        string `json:"phone"`
	GalleryText  string `json:"gallery_text"`
}

// RestaurantService creates and deletes one's own listings.
type RestaurantService struct {
	store rowstore.Store

	mu       sync.Mutex
	deleting map[int64]bool
}

func NewRestaurantService(store rowstore.Store) *RestaurantService {
	return &RestaurantService{
		store:    store,
		deleting: make(map[int64]bool),
	}
}

// Create validates and inserts a listing owned by the identity. A map URL
// with an embedded "@lat,lng" pair yields stored coordinates; gallery URLs
// come from splitting the free text. A uniqueness conflict surfaces as
// "already registered", not a generic failure.
func (s *RestaurantService) Create(ctx context.Context, id types.Identity, input RestaurantInput) (*models.Restaurant, error) {
	if id.ID == "" {
		// The surface reacts by redirecting to sign-in.
		return nil, apperr.ErrNotSignedIn
	}

	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, apperr.Validation("name and address are required")
	}

	mapURL := strings.TrimSpace(input.MapURL)
	lat, lng := models.ExtractLatLng(mapURL)

	restaurant := models.Restaurant{
		Name:         name,
		Address:      address,
		Description:  strings.TrimSpace(input.Description),
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		MapURL:       mapURL,
		Lat:          lat,
		Lng:          lng,
		Category:     strings.TrimSpace(input.Category),
		MainMenu:     strings.TrimSpace(input.MainMenu),
		Features:     strings.TrimSpace(input.Features),
		Phone:        strings.TrimSpace(input.Phone),
		GalleryURLs:  models.NormalizeGalleryURLs(input.GalleryText),
		CreatedBy:    id.ID,
	}

	ctx = rowstore.WithActor(ctx, id.ID)
	if err := s.store.Insert(ctx, "restaurants", restaurant.Row()); err != nil {
		return nil, apperr.NormalizeStore(err)
	}

	row, err := s.store.SelectOne(ctx, rowstore.Query{
		Collection: "restaurants",
		Filters:    []rowstore.Filter{rowstore.Eq("name", name)},
	})
	if err == nil && row != nil {
		created := models.RestaurantFromRow(row)
		restaurant = created
	}

	logger.WithFields(map[string]interface{}{"restaurant": name, "user_id": id.ID}).Info("restaurant created")
	return &restaurant, nil
}

// DeleteOwn removes a listing. There is no client-side ownership pre-check
// beyond refusing a second delete for the same id while one is outstanding;
// ownership is enforced entirely by the row store's policy, and a rejected
// delete surfaces as a generic failure.
func (s *RestaurantService) DeleteOwn(ctx context.Context, id types.Identity, restaurantID int64) error {
	if id.ID == "" {
		return apperr.ErrNotSignedIn
	}

	s.mu.Lock()
	if s.deleting[restaurantID] {
		s.mu.Unlock()
		return apperr.ErrBusy
	}
	s.deleting[restaurantID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.deleting, restaurantID)
		s.mu.Unlock()
	}()

	ctx = rowstore.WithActor(ctx, id.ID)
	err := s.store.Delete(ctx, "restaurants", []rowstore.Filter{
		rowstore.Eq("id", restaurantID),
	})
	if err != nil {
		return apperr.NormalizeStore(err)
	}

	logger.WithFields(map[string]interface{}{"restaurant_id": restaurantID}).Info("restaurant deleted")
	return nil
}
