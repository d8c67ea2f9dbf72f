package models

import (
	"time"
)

// Review is one user's single review of a restaurant. The composite unique
// index is what backs the upsert-on-conflict key: at most one review per
// (restaurant, user).
type Review struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	RestaurantID int64     `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_restaurant_user"`
	UserID       string    `json:"user_id" gorm:"not null;uniqueIndex:idx_restaurant_user"`
	Rating       int       `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment      string    `json:"comment" gorm:"size:120"`
	PhotoURLs    []string  `json:"photo_urls,omitempty" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewFromRow coerces the row store's loose map shape into a typed Review.
// The loose shape never travels past this boundary.
func ReviewFromRow(row map[string]any) Review {
	return Review{
		ID:           asInt64(row["id"]),
		RestaurantID: asInt64(row["restaurant_id"]),
		UserID:       asString(row["user_id"]),
		Rating:       int(asInt64(row["rating"])),
		Comment:      asString(row["comment"]),
		PhotoURLs:    asStrings(row["photo_urls"]),
		CreatedAt:    asTime(row["created_at"]),
		UpdatedAt:    asTime(row["updated_at"]),
	}
}

// Row flattens the review into the store's shape. Server-assigned fields
// (id, timestamps) are left out.
func (r Review) Row() map[string]any {
	row := map[string]any{
		"restaurant_id": r.RestaurantID,
		"user_id":       r.UserID,
		"rating":        r.Rating,
		"comment":       r.Comment,
	}
	if len(r.PhotoURLs) > 0 {
		row["photo_urls"] = r.PhotoURLs
	}
	return row
}
