package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Restaurant is a listing. CreatedBy is immutable after creation and is the
// sole authority for delete permission.
type Restaurant struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex"`
	Address      string    `json:"address" gorm:"not null"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	MapURL       string    `json:"map_url,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Category     string    `json:"category,omitempty"`
	MainMenu     string    `json:"main_menu,omitempty"`
	Features     string    `json:"features,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	GalleryURLs  []string  `json:"gallery_urls,omitempty" gorm:"serializer:json"`
	CreatedBy    string    `json:"created_by" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// AggregateStats is derived from the review collection and never persisted.
// Average is nil when Count is zero, so "no rating" stays distinguishable
// from a zero rating.
type AggregateStats struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

func RestaurantFromRow(row map[string]any) Restaurant {
	return Restaurant{
		ID:           asInt64(row["id"]),
		Name:         asString(row["name"]),
		Address:      asString(row["address"]),
		Description:  asString(row["description"]),
		ThumbnailURL: asString(row["thumbnail_url"]),
		MapURL:       asString(row["map_url"]),
		Lat:          asFloatPtr(row["lat"]),
		Lng:          asFloatPtr(row["lng"]),
		Category:     asString(row["category"]),
		MainMenu:     asString(row["main_menu"]),
		Features:     asString(row["features"]),
		Phone:        asString(row["phone"]),
		GalleryURLs:  asStrings(row["gallery_urls"]),
		CreatedBy:    asString(row["created_by"]),
		CreatedAt:    asTime(row["created_at"]),
	}
}

func (r Restaurant) Row() map[string]any {
	row := map[string]any{
		"name":       r.Name,
		"address":    r.Address,
		"created_by": r.CreatedBy,
	}
	setIfNonEmpty(row, "description", r.Description)
	setIfNonEmpty(row, "thumbnail_url", r.ThumbnailURL)
	setIfNonEmpty(row, "map_url", r.MapURL)
	setIfNonEmpty(row, "category", r.Category)
	setIfNonEmpty(row, "main_menu", r.MainMenu)
	setIfNonEmpty(row, "features", r.Features)
	setIfNonEmpty(row, "phone", r.Phone)
	if r.Lat != nil && r.Lng != nil {
		row["lat"] = *r.Lat
		row["lng"] = *r.Lng
	}
	if len(r.GalleryURLs) > 0 {
		row["gallery_urls"] = r.GalleryURLs
	}
	return row
}

func setIfNonEmpty(row map[string]any, key, value string) {
	if value != "" {
		row[key] = value
	}
}

var latLngPattern = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)

// ExtractLatLng pulls an embedded "@lat,lng" coordinate pair out of a map
// URL. Both values or neither: a half-parsed pair is treated as absent.
func ExtractLatLng(mapURL string) (lat, lng *float64) {
	m := latLngPattern.FindStringSubmatch(mapURL)
	if m == nil {
		return nil, nil
	}
	la, err1 := strconv.ParseFloat(m[1], 64)
	ln, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &la, &ln
}

// NormalizeGalleryURLs turns free text into an ordered, deduplicated URL
// list: split on commas and newlines, trim, drop empties, keep first
// occurrence order.
func NormalizeGalleryURLs(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	seen := make(map[string]bool, len(parts))
	var urls []string
	for _, p := range parts {
		u := strings.TrimSpace(p)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
