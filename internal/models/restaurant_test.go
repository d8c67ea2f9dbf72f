package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLatLng(t *testing.T) {
	lat, lng := ExtractLatLng("https://maps.example.com/@35.714765,139.796655,17z")
	require.NotNil(t, lat)
	require.NotNil(t, lng)
	assert.InDelta(t, 35.714765, *lat, 1e-9)
	assert.InDelta(t, 139.796655, *lng, 1e-9)
}

func TestExtractLatLng_Negative(t *testing.T) {
	lat, lng := ExtractLatLng("https://maps.example.com/@-33.86,151.21")
	require.NotNil(t, lat)
	require.NotNil(t, lng)
	assert.InDelta(t, -33.86, *lat, 1e-9)
	assert.InDelta(t, 151.21, *lng, 1e-9)
}

func TestExtractLatLng_Absent(t *testing.T) {
	lat, lng := ExtractLatLng("https://maps.example.com/place/somewhere")
	assert.Nil(t, lat)
	assert.Nil(t, lng)

	lat, lng = ExtractLatLng("")
	assert.Nil(t, lat)
	assert.Nil(t, lng)
}

func TestNormalizeGalleryURLs(t *testing.T) {
	urls := NormalizeGalleryURLs("https://a/1.jpg\nhttps://a/1.jpg,https://a/2.jpg")
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg"}, urls)
}

func TestNormalizeGalleryURLs_TrimsAndDropsEmpties(t *testing.T) {
	urls := NormalizeGalleryURLs("  https://a/1.jpg , \n , https://a/2.jpg\n")
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg"}, urls)
}

func TestNormalizeGalleryURLs_Empty(t *testing.T) {
	assert.Empty(t, NormalizeGalleryURLs(""))
	assert.Empty(t, NormalizeGalleryURLs(" ,\n, "))
}

func TestRestaurantFromRow_Coercion(t *testing.T) {
	r := RestaurantFromRow(map[string]any{
		"id":           float64(7),
		"name":         "Kanda Soba",
		"address":      "Tokyo",
		"lat":          35.7,
		"lng":          float64(139.7),
		"gallery_urls": []any{"https://a/1.jpg", "https://a/2.jpg"},
		"created_by":   "uid-1",
	})
	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "Kanda Soba", r.Name)
	require.NotNil(t, r.Lat)
	assert.InDelta(t, 35.7, *r.Lat, 1e-9)
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg"}, r.GalleryURLs)
	assert.Equal(t, "uid-1", r.CreatedBy)
}

func TestRestaurantRow_OmitsServerAssigned(t *testing.T) {
	lat, lng := 35.7, 139.7
	r := Restaurant{ID: 9, Name: "Kanda Soba", Address: "Tokyo", Lat: &lat, Lng: &lng, CreatedBy: "uid-1"}
	row := r.Row()
	assert.NotContains(t, row, "id")
	assert.NotContains(t, row, "created_at")
	assert.Equal(t, "Kanda Soba", row["name"])
	assert.Equal(t, 35.7, row["lat"])
}

func TestRestaurantRow_HalfCoordinateDropped(t *testing.T) {
	lat := 35.7
	r := Restaurant{Name: "X", Address: "Y", Lat: &lat, CreatedBy: "uid-1"}
	row := r.Row()
	assert.NotContains(t, row, "lat")
	assert.NotContains(t, row, "lng")
}
