package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeapSeeker/matzip-demo/internal/models"
)

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Empty(t, stats)

	_, ok := stats[1]
	assert.False(t, ok)
}

func TestAggregate_AverageRoundedToOneDecimal(t *testing.T) {
	stats := Aggregate([]models.Review{
		{RestaurantID: 1, UserID: "a", Rating: 5},
		{RestaurantID: 1, UserID: "b", Rating: 4},
		{RestaurantID: 1, UserID: "c", Rating: 4},
	})

	s, ok := stats[1]
	require.True(t, ok)
	assert.Equal(t, 3, s.Count)
	require.NotNil(t, s.Average)
	assert.InDelta(t, 4.3, *s.Average, 1e-9)
}

func TestAggregate_HalfRoundsUp(t *testing.T) {
	stats := Aggregate([]models.Review{
		{RestaurantID: 1, UserID: "a", Rating: 4},
		{RestaurantID: 1, UserID: "b", Rating: 5},
	})

	s := stats[1]
	require.NotNil(t, s.Average)
	assert.InDelta(t, 4.5, *s.Average, 1e-9)
}

func TestAggregate_PerRestaurant(t *testing.T) {
	stats := Aggregate([]models.Review{
		{RestaurantID: 1, UserID: "a", Rating: 2},
		{RestaurantID: 2, UserID: "a", Rating: 5},
		{RestaurantID: 2, UserID: "b", Rating: 5},
	})

	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[1].Count)
	assert.Equal(t, 2, stats[2].Count)
	assert.InDelta(t, 2.0, *stats[1].Average, 1e-9)
	assert.InDelta(t, 5.0, *stats[2].Average, 1e-9)

	// A restaurant with no reviews has no entry, so it renders as "no
	// rating" rather than zero.
	_, ok := stats[3]
	assert.False(t, ok)
}
