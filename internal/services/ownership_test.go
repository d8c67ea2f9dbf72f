package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/types"
)

func TestCanMutateReview(t *testing.T) {
	review := models.Review{UserID: "uid-alice"}

	assert.True(t, CanMutateReview(review, alice))
	assert.False(t, CanMutateReview(review, bob))
	assert.False(t, CanMutateReview(review, types.Identity{}))
}

func TestCanDeleteRestaurant(t *testing.T) {
	restaurant := models.Restaurant{CreatedBy: "uid-alice"}

	assert.True(t, CanDeleteRestaurant(restaurant, alice))
	assert.False(t, CanDeleteRestaurant(restaurant, bob))
	assert.False(t, CanDeleteRestaurant(restaurant, types.Identity{}))
}
