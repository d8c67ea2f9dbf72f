package services

import (
	"math"

	"github.com/LeapSeeker/matzip-demo/internal/models"
)

// Aggregate folds a review collection into per-restaurant rating stats.
// Pure and total: empty input yields an empty map, and a restaurant absent
// from the result has no reviews and displays as "no rating", never zero.
// Recompute after every review mutation; the result is never cached across
// mutations.
func Aggregate(reviews []models.Review) map[int64]models.AggregateStats {
	type acc struct {
		sum   int
		count int
	}
	sums := make(map[int64]acc)
	for _, r := range reviews {
		a := sums[r.RestaurantID]
		a.sum += r.Rating
		a.count++
		sums[r.RestaurantID] = a
	}

	stats := make(map[int64]models.AggregateStats, len(sums))
	for id, a := range sums {
		avg := round1(float64(a.sum) / float64(a.count))
		stats[id] = models.AggregateStats{Average: &avg, Count: a.count}
	}
	return stats
}

// round1 rounds to one decimal place, half away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
