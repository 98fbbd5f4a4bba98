package models

import "testing"

func TestComputeReviewStats(t *testing.T) {
	t.Run("mixed ratings", func(t *testing.T) {
		stats := ComputeReviewStats([]int{5, 5, 4, 3})
		if stats.AverageRating != 4.3 {
			t.Errorf("expected average 4.3, got %v", stats.AverageRating)
		}
		if stats.TotalReviews != 4 {
			t.Errorf("expected 4 reviews, got %d", stats.TotalReviews)
		}
		want := map[int]int{5: 2, 4: 1, 3: 1, 2: 0, 1: 0}
		for star, count := range want {
			if stats.Distribution[star] != count {
				t.Errorf("distribution[%d]: expected %d, got %d", star, count, stats.Distribution[star])
			}
		}
	})

	t.Run("no reviews", func(t *testing.T) {
		stats := ComputeReviewStats(nil)
		if stats.AverageRating != 0 || stats.TotalReviews != 0 {
			t.Errorf("expected zero stats, got %+v", stats)
		}
		for star := 1; star <= 5; star++ {
			if _, ok := stats.Distribution[star]; !ok {
				t.Errorf("distribution missing key %d", star)
			}
		}
	})

	t.Run("rounding to one decimal", func(t *testing.T) {
		stats := ComputeReviewStats([]int{5, 4, 4}) // 4.333...
		if stats.AverageRating != 4.3 {
			t.Errorf("expected 4.3, got %v", stats.AverageRating)
		}
		stats = ComputeReviewStats([]int{5, 5, 4}) // 4.666...
		if stats.AverageRating != 4.7 {
			t.Errorf("expected 4.7, got %v", stats.AverageRating)
		}
	})

	t.Run("out of range ratings ignored", func(t *testing.T) {
		stats := ComputeReviewStats([]int{5, 0, 6, -1})
		if stats.TotalReviews != 1 || stats.AverageRating != 5 {
			t.Errorf("expected a single 5-star review counted, got %+v", stats)
		}
	})
}
