package models

import (
	"math"
	"time"
)

// Review statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review is the model for the 'reviews' table. One review per
// (product_id, user_id) pair, backed by a unique key.
type Review struct {
	ID               int64     `json:"id" db:"id"`
	ProductID        int64     `json:"productId" db:"product_id"`
	UserID           int64     `json:"userId" db:"user_id"`
	Rating           int       `json:"rating" db:"rating"` // 1..5
	Title            *string   `json:"title,omitempty" db:"title"`
	Comment          string    `json:"comment" db:"comment"`
	Status           string    `json:"status" db:"status"`
	VerifiedPurchase bool      `json:"verifiedPurchase" db:"verified_purchase"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Join (populated manually)
	AuthorName string `json:"authorName,omitempty" db:"-"`
}

// ReviewStats summarises the approved reviews of a product.
type ReviewStats struct {
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int         `json:"totalReviews"`
	Distribution  map[int]int `json:"distribution"` // keys 1..5, always present
}

// ComputeReviewStats aggregates a list of ratings into an average (rounded
// to one decimal) and a 1-5 histogram. Ratings outside 1..5 are ignored.
func ComputeReviewStats(ratings []int) ReviewStats {
	stats := ReviewStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	sum := 0
	for _, r := range ratings {
		if r < 1 || r > 5 {
			continue
		}
		stats.Distribution[r]++
		stats.TotalReviews++
		sum += r
	}

	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats
}
