package domain

import (
	"time"
)

// Product represents a catalog item. The review list is embedded in the
// product record as a JSON document rather than a separate table, so review
// reads and writes always travel with the product row.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"num_reviews"`
	UserID      string    `json:"user_id"`
	Reviews     []Review  `json:"reviews"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Source      string    `json:"source,omitempty"`
	IsExternal  bool      `json:"is_external"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Review represents a user-submitted rating and comment embedded in a product.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// HasReviewBy reports whether the given user has already reviewed the product.
func (p *Product) HasReviewBy(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AddReview appends a review and recomputes the aggregate rating and count.
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
	p.RecalculateRating()
}

// RecalculateRating sets Rating to the arithmetic mean of all embedded review
// ratings (0 when there are none) and NumReviews to the review count.
func (p *Product) RecalculateRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
