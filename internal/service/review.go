package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbasket/catalog/internal/domain"
	apperrors "github.com/openbasket/catalog/pkg/errors"
)

// AddReviewInput holds the parameters for reviewing a product.
type AddReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

// AddReview appends a review to a product and recomputes its aggregate
// rating. A user may review a product at most once.
func (s *ProductService) AddReview(ctx context.Context, input AddReviewInput) (*domain.Product, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	product, err := s.repo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	if product.HasReviewBy(input.UserID) {
		return nil, apperrors.AlreadyExists("review", "user_id", input.UserID)
	}

	review := domain.Review{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}
	product.AddReview(review)

	if err := s.repo.UpdateReviews(ctx, product); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", product.ID),
		slog.String("user_id", input.UserID),
		slog.Int("rating", input.Rating),
		slog.Float64("product_rating", product.Rating),
	)

	return product, nil
}
