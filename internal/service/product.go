package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openbasket/catalog/internal/domain"
	"github.com/openbasket/catalog/internal/event"
	"github.com/openbasket/catalog/internal/repository"
	"github.com/openbasket/catalog/internal/storage"
	apperrors "github.com/openbasket/catalog/pkg/errors"
)

const (
	// defaultListLimit applies when a list request carries no usable limit.
	defaultListLimit = 10

	// topProductCount is how many products the storefront highlight rail shows.
	topProductCount = 3
)

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	images   storage.ImageStore
	logger   *slog.Logger
	maxLimit int
}

// NewProductService creates a new product service. maxLimit caps the page
// size of list requests.
func NewProductService(
	repo repository.ProductRepository,
	producer *event.Producer,
	images storage.ImageStore,
	logger *slog.Logger,
	maxLimit int,
) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		images:   images,
		logger:   logger,
		maxLimit: maxLimit,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	Category    string
	Price       int64
	Stock       int
	Image       string
}

// UpdateProductInput holds the parameters for updating a product. Zero-valued
// fields keep the stored value, which means a legitimate price of 0 or an
// emptied description cannot be set through an update.
type UpdateProductInput struct {
	Name        string
	Description string
	Brand       string
	Category    string
	Price       int64
	Stock       int
	Image       string
}

// ListProductsInput holds the pagination and filter parameters for listing.
type ListProductsInput struct {
	Limit  int
	Skip   int
	Search string
}

// ListProductsResult carries one page of products plus the effective
// pagination values after clamping.
type ListProductsResult struct {
	Products []domain.Product
	Total    int
	Limit    int
	Skip     int
}

// CreateProduct creates a new product owned by the given user.
func (s *ProductService) CreateProduct(ctx context.Context, userID string, input CreateProductInput) (*domain.Product, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Brand:       input.Brand,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		UserID:      userID,
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("user_id", userID),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a page of products plus the total match count.
// The limit is clamped to the configured maximum, the skip into [0, total-1].
// An empty result set is reported as not found.
func (s *ProductService) ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	var search *string
	if input.Search != "" {
		search = &input.Search
	}

	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return nil, &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: "no products found",
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	}

	skip := input.Skip
	if skip < 0 {
		skip = 0
	}
	if skip > total-1 {
		skip = total - 1
	}

	products, err := s.repo.List(ctx, repository.ProductFilter{
		Search: search,
		Limit:  limit,
		Skip:   skip,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ListProductsResult{
		Products: products,
		Total:    total,
		Limit:    limit,
		Skip:     skip,
	}, nil
}

// TopProducts returns the highest-rated products for the storefront rail.
func (s *ProductService) TopProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.Top(ctx, topProductCount)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies partial updates to an existing product. Zero-valued
// input fields leave the stored value untouched. Replacing the image deletes
// the previously stored one.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Brand != "" {
		product.Brand = input.Brand
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Price != 0 {
		if input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = input.Price
	}
	if input.Stock != 0 {
		if input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = input.Stock
	}
	if input.Image != "" && input.Image != product.Image {
		if err := s.images.Delete(ctx, product.Image); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete replaced product image",
				slog.String("product_id", product.ID),
				slog.String("image", product.Image),
				slog.String("error", err.Error()),
			)
		}
		product.Image = input.Image
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product and best-effort deletes its stored image.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.images.Delete(ctx, product.Image); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete product image",
			slog.String("product_id", id),
			slog.String("image", product.Image),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
