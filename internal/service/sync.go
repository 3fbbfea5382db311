package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openbasket/catalog/internal/event"
	"github.com/openbasket/catalog/internal/marketplace"
	"github.com/openbasket/catalog/internal/repository"
	apperrors "github.com/openbasket/catalog/pkg/errors"
)

const (
	// defaultSyncLimit applies when a sync request carries no usable limit.
	defaultSyncLimit = 10

	// maxSyncLimit bounds how many listings one sync run may pull.
	maxSyncLimit = 50
)

// SyncInput holds the parameters for one marketplace sync run.
type SyncInput struct {
	Source   string
	Category string
	Limit    int
	UserID   string
}

// SyncResult holds the aggregate counts of one sync run. A listing that
// failed to import appears in Fetched but in neither Imported nor Skipped.
type SyncResult struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SyncService imports marketplace listings into the local catalog.
type SyncService struct {
	repo        repository.ProductRepository
	registry    *marketplace.Registry
	transformer *marketplace.Transformer
	producer    *event.Producer
	logger      *slog.Logger
}

// NewSyncService creates a new marketplace sync service.
func NewSyncService(
	repo repository.ProductRepository,
	registry *marketplace.Registry,
	transformer *marketplace.Transformer,
	producer *event.Producer,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		repo:        repo,
		registry:    registry,
		transformer: transformer,
		producer:    producer,
		logger:      logger,
	}
}

// Sync fetches listings from the named source, transforms them and upserts
// each into the catalog, owned by the requesting user. A fetch failure is
// logged and reported as zero results rather than an error; an unknown
// source is an invalid-input error. Listings whose name or (external id,
// source) pair already exists are skipped by the upsert.
func (s *SyncService) Sync(ctx context.Context, input SyncInput) (*SyncResult, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	fetcher, ok := s.registry.Lookup(input.Source)
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"unknown source %q, valid sources: %s",
			input.Source, strings.Join(s.registry.Sources(), ", "),
		))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSyncLimit
	}
	if limit > maxSyncLimit {
		limit = maxSyncLimit
	}

	listings, err := fetcher.Fetch(ctx, input.Category, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "marketplace fetch failed",
			slog.String("source", input.Source),
			slog.String("category", input.Category),
			slog.String("error", err.Error()),
		)
		return &SyncResult{}, nil
	}

	result := &SyncResult{Fetched: len(listings)}

	for _, listing := range listings {
		product := s.transformer.Transform(listing, input.Source, input.UserID)

		inserted, err := s.repo.Upsert(ctx, &product)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to import listing",
				slog.String("source", input.Source),
				slog.String("external_id", listing.ExternalID),
				slog.String("name", listing.Title),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}
		result.Imported++

		if err := s.producer.PublishProductImported(ctx, &product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.imported event",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "marketplace sync completed",
		slog.String("source", input.Source),
		slog.String("category", input.Category),
		slog.Int("fetched", result.Fetched),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}
