package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/openbasket/catalog/pkg/httpclient"
)

// fakeStoreProduct mirrors the response shape of the Fake Store API.
type fakeStoreProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// FakeStoreClient fetches listings from the public Fake Store API. The API
// has no server-side search, so the category keyword is applied client-side
// against title and category.
type FakeStoreClient struct {
	baseURL string
	client  HTTPDoer
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFakeStoreClient creates a Fake Store fetcher against the given base URL.
func NewFakeStoreClient(baseURL string, client HTTPDoer, logger *slog.Logger) *FakeStoreClient {
	return &FakeStoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		// Public demo API with no published quota; stay polite.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:  logger,
	}
}

// Source returns the registry name of this marketplace.
func (c *FakeStoreClient) Source() string { return SourceFakeStore }

// Fetch retrieves up to limit listings and filters them by the category
// keyword on title and category.
func (c *FakeStoreClient) Fetch(ctx context.Context, category string, limit int) ([]ExternalProduct, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fakestore rate limiter: %w", err)
	}

	requestURL := fmt.Sprintf("%s/products?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create fakestore request: %w", err)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call fakestore: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "fakestore")
	}

	var items []fakeStoreProduct
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode fakestore response: %w", err)
	}

	products := make([]ExternalProduct, 0, len(items))
	for _, item := range items {
		if !fakeStoreMatches(item, category) {
			continue
		}
		products = append(products, ExternalProduct{
			ExternalID:  strconv.Itoa(item.ID),
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			Image:       item.Image,
			PriceUSD:    item.Price,
			Rating:      item.Rating.Rate,
		})
	}

	c.logger.DebugContext(ctx, "fetched fakestore listings",
		slog.Int("returned", len(items)),
		slog.Int("matched", len(products)),
		slog.String("category", category),
	)

	return products, nil
}

// fakeStoreMatches reports whether a listing matches the keyword by
// case-insensitive substring on title or category.
func fakeStoreMatches(item fakeStoreProduct, keyword string) bool {
	if keyword == "" {
		return true
	}
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(item.Title), kw) ||
		strings.Contains(strings.ToLower(item.Category), kw)
}
