package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/openbasket/catalog/pkg/httpclient"
)

// bestBuySearchResponse mirrors the Best Buy products API response envelope.
type bestBuySearchResponse struct {
	Total    int              `json:"total"`
	Products []bestBuyProduct `json:"products"`
}

type bestBuyProduct struct {
	SKU                   int     `json:"sku"`
	Name                  string  `json:"name"`
	SalePrice             float64 `json:"salePrice"`
	ShortDescription      string  `json:"shortDescription"`
	Image                 string  `json:"image"`
	Manufacturer          string  `json:"manufacturer"`
	CustomerReviewAverage float64 `json:"customerReviewAverage"`
}

// BestBuyClient fetches listings from the Best Buy products API. Unlike the
// Fake Store, the keyword is passed server-side as a search clause in the
// request path. Every call requires an API key.
type BestBuyClient struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewBestBuyClient creates a Best Buy fetcher against the given base URL.
func NewBestBuyClient(baseURL, apiKey string, client HTTPDoer, logger *slog.Logger) *BestBuyClient {
	return &BestBuyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		// Developer keys are limited to 5 queries per second.
		limiter: rate.NewLimiter(rate.Every(time.Second/5), 5),
		logger:  logger,
	}
}

// Source returns the registry name of this marketplace.
func (c *BestBuyClient) Source() string { return SourceBestBuy }

// Fetch retrieves up to limit listings, with the category keyword as a
// server-side search term.
func (c *BestBuyClient) Fetch(ctx context.Context, category string, limit int) ([]ExternalProduct, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("bestbuy: API key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("bestbuy rate limiter: %w", err)
	}

	path := "/v1/products"
	if category != "" {
		path = fmt.Sprintf("/v1/products(search=%s)", url.PathEscape(category))
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("pageSize", strconv.Itoa(limit))
	query.Set("show", "sku,name,salePrice,shortDescription,image,manufacturer,customerReviewAverage")
	query.Set("apiKey", c.apiKey)

	requestURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create bestbuy request: %w", err)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call bestbuy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "bestbuy")
	}

	var searchResp bestBuySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode bestbuy response: %w", err)
	}

	products := make([]ExternalProduct, 0, len(searchResp.Products))
	for _, item := range searchResp.Products {
		products = append(products, ExternalProduct{
			ExternalID:  strconv.Itoa(item.SKU),
			Title:       item.Name,
			Description: item.ShortDescription,
			Brand:       item.Manufacturer,
			Category:    category,
			Image:       item.Image,
			PriceUSD:    item.SalePrice,
			Rating:      item.CustomerReviewAverage,
		})
	}

	c.logger.DebugContext(ctx, "fetched bestbuy listings",
		slog.Int("returned", len(products)),
		slog.Int("total_available", searchResp.Total),
		slog.String("category", category),
	)

	return products, nil
}
