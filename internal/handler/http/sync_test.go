package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbasket/catalog/internal/marketplace"
	"github.com/openbasket/catalog/internal/service"
)

// =============================================================================
// Stub Fetcher
// =============================================================================

type stubFetcher struct {
	source   string
	listings []marketplace.ExternalProduct
	err      error
}

func (f *stubFetcher) Source() string { return f.source }

func (f *stubFetcher) Fetch(_ context.Context, _ string, _ int) ([]marketplace.ExternalProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

// =============================================================================
// Test helpers
// =============================================================================

func syncTestHandler(repo *mockProductRepo, fetchers ...marketplace.Fetcher) *SyncHandler {
	registry := marketplace.NewRegistry(fetchers...)
	transformer := marketplace.NewTransformer(83)
	svc := service.NewSyncService(repo, registry, transformer, productTestEventProducer(), productTestLogger())
	return NewSyncHandler(svc, productTestLogger())
}

func syncRouter(handler *SyncHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/v1/products/sync", handler.Sync)
	return r
}

func sampleListings() []marketplace.ExternalProduct {
	return []marketplace.ExternalProduct{
		{ExternalID: "1", Title: "Apple AirPods Pro", Category: "earbuds", PriceUSD: 249, Rating: 4.8, Stock: 5},
		{ExternalID: "2", Title: "Samsung Galaxy Buds", Category: "earbuds", PriceUSD: 149, Rating: 4.5, Stock: 9},
	}
}

// =============================================================================
// POST /api/v1/products/sync - Sync
// =============================================================================

func TestSync_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore", listings: sampleListings()})
	router := syncRouter(handler)

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(true, nil)

	body := SyncRequest{Source: "teststore", Category: "earbuds", Limit: 10}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data service.SyncResult `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Data.Fetched)
	assert.Equal(t, 2, resp.Data.Imported)
	assert.Equal(t, 0, resp.Data.Skipped)
	repo.AssertExpectations(t)
}

func TestSync_MissingUserHeader(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore"})
	router := syncRouter(handler)

	body := SyncRequest{Source: "teststore"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSync_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore"})
	router := syncRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader([]byte(`{notjson`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestSync_MissingSource(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore"})
	router := syncRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader([]byte(`{"category": "earbuds"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestSync_UnknownSource(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore"})
	router := syncRouter(handler)

	body := SyncRequest{Source: "alibaba"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown source")
	assert.Contains(t, resp.Error.Message, "teststore")
}

func TestSync_FetchFailureReportsZeroCounts(t *testing.T) {
	repo := new(mockProductRepo)
	handler := syncTestHandler(repo, &stubFetcher{source: "teststore", err: errors.New("connection refused")})
	router := syncRouter(handler)

	body := SyncRequest{Source: "teststore", Category: "earbuds"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/sync", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data service.SyncResult `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, service.SyncResult{}, resp.Data)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
