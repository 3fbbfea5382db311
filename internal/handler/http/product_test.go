package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbasket/catalog/internal/domain"
	"github.com/openbasket/catalog/internal/event"
	"github.com/openbasket/catalog/internal/repository"
	"github.com/openbasket/catalog/internal/service"
	"github.com/openbasket/catalog/internal/storage/memory"
	apperrors "github.com/openbasket/catalog/pkg/errors"
	"github.com/openbasket/catalog/pkg/httputil"
	pkgkafka "github.com/openbasket/catalog/pkg/kafka"
)

// =============================================================================
// Mock ProductRepository
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context, search *string) (int, error) {
	args := m.Called(ctx, search)
	return args.Int(0), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Top(ctx context.Context, n int) ([]domain.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) UpdateReviews(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) Upsert(ctx context.Context, product *domain.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Test helpers
// =============================================================================

const testUserID = "7b0071a2-9f2e-4a52-9e12-0a0f6f7d0b31"

func productTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func productTestEventProducer() *event.Producer {
	logger := productTestLogger()
	// Create a Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func productTestHandler(repo *mockProductRepo) *ProductHandler {
	svc := service.NewProductService(repo, productTestEventProducer(), memory.New(), productTestLogger(), 50)
	return NewProductHandler(svc, productTestLogger())
}

func productRouter(handler *ProductHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/top", handler.TopProducts)
		r.Get("/{id}", handler.GetProduct)
		r.Post("/", handler.CreateProduct)
		r.Put("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
		r.Post("/{id}/reviews", handler.AddReview)
	})
	return r
}

func decodeProductResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:          "550e8400-e29b-41d4-a716-446655440001",
		Name:        "Wireless Headphones",
		Description: "Over-ear noise cancelling headphones",
		Brand:       "Sony",
		Category:    "electronics",
		Price:       2499900,
		Stock:       12,
		Image:       "uploads/headphones.jpg",
		UserID:      testUserID,
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// =============================================================================
// POST /api/v1/products - CreateProduct
// =============================================================================

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := CreateProductRequest{
		Name:     "Mechanical Keyboard",
		Brand:    "Keychron",
		Category: "electronics",
		Price:    749900,
		Stock:    30,
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeProductResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestCreateProduct_MissingUserHeader(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	body := CreateProductRequest{Name: "Mechanical Keyboard"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "X-User-ID")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{invalid`)))
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

func TestCreateProduct_ValidationError(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	// Missing required field: name
	body := CreateProductRequest{Price: 2999}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(apperrors.AlreadyExists("product", "name", "Mechanical Keyboard"))

	body := CreateProductRequest{Name: "Mechanical Keyboard"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	repo.AssertExpectations(t)
}

// =============================================================================
// GET /api/v1/products - ListProducts
// =============================================================================

func TestListProducts_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	products := []domain.Product{*sampleProduct()}
	repo.On("Count", mock.Anything, mock.Anything).Return(1, nil)
	repo.On("List", mock.Anything, mock.AnythingOfType("repository.ProductFilter")).
		Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var paginatedResp httputil.PaginatedResponse[json.RawMessage]
	err := json.NewDecoder(rec.Body).Decode(&paginatedResp)
	require.NoError(t, err)
	assert.Equal(t, 1, paginatedResp.TotalCount)
	assert.Equal(t, 10, paginatedResp.Limit)
	assert.Equal(t, 0, paginatedResp.Skip)
	assert.False(t, paginatedResp.HasMore)
	assert.Len(t, paginatedResp.Data, 1)
	repo.AssertExpectations(t)
}

func TestListProducts_CustomPagination(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	products := []domain.Product{*sampleProduct(), *sampleProduct()}
	repo.On("Count", mock.Anything, mock.Anything).Return(5, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Limit == 2 && f.Skip == 1
	})).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2&skip=1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var paginatedResp httputil.PaginatedResponse[json.RawMessage]
	err := json.NewDecoder(rec.Body).Decode(&paginatedResp)
	require.NoError(t, err)
	assert.Equal(t, 5, paginatedResp.TotalCount)
	assert.Equal(t, 2, paginatedResp.Limit)
	assert.Equal(t, 1, paginatedResp.Skip)
	assert.True(t, paginatedResp.HasMore)
	repo.AssertExpectations(t)
}

func TestListProducts_InvalidLimit(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "limit")
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestListProducts_InvalidSkip(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?skip=first", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "skip")
}

func TestListProducts_EmptyCatalogIsNotFound(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	repo.On("Count", mock.Anything, mock.Anything).Return(0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProducts_SearchForwarded(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	matchSearch := mock.MatchedBy(func(s *string) bool {
		return s != nil && *s == "headphones"
	})
	repo.On("Count", mock.Anything, matchSearch).Return(1, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Search != nil && *f.Search == "headphones"
	})).Return([]domain.Product{*sampleProduct()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?search=headphones", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// =============================================================================
// GET /api/v1/products/top - TopProducts
// =============================================================================

func TestTopProducts_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	first := sampleProduct()
	first.Rating = 4.8
	second := sampleProduct()
	second.ID = "550e8400-e29b-41d4-a716-446655440002"
	second.Name = "Mechanical Keyboard"
	second.Rating = 4.5
	repo.On("Top", mock.Anything, 3).Return([]domain.Product{*first, *second}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/top", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Product `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Wireless Headphones", resp.Data[0].Name)
	assert.Equal(t, "Mechanical Keyboard", resp.Data[1].Name)
	repo.AssertExpectations(t)
}

func TestTopProducts_EmptyCatalog(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	repo.On("Top", mock.Anything, 3).Return([]domain.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/top", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProductResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

// =============================================================================
// GET /api/v1/products/{id} - GetProduct
// =============================================================================

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	p := sampleProduct()
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+p.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.Data.ID)
	assert.Equal(t, "Wireless Headphones", resp.Data.Name)
	assert.NotNil(t, resp.Data.Reviews)
	repo.AssertExpectations(t)
}

func TestGetProduct_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid UUID")
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	missingID := "550e8400-e29b-41d4-a716-446655440099"
	repo.On("GetByID", mock.Anything, missingID).
		Return(nil, apperrors.NotFound("product", missingID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+missingID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertExpectations(t)
}

// =============================================================================
// PUT /api/v1/products/{id} - UpdateProduct
// =============================================================================

func TestUpdateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	p := sampleProduct()
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := UpdateProductRequest{Price: 1999900}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+p.ID, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, int64(1999900), resp.Data.Price)
	assert.Equal(t, "Wireless Headphones", resp.Data.Name)
	repo.AssertExpectations(t)
}

func TestUpdateProduct_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	body := UpdateProductRequest{Name: "Updated"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/not-a-uuid", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid UUID")
}

func TestUpdateProduct_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	productID := "550e8400-e29b-41d4-a716-446655440001"

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+productID, bytes.NewReader([]byte(`{bad`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestUpdateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	productID := "550e8400-e29b-41d4-a716-446655440001"

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+productID, bytes.NewReader([]byte(`{"price": -100}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	missingID := "550e8400-e29b-41d4-a716-446655440099"
	repo.On("GetByID", mock.Anything, missingID).
		Return(nil, apperrors.NotFound("product", missingID))

	body := UpdateProductRequest{Name: "Updated"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+missingID, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertExpectations(t)
}

// =============================================================================
// DELETE /api/v1/products/{id} - DeleteProduct
// =============================================================================

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	p := sampleProduct()
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Delete", mock.Anything, p.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+p.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.Data["id"])
	assert.Equal(t, "deleted", resp.Data["status"])
	repo.AssertExpectations(t)
}

func TestDeleteProduct_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	handler := productTestHandler(repo)
	router := productRouter(handler)

	missingID := "550e8400-e29b-41d4-a716-446655440099"
	repo.On("GetByID", mock.Anything, missingID).
		Return(nil, apperrors.NotFound("product", missingID))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+missingID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeProductResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// =============================================================================
// Table-driven: CreateProduct validation
// =============================================================================

func TestCreateProduct_TableDriven(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectStatus  int
		expectErrCode string
	}{
		{
			name:          "empty body",
			body:          `{}`,
			expectStatus:  http.StatusBadRequest,
			expectErrCode: "VALIDATION_ERROR",
		},
		{
			name:          "missing name",
			body:          `{"price": 100, "stock": 5}`,
			expectStatus:  http.StatusBadRequest,
			expectErrCode: "VALIDATION_ERROR",
		},
		{
			name:          "negative price",
			body:          `{"name": "Desk Lamp", "price": -1}`,
			expectStatus:  http.StatusBadRequest,
			expectErrCode: "VALIDATION_ERROR",
		},
		{
			name:          "negative stock",
			body:          `{"name": "Desk Lamp", "stock": -3}`,
			expectStatus:  http.StatusBadRequest,
			expectErrCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockProductRepo)
			handler := productTestHandler(repo)
			router := productRouter(handler)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", testUserID)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			resp := decodeProductResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectErrCode, resp.Error.Code)
		})
	}
}

// =============================================================================
// Table-driven: ListProducts query parameters
// =============================================================================

func TestListProducts_QueryParams_TableDriven(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectStatus int
		expectErr    bool
		errCode      string
	}{
		{
			name:         "valid limit",
			query:        "?limit=5",
			expectStatus: http.StatusOK,
		},
		{
			name:         "negative limit falls back to default",
			query:        "?limit=-5",
			expectStatus: http.StatusOK,
		},
		{
			name:         "oversized limit is clamped",
			query:        "?limit=9000",
			expectStatus: http.StatusOK,
		},
		{
			name:         "negative skip is clamped to zero",
			query:        "?skip=-3",
			expectStatus: http.StatusOK,
		},
		{
			name:         "non-integer limit",
			query:        "?limit=ten",
			expectStatus: http.StatusBadRequest,
			expectErr:    true,
			errCode:      "INVALID_PARAMETER",
		},
		{
			name:         "fractional skip",
			query:        "?skip=1.5",
			expectStatus: http.StatusBadRequest,
			expectErr:    true,
			errCode:      "INVALID_PARAMETER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockProductRepo)
			handler := productTestHandler(repo)
			router := productRouter(handler)

			if !tt.expectErr {
				repo.On("Count", mock.Anything, mock.Anything).Return(1, nil)
				repo.On("List", mock.Anything, mock.Anything).
					Return([]domain.Product{*sampleProduct()}, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)

			if tt.expectErr {
				resp := decodeProductResponse(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.errCode, resp.Error.Code)
			}
		})
	}
}
