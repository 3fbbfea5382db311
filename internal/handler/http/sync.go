package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openbasket/catalog/internal/service"
	"github.com/openbasket/catalog/pkg/httputil"
	"github.com/openbasket/catalog/pkg/validator"
)

// SyncHandler handles HTTP requests for marketplace sync.
type SyncHandler struct {
	service *service.SyncService
	logger  *slog.Logger
}

// NewSyncHandler creates a new marketplace sync HTTP handler.
func NewSyncHandler(svc *service.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		service: svc,
		logger:  logger,
	}
}

// SyncRequest is the JSON request body for triggering a marketplace sync.
type SyncRequest struct {
	Source   string `json:"source" validate:"required,max=50"`
	Category string `json:"category" validate:"max=255"`
	Limit    int    `json:"limit" validate:"gte=0"`
}

// Sync handles POST /api/v1/products/sync
// @Summary Import products from a marketplace
// @Description Fetches listings from an external marketplace and imports new ones
// @Tags products
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param request body SyncRequest true "Sync parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/products/sync [post]
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.SyncInput{
		Source:   req.Source,
		Category: req.Category,
		Limit:    req.Limit,
		UserID:   userID,
	}

	result, err := h.service.Sync(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
