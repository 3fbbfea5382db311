package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openbasket/catalog/internal/service"
	"github.com/openbasket/catalog/pkg/httputil"
	"github.com/openbasket/catalog/pkg/validator"
)

// ReviewRequest is the JSON request body for adding a product review.
type ReviewRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	UserName string `json:"user_name" validate:"required,max=255"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// AddReview handles POST /api/v1/products/{id}/reviews
// @Summary Add a review
// @Description Adds a review to a product. Each user may review a product once.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param X-User-ID header string true "Authenticated user ID"
// @Param request body ReviewRequest true "Review to add"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{id}/reviews [post]
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReviewRequest
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

	input := service.AddReviewInput{
		ProductID: id.String(),
		UserID:    userID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	product, err := h.service.AddReview(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}
