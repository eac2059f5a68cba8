package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/category"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categories *category.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest represents the category create/update request body
type CategoryRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.categories.Create(r.Context(), &category.Category{
		UserID:   userID,
		Name:     req.Name,
		Type:     category.Type(req.Type),
		ParentID: req.ParentID,
		IsActive: true,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	categories, err := h.categories.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}

	respondJSON(w, categories, http.StatusOK)
}

// UpdateCategory handles PUT /categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := h.authed(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.categories.Update(r.Context(), &category.Category{
		ID:       categoryID,
		Name:     req.Name,
		Type:     category.Type(req.Type),
		ParentID: req.ParentID,
		IsActive: true,
	}, userID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := h.authed(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), categoryID, userID); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) authed(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid category ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, categoryID, true
}

func (h *CategoryHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound), errors.Is(err, category.ErrUnauthorized):
		respondError(w, "category not found", http.StatusNotFound)
	case errors.Is(err, category.ErrInvalidName), errors.Is(err, category.ErrInvalidType):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
