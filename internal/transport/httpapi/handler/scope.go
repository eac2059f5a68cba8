package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/scope"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
)

// ScopeHandler handles scope-related HTTP requests
type ScopeHandler struct {
	scopes *scope.Service
}

// NewScopeHandler creates a new scope handler
func NewScopeHandler(scopes *scope.Service) *ScopeHandler {
	return &ScopeHandler{scopes: scopes}
}

// ScopeRequest represents the scope create/update request body
type ScopeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateScope handles POST /scopes
func (h *ScopeHandler) CreateScope(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ScopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.scopes.Create(r.Context(), &scope.Scope{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetScopes handles GET /scopes
func (h *ScopeHandler) GetScopes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	scopes, err := h.scopes.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to list scopes", http.StatusInternalServerError)
		return
	}

	respondJSON(w, scopes, http.StatusOK)
}

// UpdateScope handles PUT /scopes/{id}
func (h *ScopeHandler) UpdateScope(w http.ResponseWriter, r *http.Request) {
	userID, scopeID, ok := h.authed(w, r)
	if !ok {
		return
	}

	var req ScopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.scopes.Update(r.Context(), &scope.Scope{
		ID:          scopeID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}, userID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteScope handles DELETE /scopes/{id}
func (h *ScopeHandler) DeleteScope(w http.ResponseWriter, r *http.Request) {
	userID, scopeID, ok := h.authed(w, r)
	if !ok {
		return
	}

	if err := h.scopes.Delete(r.Context(), scopeID, userID); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScopeHandler) authed(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	scopeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid scope ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, scopeID, true
}

func (h *ScopeHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scope.ErrScopeNotFound), errors.Is(err, scope.ErrUnauthorized):
		respondError(w, "scope not found", http.StatusNotFound)
	case errors.Is(err, scope.ErrInvalidName):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
