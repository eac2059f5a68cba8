package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/user"
)

// UserService defines the user operations needed by AuthHandler
type UserService interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	Login(ctx context.Context, username, password string) (*user.User, error)
}

// TokenIssuer defines the JWT operations needed by AuthHandler
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, username string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userService UserService
	tokens      TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// CredentialsRequest represents the register/login request body
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo represents user information without sensitive data
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Register handles user registration (POST /auth/register)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		respondError(w, "password is required", http.StatusBadRequest)
		return
	}

	registered, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserAlreadyExists):
			respondError(w, "username is taken", http.StatusConflict)
		case errors.Is(err, user.ErrPasswordTooShort):
			respondError(w, "password must be at least 8 characters", http.StatusBadRequest)
		case errors.Is(err, user.ErrInvalidUsername):
			respondError(w, "invalid username", http.StatusBadRequest)
		default:
			respondError(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	h.respondWithToken(w, registered, http.StatusCreated)
}

// Login handles user login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	loggedIn, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidPassword) || errors.Is(err, user.ErrUserNotFound) {
			respondError(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		respondError(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, loggedIn, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *user.User, statusCode int) {
	token, err := h.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User: &UserInfo{
			ID:       u.ID.String(),
			Username: u.Username,
		},
	}, statusCode)
}
