// Package scope manages business scopes (Personal, Bisnis A, ...) that
// transactions reference opaquely.
package scope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scope groups transactions by area of life or business
type Scope struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInvalidName   = errors.New("scope name is required")
	ErrScopeNotFound = errors.New("scope not found")
	ErrUnauthorized  = errors.New("unauthorized scope access")
)

// Repository defines the interface for scope persistence
type Repository interface {
	Create(ctx context.Context, s *Scope) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scope, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Scope, error)
	Update(ctx context.Context, s *Scope) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service provides scope CRUD
type Service struct {
	repo Repository
}

// NewService creates a new scope service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a scope for a user
func (s *Service) Create(ctx context.Context, sc *Scope) (*Scope, error) {
	if sc.Name == "" {
		return nil, ErrInvalidName
	}

	sc.ID = uuid.New()
	sc.IsActive = true
	sc.CreatedAt = time.Now()
	sc.UpdatedAt = sc.CreatedAt

	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to create scope: %w", err)
	}
	return sc, nil
}

// List returns all scopes for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Scope, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update updates a scope owned by the user
func (s *Service) Update(ctx context.Context, sc *Scope, userID uuid.UUID) (*Scope, error) {
	if sc.Name == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.GetByID(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrUnauthorized
	}

	sc.UserID = existing.UserID
	sc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to update scope: %w", err)
	}
	return sc, nil
}

// Delete removes a scope owned by the user
func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrUnauthorized
	}
	return s.repo.Delete(ctx, id)
}
