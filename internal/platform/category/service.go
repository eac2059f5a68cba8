package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for category persistence
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service provides category CRUD
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a category for a user
func (s *Service) Create(ctx context.Context, c *Category) (*Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = uuid.New()
	c.IsActive = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// List returns all categories for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update updates a category owned by the user
func (s *Service) Update(ctx context.Context, c *Category, userID uuid.UUID) (*Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrUnauthorized
	}

	c.UserID = existing.UserID
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// Delete removes a category owned by the user
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
