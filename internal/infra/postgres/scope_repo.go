package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiwinata/duitmu/internal/platform/scope"
)

// ScopeRepository implements the scope repository using PostgreSQL
type ScopeRepository struct {
	pool *pgxpool.Pool
}

// NewScopeRepository creates a new PostgreSQL scope repository
func NewScopeRepository(pool *pgxpool.Pool) *ScopeRepository {
	return &ScopeRepository{pool: pool}
}

// Create creates a new scope
func (r *ScopeRepository) Create(ctx context.Context, s *scope.Scope) error {
	query := `
		INSERT INTO scopes (id, user_id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.Name,
		s.Description,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scope: %w", err)
	}

	return nil
}

// GetByID retrieves a scope by ID
func (r *ScopeRepository) GetByID(ctx context.Context, id uuid.UUID) (*scope.Scope, error) {
	query := `
		SELECT id, user_id, name, description, is_active, created_at, updated_at
		FROM scopes
		WHERE id = $1
	`

	s := &scope.Scope{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Description,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, scope.ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}

	return s, nil
}

// GetByUserID retrieves all active scopes for a user
func (r *ScopeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*scope.Scope, error) {
	query := `
		SELECT id, user_id, name, description, is_active, created_at, updated_at
		FROM scopes
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scopes: %w", err)
	}
	defer rows.Close()

	var scopes []*scope.Scope
	for rows.Next() {
		s := &scope.Scope{}
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Description,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scopes: %w", err)
	}

	return scopes, nil
}

// Update updates a scope
func (r *ScopeRepository) Update(ctx context.Context, s *scope.Scope) error {
	query := `
		UPDATE scopes
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`

	s.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query,
		s.Name,
		s.Description,
		s.IsActive,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scope: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrScopeNotFound
	}

	return nil
}

// Delete removes a scope
func (r *ScopeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM scopes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scope: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrScopeNotFound
	}

	return nil
}
