package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiwinata/duitmu/internal/platform/category"
)

// CategoryRepository implements the category repository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, parent_id, is_system, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		string(c.Type),
		c.ParentID,
		c.IsSystem,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `
		SELECT id, user_id, name, type, parent_id, is_system, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// GetByUserID retrieves all active categories for a user
func (r *CategoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT id, user_id, name, type, parent_id, is_system, is_active, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, parent_id = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	c.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query,
		c.Name,
		string(c.Type),
		c.ParentID,
		c.IsActive,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	var typ string

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&typ,
		&c.ParentID,
		&c.IsSystem,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Type = category.Type(typ)
	return c, nil
}
