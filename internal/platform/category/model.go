package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type restricts which transaction types a category applies to
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeBoth    Type = "both"
)

// IsValid checks if the category type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeBoth:
		return true
	}
	return false
}

// Category is an opaque classification reference carried by transactions.
// The reconciliation engine never looks inside it.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Type      Type       `json:"type"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsSystem  bool       `json:"is_system"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var (
	ErrInvalidName      = errors.New("category name is required")
	ErrInvalidType      = errors.New("invalid category type")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnauthorized     = errors.New("unauthorized category access")
)

// Validate validates the category
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Type == "" {
		c.Type = TypeBoth
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
