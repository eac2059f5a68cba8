package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for wallet operations
type Service struct {
	repo Repository
}

// NewService creates a new wallet service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new wallet for a user
func (s *Service) Create(ctx context.Context, w *Wallet) (*Wallet, error) {
	if err := w.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.ExistsByUserAndName(ctx, w.UserID, w.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	if exists {
		return nil, ErrDuplicateWalletName
	}

	w.ID = uuid.New()
	w.IsActive = true

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return w, nil
}

// GetByID retrieves a wallet by ID and validates user ownership
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if w.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	return w, nil
}

// List retrieves all wallets for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	wallets, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}

// Update updates an existing wallet's attributes. Balances are not updatable
// here; they belong to the ledger.
func (s *Service) Update(ctx context.Context, w *Wallet, userID uuid.UUID) (*Wallet, error) {
	if err := w.ValidateUpdate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	if w.Name != existing.Name {
		exists, err := s.repo.ExistsByUserAndName(ctx, userID, w.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check wallet name: %w", err)
		}

		if exists {
			return nil, ErrDuplicateWalletName
		}
	}

	// Preserve fields the caller must not change
	w.UserID = existing.UserID
	w.ActualBalance = existing.ActualBalance
	w.ExpectedBalance = existing.ExpectedBalance
	if w.Kind == "" {
		w.Kind = existing.Kind
	}
	if w.Currency == "" {
		w.Currency = existing.Currency
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return w, nil
}

// Deactivate soft-deletes a wallet. The row and its transactions stay around
// so the ledger history remains replayable.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if w.UserID != userID {
		return ErrUnauthorizedAccess
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate wallet: %w", err)
	}

	return nil
}
