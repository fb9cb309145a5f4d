// Package catalog provides the menu catalog service.
// This is part of the Imperative Shell - it validates with the pure core,
// merges with the domain rules, and persists through the store.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/quickbite/menu/internal/core/validation"
	"github.com/quickbite/menu/internal/shell/store"
)

// =============================================================================
// Catalog Service
// =============================================================================

// Service applies create, update, and delete requests to the food item store.
// Validation always runs before the store is touched.
type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService creates a new catalog service.
func NewService(s store.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Service{
		store:  s,
		logger: logger,
		now:    time.Now,
		newID:  domain.NewFoodItemID,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// timestamp returns the current time in UTC at microsecond precision, which
// every supported store round-trips exactly.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// =============================================================================
// Read Operations
// =============================================================================

// Get returns the food item with the given id, or an error wrapping
// store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.FoodItem, error) {
	return s.store.GetFoodItem(ctx, id)
}

// List returns every food item in insertion order.
func (s *Service) List(ctx context.Context) ([]domain.FoodItem, error) {
	return s.store.ListFoodItems(ctx)
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// =============================================================================
// Write Operations
// =============================================================================

// Create validates req, stamps a fresh id and equal timestamps, and stores
// the new item.
func (s *Service) Create(ctx context.Context, req domain.CreateFoodItem) (*domain.FoodItem, error) {
	if err := validation.ValidateCreate(req).Err(); err != nil {
		return nil, err
	}

	item := domain.NewFoodItem(s.newID(), req, s.timestamp())
	if err := s.store.CreateFoodItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}

	s.logger.Info("food item created", "id", item.ID, "name", item.Name)
	return &item, nil
}

// Update validates req and merges it into the stored item. The read and the
// write run in one store transaction. An unknown id yields an error wrapping
// store.ErrNotFound and nothing is written.
func (s *Service) Update(ctx context.Context, id string, req domain.FoodItemUpdate) (*domain.FoodItem, error) {
	if err := validation.ValidateUpdate(req).Err(); err != nil {
		return nil, err
	}

	var updated domain.FoodItem
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.GetFoodItem(ctx, id)
		if err != nil {
			return err
		}

		updated = current.Merge(req, s.timestamp())
		return tx.UpdateFoodItem(ctx, &updated)
	})
	if err != nil {
		if store.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update food item: %w", err)
	}

	s.logger.Info("food item updated", "id", updated.ID)
	return &updated, nil
}

// Delete removes the item with the given id. An unknown id yields an error
// wrapping store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteFoodItem(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to delete food item: %w", err)
	}

	s.logger.Info("food item deleted", "id", id)
	return nil
}
