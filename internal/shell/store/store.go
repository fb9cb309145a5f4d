package store

import (
	"context"

	"github.com/quickbite/menu/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for menu entities.
type Store interface {
	// Food item operations
	CreateFoodItem(ctx context.Context, item *domain.FoodItem) error
	GetFoodItem(ctx context.Context, id string) (*domain.FoodItem, error)
	UpdateFoodItem(ctx context.Context, item *domain.FoodItem) error
	DeleteFoodItem(ctx context.Context, id string) error
	ListFoodItems(ctx context.Context) ([]domain.FoodItem, error)
	CountFoodItems(ctx context.Context) (int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Drivers
// =============================================================================

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store selected by driver and runs migrations.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverPostgres:
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, NewStoreError("Open", "", "", "unknown driver "+driver, ErrConnectionFailed)
	}
}
