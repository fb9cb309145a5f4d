package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/quickbite/menu/internal/core/domain"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrationsFS embed.FS

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	// The DSN is passed through untouched so callers may add their own
	// query parameters (file:menu.db?cache=shared&_busy_timeout=5000).
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	// Run migrations
	if err := runSQLiteMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runSQLiteMigrations runs database migrations using embedded SQL files.
func runSQLiteMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(sqliteMigrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Food Item Operations
// =============================================================================

// foodItemRow represents a food item row in the database.
type foodItemRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Price       string  `db:"price"`
	Category    string  `db:"category"`
	DietaryTag  *string `db:"dietary_tag"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

func (s *SQLiteStore) CreateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	return createFoodItem(ctx, s.db, item)
}

func (s *SQLiteStore) GetFoodItem(ctx context.Context, id string) (*domain.FoodItem, error) {
	return getFoodItem(ctx, s.db, id)
}

func (s *SQLiteStore) UpdateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	return updateFoodItem(ctx, s.db, item)
}

func (s *SQLiteStore) DeleteFoodItem(ctx context.Context, id string) error {
	return deleteFoodItem(ctx, s.db, id)
}

func (s *SQLiteStore) ListFoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	return listFoodItems(ctx, s.db)
}

func (s *SQLiteStore) CountFoodItems(ctx context.Context) (int, error) {
	return countFoodItems(ctx, s.db)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) CreateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	return createFoodItem(ctx, s.tx, item)
}

func (s *txSQLiteStore) GetFoodItem(ctx context.Context, id string) (*domain.FoodItem, error) {
	return getFoodItem(ctx, s.tx, id)
}

func (s *txSQLiteStore) UpdateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	return updateFoodItem(ctx, s.tx, item)
}

func (s *txSQLiteStore) DeleteFoodItem(ctx context.Context, id string) error {
	return deleteFoodItem(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListFoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	return listFoodItems(ctx, s.tx)
}

func (s *txSQLiteStore) CountFoodItems(ctx context.Context) (int, error) {
	return countFoodItems(ctx, s.tx)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

func createFoodItem(ctx context.Context, exec executor, item *domain.FoodItem) error {
	query := `
		INSERT INTO food_items (
			id, name, description, price, category, dietary_tag, created_at, updated_at
		) VALUES (
			:id, :name, :description, :price, :category, :dietary_tag, :created_at, :updated_at
		)`

	_, err := exec.NamedExecContext(ctx, query, foodItemToRow(item))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: food_items.id") {
			return NewStoreError("CreateFoodItem", "food_item", item.ID, "food item with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateFoodItem", "food_item", item.ID, err.Error(), err)
	}

	return nil
}

func getFoodItem(ctx context.Context, exec executor, id string) (*domain.FoodItem, error) {
	query := `SELECT id, name, description, price, category, dietary_tag, created_at, updated_at
		FROM food_items WHERE id = ?`

	var row foodItemRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetFoodItem", "food_item", id, "food item not found", ErrNotFound)
		}
		return nil, NewStoreError("GetFoodItem", "food_item", id, err.Error(), err)
	}

	return rowToFoodItem(&row)
}

func updateFoodItem(ctx context.Context, exec executor, item *domain.FoodItem) error {
	query := `
		UPDATE food_items SET
			name = :name,
			description = :description,
			price = :price,
			category = :category,
			dietary_tag = :dietary_tag,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, foodItemToRow(item))
	if err != nil {
		return NewStoreError("UpdateFoodItem", "food_item", item.ID, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateFoodItem", "food_item", item.ID, "food item not found", ErrNotFound)
	}

	return nil
}

func deleteFoodItem(ctx context.Context, exec executor, id string) error {
	query := `DELETE FROM food_items WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteFoodItem", "food_item", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteFoodItem", "food_item", id, "food item not found", ErrNotFound)
	}

	return nil
}

func listFoodItems(ctx context.Context, exec executor) ([]domain.FoodItem, error) {
	query := `SELECT id, name, description, price, category, dietary_tag, created_at, updated_at
		FROM food_items ORDER BY rowid`

	var rows []foodItemRow
	err := exec.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, NewStoreError("ListFoodItems", "food_item", "", err.Error(), err)
	}

	items := make([]domain.FoodItem, 0, len(rows))
	for _, row := range rows {
		item, err := rowToFoodItem(&row)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

func countFoodItems(ctx context.Context, exec executor) (int, error) {
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM food_items`); err != nil {
		return 0, NewStoreError("CountFoodItems", "food_item", "", err.Error(), err)
	}
	return count, nil
}

// =============================================================================
// Row Conversion
// =============================================================================

func foodItemToRow(item *domain.FoodItem) map[string]any {
	fields := encodeFoodItem(item)
	return map[string]any{
		"id":          item.ID,
		"name":        item.Name,
		"description": item.Description,
		"price":       fields.price,
		"category":    fields.category,
		"dietary_tag": fields.dietaryTag,
		"created_at":  item.CreatedAt.UTC().Format(timeLayout),
		"updated_at":  item.UpdatedAt.UTC().Format(timeLayout),
	}
}

// rowToFoodItem converts a database row to a domain.FoodItem.
func rowToFoodItem(row *foodItemRow) (*domain.FoodItem, error) {
	createdAt, err := time.Parse(timeLayout, row.CreatedAt)
	if err != nil {
		return nil, NewStoreError("rowToFoodItem", "food_item", row.ID, "failed to parse created_at", ErrInvalidData)
	}
	updatedAt, err := time.Parse(timeLayout, row.UpdatedAt)
	if err != nil {
		return nil, NewStoreError("rowToFoodItem", "food_item", row.ID, "failed to parse updated_at", ErrInvalidData)
	}

	return decodeFoodItem(storedFields{
		id:          row.ID,
		name:        row.Name,
		description: row.Description,
		price:       row.Price,
		category:    row.Category,
		dietaryTag:  row.DietaryTag,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	})
}
