// Package seed loads the demo menu into an empty store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/quickbite/menu/internal/core/validation"
	"github.com/quickbite/menu/internal/shell/store"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

var (
	// ErrInvalidMenu is returned when menu YAML cannot be parsed or an entry
	// fails validation.
	ErrInvalidMenu = errors.New("invalid menu")
)

// =============================================================================
// Menu File
// =============================================================================

type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	DietaryTag  string `yaml:"dietaryTag"`
}

// ParseMenu decodes menu YAML into create requests and validates each one.
func ParseMenu(data []byte) ([]domain.CreateFoodItem, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidMenu)
	}

	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenu, err)
	}

	items := make([]domain.CreateFoodItem, 0, len(file.Items))
	for i, entry := range file.Items {
		req, err := entry.toRequest()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidMenu, i, err)
		}
		if err := validation.ValidateCreate(req).Err(); err != nil {
			return nil, fmt.Errorf("%w: item %d (%s): %v", ErrInvalidMenu, i, entry.Name, err)
		}
		items = append(items, req)
	}
	return items, nil
}

func (e menuEntry) toRequest() (domain.CreateFoodItem, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return domain.CreateFoodItem{}, fmt.Errorf("price %q: %w", e.Price, err)
	}

	category, err := domain.ParseCategory(e.Category)
	if err != nil {
		return domain.CreateFoodItem{}, err
	}

	req := domain.CreateFoodItem{
		Name:     e.Name,
		Price:    price,
		Category: category,
	}
	if e.Description != "" {
		desc := e.Description
		req.Description = &desc
	}
	if e.DietaryTag != "" {
		tag, err := domain.ParseDietaryTag(e.DietaryTag)
		if err != nil {
			return domain.CreateFoodItem{}, err
		}
		req.DietaryTag = &tag
	}
	return req, nil
}

// DefaultMenu returns the embedded demo menu.
func DefaultMenu() ([]domain.CreateFoodItem, error) {
	return ParseMenu(defaultMenu)
}

// =============================================================================
// Seeding
// =============================================================================

// Run inserts the demo menu if the store holds no food items. It returns the
// number of items inserted, which is zero when the store was already populated.
func Run(ctx context.Context, s store.Store, now time.Time, logger *slog.Logger) (int, error) {
	items, err := DefaultMenu()
	if err != nil {
		return 0, err
	}
	return Insert(ctx, s, items, now, logger)
}

// Insert stores items in a single transaction if the store is empty. All
// items share the same timestamps.
func Insert(ctx context.Context, s store.Store, items []domain.CreateFoodItem, now time.Time, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	now = now.UTC().Truncate(time.Microsecond)

	inserted := 0
	err := s.WithTx(ctx, func(tx store.Store) error {
		count, err := tx.CountFoodItems(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Debug("menu already populated, skipping seed", "count", count)
			return nil
		}

		for _, req := range items {
			item := domain.NewFoodItem(domain.NewFoodItemID(), req, now)
			if err := tx.CreateFoodItem(ctx, &item); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}

	if inserted > 0 {
		logger.Info("seeded demo menu", "items", inserted)
	}
	return inserted, nil
}
