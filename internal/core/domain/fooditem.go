// Package domain contains the core domain types of the menu catalog.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// FoodItem
// =============================================================================

// FoodItem is a single entry on the restaurant menu.
type FoodItem struct {
	ID          string
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    Category
	DietaryTag  *DietaryTag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// Requests
// =============================================================================

// CreateFoodItem holds the fields supplied when creating a food item.
// Description and DietaryTag are optional.
type CreateFoodItem struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    Category
	DietaryTag  *DietaryTag
}

// FoodItemUpdate is a partial update. A nil field was not supplied.
type FoodItemUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *Category
	DietaryTag  *DietaryTag
}

// =============================================================================
// Construction and Merge
// =============================================================================

// NewFoodItemID returns a fresh opaque identifier.
func NewFoodItemID() string {
	return uuid.New().String()
}

// NewFoodItem builds a food item from a create request. Both timestamps are
// set to now. An empty description is stored as absent. The request is
// assumed to have passed validation.
func NewFoodItem(id string, req CreateFoodItem, now time.Time) FoodItem {
	return FoodItem{
		ID:          id,
		Name:        req.Name,
		Description: nonEmpty(req.Description),
		Price:       req.Price,
		Category:    req.Category,
		DietaryTag:  cloneTag(req.DietaryTag),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Merge returns the state of f after applying u at time now.
//
// A field is replaced only when u supplies it; for Name and Description an
// empty string counts as not supplied, so a description cannot be cleared
// once set. ID and CreatedAt are never changed. UpdatedAt is always set to
// now, or left as is if now is earlier, so it never moves backwards.
func (f FoodItem) Merge(u FoodItemUpdate, now time.Time) FoodItem {
	merged := f
	merged.Description = cloneString(f.Description)
	merged.DietaryTag = cloneTag(f.DietaryTag)

	if u.Name != nil && *u.Name != "" {
		merged.Name = *u.Name
	}
	if u.Description != nil && *u.Description != "" {
		merged.Description = cloneString(u.Description)
	}
	if u.Price != nil {
		merged.Price = *u.Price
	}
	if u.Category != nil {
		merged.Category = *u.Category
	}
	if u.DietaryTag != nil {
		merged.DietaryTag = cloneTag(u.DietaryTag)
	}

	if now.After(f.UpdatedAt) {
		merged.UpdatedAt = now
	}
	return merged
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTag(t *DietaryTag) *DietaryTag {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
