package store

import (
	"time"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// storedFields is the driver-neutral column form of a food item.
// Enums are stored by name and the price as its exact decimal text.
type storedFields struct {
	id          string
	name        string
	description *string
	price       string
	category    string
	dietaryTag  *string
	createdAt   time.Time
	updatedAt   time.Time
}

func encodeFoodItem(item *domain.FoodItem) storedFields {
	var tag *string
	if item.DietaryTag != nil {
		s := item.DietaryTag.String()
		tag = &s
	}
	return storedFields{
		id:          item.ID,
		name:        item.Name,
		description: item.Description,
		price:       item.Price.String(),
		category:    item.Category.String(),
		dietaryTag:  tag,
		createdAt:   item.CreatedAt.UTC(),
		updatedAt:   item.UpdatedAt.UTC(),
	}
}

func decodeFoodItem(f storedFields) (*domain.FoodItem, error) {
	price, err := decimal.NewFromString(f.price)
	if err != nil {
		return nil, NewStoreError("decodeFoodItem", "food_item", f.id, "failed to parse price", ErrInvalidData)
	}

	category, err := domain.ParseCategory(f.category)
	if err != nil {
		return nil, NewStoreError("decodeFoodItem", "food_item", f.id, err.Error(), ErrInvalidData)
	}

	var tag *domain.DietaryTag
	if f.dietaryTag != nil {
		t, err := domain.ParseDietaryTag(*f.dietaryTag)
		if err != nil {
			return nil, NewStoreError("decodeFoodItem", "food_item", f.id, err.Error(), ErrInvalidData)
		}
		tag = &t
	}

	return &domain.FoodItem{
		ID:          f.id,
		Name:        f.name,
		Description: f.description,
		Price:       price,
		Category:    category,
		DietaryTag:  tag,
		CreatedAt:   f.createdAt.UTC(),
		UpdatedAt:   f.updatedAt.UTC(),
	}, nil
}
