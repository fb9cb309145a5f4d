package api

import (
	"encoding/json"
	"time"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request Types
// =============================================================================

// CreateFoodItemRequest is the request body for creating a food item.
// Category accepts a name or its number; price accepts a JSON number or string.
type CreateFoodItemRequest struct {
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Price       decimal.Decimal    `json:"price"`
	Category    domain.Category    `json:"category"`
	DietaryTag  *domain.DietaryTag `json:"dietaryTag,omitempty"`
}

func (r CreateFoodItemRequest) toDomain() domain.CreateFoodItem {
	return domain.CreateFoodItem{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		DietaryTag:  r.DietaryTag,
	}
}

// UpdateFoodItemRequest is the request body for updating a food item.
// Absent or null fields are left unchanged.
type UpdateFoodItemRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Price       *decimal.Decimal   `json:"price,omitempty"`
	Category    *domain.Category   `json:"category,omitempty"`
	DietaryTag  *domain.DietaryTag `json:"dietaryTag,omitempty"`
}

func (r UpdateFoodItemRequest) toDomain() domain.FoodItemUpdate {
	return domain.FoodItemUpdate{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		DietaryTag:  r.DietaryTag,
	}
}

// =============================================================================
// Response Types
// =============================================================================

// FoodItemResponse is the response for food item operations.
type FoodItemResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Price       json.Number        `json:"price"`
	Category    domain.Category    `json:"category"`
	DietaryTag  *domain.DietaryTag `json:"dietaryTag"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func foodItemToResponse(f *domain.FoodItem) FoodItemResponse {
	return FoodItemResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       json.Number(f.Price.String()),
		Category:    f.Category,
		DietaryTag:  f.DietaryTag,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ValidationDetail describes one rejected field.
type ValidationDetail struct {
	Field          string `json:"field"`
	Message        string `json:"message"`
	AttemptedValue any    `json:"attemptedValue"`
}

// ErrorResponse is the error response format.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Code    string             `json:"code"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
