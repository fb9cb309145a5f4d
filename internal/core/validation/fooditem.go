package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Limits and Messages
// =============================================================================

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
)

const (
	MsgNameRequired       = "Name is required"
	MsgNameTooLong        = "Name cannot exceed 100 characters"
	MsgNameBlank          = "Name cannot be empty or whitespace"
	MsgDescriptionTooLong = "Description cannot exceed 1000 characters"
	MsgPriceNotPositive   = "Price must be greater than 0"
	MsgInvalidCategory    = "Invalid food category"
	MsgInvalidDietaryTag  = "Invalid dietary tag"
)

// Field names as they appear in the JSON API.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldDietaryTag  = "dietaryTag"
)

// =============================================================================
// Violations
// =============================================================================

// Violation is a single field-level validation failure.
type Violation struct {
	Field          string
	Message        string
	AttemptedValue any
}

// Violations is an ordered list of failures. An empty list means valid.
type Violations []Violation

// Err returns nil when v is empty and an *Error otherwise.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Violations: v}
}

// Error is returned by the catalog service when a request fails validation.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// =============================================================================
// Rule Chains
// =============================================================================

// nameRules runs every name rule. A whitespace-only name is reported both
// as missing and as blank.
func nameRules(name string) Violations {
	var out Violations
	if strings.TrimSpace(name) == "" {
		out = append(out, Violation{FieldName, MsgNameRequired, name})
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		out = append(out, Violation{FieldName, MsgNameTooLong, name})
	}
	if name != "" && strings.TrimSpace(name) == "" {
		out = append(out, Violation{FieldName, MsgNameBlank, name})
	}
	return out
}

func descriptionRules(desc *string) Violations {
	if desc == nil || *desc == "" {
		return nil
	}
	if utf8.RuneCountInString(*desc) > MaxDescriptionLength {
		return Violations{{FieldDescription, MsgDescriptionTooLong, *desc}}
	}
	return nil
}

func priceRules(price decimal.Decimal) Violations {
	if !price.IsPositive() {
		return Violations{{FieldPrice, MsgPriceNotPositive, price.String()}}
	}
	return nil
}

func categoryRules(c domain.Category) Violations {
	if !c.IsValid() {
		return Violations{{FieldCategory, MsgInvalidCategory, int(c)}}
	}
	return nil
}

func dietaryTagRules(t *domain.DietaryTag) Violations {
	if t != nil && !t.IsValid() {
		return Violations{{FieldDietaryTag, MsgInvalidDietaryTag, int(*t)}}
	}
	return nil
}

// =============================================================================
// Request Validators
// =============================================================================

// ValidateCreate checks every field of a create request and returns all
// violations in field order.
//
// Example:
//
//	if err := ValidateCreate(req).Err(); err != nil {
//	    // Return 400 Bad Request with the violations
//	}
func ValidateCreate(req domain.CreateFoodItem) Violations {
	var out Violations
	out = append(out, nameRules(req.Name)...)
	out = append(out, descriptionRules(req.Description)...)
	out = append(out, priceRules(req.Price)...)
	out = append(out, categoryRules(req.Category)...)
	out = append(out, dietaryTagRules(req.DietaryTag)...)
	return out
}

// ValidateUpdate checks only the fields an update supplies, using the same
// rules as ValidateCreate.
func ValidateUpdate(req domain.FoodItemUpdate) Violations {
	var out Violations
	if req.Name != nil {
		out = append(out, nameRules(*req.Name)...)
	}
	out = append(out, descriptionRules(req.Description)...)
	if req.Price != nil {
		out = append(out, priceRules(*req.Price)...)
	}
	if req.Category != nil {
		out = append(out, categoryRules(*req.Category)...)
	}
	out = append(out, dietaryTagRules(req.DietaryTag)...)
	return out
}
