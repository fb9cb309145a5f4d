package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Enum Errors
// =============================================================================

// EnumError is returned when an external representation does not name a
// member of a closed enumeration.
type EnumError struct {
	Enum  string // "category" or "dietaryTag"
	Value string // the raw value as received
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unrecognized %s %q", e.Enum, e.Value)
}

// =============================================================================
// Category
// =============================================================================

// Category is the menu section a food item belongs to.
type Category int

const (
	CategoryAppetizers  Category = 1
	CategorySoups       Category = 2
	CategorySalads      Category = 3
	CategoryMainCourses Category = 4
	CategoryDesserts    Category = 5
)

var categoryNames = map[Category]string{
	CategoryAppetizers:  "Appetizers",
	CategorySoups:       "Soups",
	CategorySalads:      "Salads",
	CategoryMainCourses: "MainCourses",
	CategoryDesserts:    "Desserts",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryAppetizers,
		CategorySoups,
		CategorySalads,
		CategoryMainCourses,
		CategoryDesserts,
	}
}

// IsValid reports whether c is a recognized category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAppetizers, CategorySoups, CategorySalads, CategoryMainCourses, CategoryDesserts:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// ParseCategory decodes a category name. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(categoryNames[c], s) {
			return c, nil
		}
	}
	return 0, &EnumError{Enum: "category", Value: s}
}

// MarshalJSON encodes a recognized category by name and anything else as a number.
func (c Category) MarshalJSON() ([]byte, error) {
	if c.IsValid() {
		return json.Marshal(c.String())
	}
	return json.Marshal(int(c))
}

// UnmarshalJSON accepts a category name or a number. Numbers are kept as-is
// so that out-of-range values reach the validator; unknown names fail here.
func (c *Category) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum("category", data)
	if err != nil {
		return err
	}
	if name == "" {
		*c = Category(n)
		return nil
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// DietaryTag
// =============================================================================

// DietaryTag marks a dietary property of a food item.
type DietaryTag int

const (
	DietaryVegetarian   DietaryTag = 1
	DietaryVegan        DietaryTag = 2
	DietaryGlutenFree   DietaryTag = 3
	DietaryDairyFree    DietaryTag = 4
	DietaryKeto         DietaryTag = 5
	DietaryLowCarb      DietaryTag = 6
	DietarySpicy        DietaryTag = 7
	DietaryContainsNuts DietaryTag = 8
)

var dietaryTagNames = map[DietaryTag]string{
	DietaryVegetarian:   "Vegetarian",
	DietaryVegan:        "Vegan",
	DietaryGlutenFree:   "GlutenFree",
	DietaryDairyFree:    "DairyFree",
	DietaryKeto:         "Keto",
	DietaryLowCarb:      "LowCarb",
	DietarySpicy:        "Spicy",
	DietaryContainsNuts: "ContainsNuts",
}

// DietaryTags returns every dietary tag in declaration order.
func DietaryTags() []DietaryTag {
	return []DietaryTag{
		DietaryVegetarian,
		DietaryVegan,
		DietaryGlutenFree,
		DietaryDairyFree,
		DietaryKeto,
		DietaryLowCarb,
		DietarySpicy,
		DietaryContainsNuts,
	}
}

// IsValid reports whether t is a recognized dietary tag.
func (t DietaryTag) IsValid() bool {
	_, ok := dietaryTagNames[t]
	return ok
}

func (t DietaryTag) String() string {
	if name, ok := dietaryTagNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// ParseDietaryTag decodes a dietary tag name. Matching is case-insensitive.
func ParseDietaryTag(s string) (DietaryTag, error) {
	for _, t := range DietaryTags() {
		if strings.EqualFold(dietaryTagNames[t], s) {
			return t, nil
		}
	}
	return 0, &EnumError{Enum: "dietaryTag", Value: s}
}

func (t DietaryTag) MarshalJSON() ([]byte, error) {
	if t.IsValid() {
		return json.Marshal(t.String())
	}
	return json.Marshal(int(t))
}

// UnmarshalJSON accepts a tag name or its number. Unlike Category there is no
// later validation step at the HTTP boundary, so unknown numbers fail here too.
func (t *DietaryTag) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum("dietaryTag", data)
	if err != nil {
		return err
	}
	if name == "" {
		tag := DietaryTag(n)
		if !tag.IsValid() {
			return &EnumError{Enum: "dietaryTag", Value: string(data)}
		}
		*t = tag
		return nil
	}
	parsed, err := ParseDietaryTag(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// decodeEnum splits a JSON enum value into either a number or a name.
// Numeric strings such as "4" are treated as numbers.
func decodeEnum(enum string, data []byte) (int, string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, "", err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, "", nil
		}
		if s == "" {
			return 0, "", &EnumError{Enum: enum, Value: s}
		}
		return 0, s, nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, "", &EnumError{Enum: enum, Value: string(data)}
	}
	return n, "", nil
}
