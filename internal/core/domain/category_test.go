package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, Category(0).IsValid())
	assert.False(t, Category(6).IsValid())
	assert.False(t, Category(999).IsValid())
}

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		input string
		want  Category
	}{
		{"Appetizers", CategoryAppetizers},
		{"soups", CategorySoups},
		{"SALADS", CategorySalads},
		{"MainCourses", CategoryMainCourses},
		{"Desserts", CategoryDesserts},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseCategory(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	_, err := ParseCategory("Pizza")

	var enumErr *EnumError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "category", enumErr.Enum)
	assert.Equal(t, "Pizza", enumErr.Value)
}

func TestCategory_JSON(t *testing.T) {
	data, err := json.Marshal(CategoryMainCourses)
	require.NoError(t, err)
	assert.Equal(t, `"MainCourses"`, string(data))

	data, err = json.Marshal(Category(999))
	require.NoError(t, err)
	assert.Equal(t, `999`, string(data))
}

func TestCategory_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Category
	}{
		{"name", `"Desserts"`, CategoryDesserts},
		{"number", `2`, CategorySoups},
		{"numeric string", `"3"`, CategorySalads},
		{"out of range number is kept", `999`, Category(999)},
		{"null", `null`, Category(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c Category
			require.NoError(t, json.Unmarshal([]byte(tc.input), &c))
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestCategory_UnmarshalJSON_UnknownName(t *testing.T) {
	var c Category
	err := json.Unmarshal([]byte(`"Pizza"`), &c)

	var enumErr *EnumError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "category", enumErr.Enum)
}

func TestDietaryTag_RoundTripNames(t *testing.T) {
	for _, tag := range DietaryTags() {
		t.Run(tag.String(), func(t *testing.T) {
			data, err := json.Marshal(tag)
			require.NoError(t, err)

			var got DietaryTag
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tag, got)
		})
	}
}

func TestDietaryTag_UnmarshalJSON_Rejects(t *testing.T) {
	for _, input := range []string{`"Paleo"`, `42`, `0`, `""`, `true`} {
		t.Run(input, func(t *testing.T) {
			var tag DietaryTag
			err := json.Unmarshal([]byte(input), &tag)

			var enumErr *EnumError
			require.ErrorAs(t, err, &enumErr)
			assert.Equal(t, "dietaryTag", enumErr.Enum)
		})
	}
}

func TestDietaryTag_PointerNullIsAbsent(t *testing.T) {
	var body struct {
		Tag *DietaryTag `json:"tag"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tag":null}`), &body))
	assert.Nil(t, body.Tag)
}
