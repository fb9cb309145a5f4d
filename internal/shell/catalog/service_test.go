package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quickbite/menu/internal/core/domain"
	"github.com/quickbite/menu/internal/core/validation"
	"github.com/quickbite/menu/internal/shell/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// testStore creates a test SQLite store
func testStore(t *testing.T) store.Store {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// recordingStore counts write operations, including those made inside WithTx.
type recordingStore struct {
	store.Store
	writes *int
}

func newRecordingStore(s store.Store) recordingStore {
	return recordingStore{Store: s, writes: new(int)}
}

func (r recordingStore) CreateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	*r.writes++
	return r.Store.CreateFoodItem(ctx, item)
}

func (r recordingStore) UpdateFoodItem(ctx context.Context, item *domain.FoodItem) error {
	*r.writes++
	return r.Store.UpdateFoodItem(ctx, item)
}

func (r recordingStore) DeleteFoodItem(ctx context.Context, id string) error {
	*r.writes++
	return r.Store.DeleteFoodItem(ctx, id)
}

func (r recordingStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return r.Store.WithTx(ctx, func(tx store.Store) error {
		return fn(recordingStore{Store: tx, writes: r.writes})
	})
}

// brokenStore fails every operation with a connection error.
type brokenStore struct {
	store.Store
}

var errBroken = store.NewStoreError("test", "", "", "database unavailable", store.ErrConnectionFailed)

func (brokenStore) CreateFoodItem(context.Context, *domain.FoodItem) error { return errBroken }
func (brokenStore) DeleteFoodItem(context.Context, string) error           { return errBroken }
func (brokenStore) WithTx(context.Context, func(store.Store) error) error  { return errBroken }

// stepClock returns start, then start+step, start+2*step, and so on.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

var clockStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(s store.Store) *Service {
	return NewService(s, nil, WithClock(stepClock(clockStart, time.Second)))
}

func strPtr(s string) *string { return &s }

func tagPtr(t domain.DietaryTag) *domain.DietaryTag { return &t }

func chickenBurger() domain.CreateFoodItem {
	return domain.CreateFoodItem{
		Name:        "Chicken Burger",
		Description: strPtr("Grilled chicken breast with lettuce and tomato"),
		Price:       decimal.RequireFromString("12.99"),
		Category:    domain.CategoryMainCourses,
		DietaryTag:  tagPtr(domain.DietaryGlutenFree),
	}
}

// =============================================================================
// Create Tests
// =============================================================================

func TestCreate_StampsIDAndTimestamps(t *testing.T) {
	svc := newTestService(testStore(t))

	item, err := svc.Create(context.Background(), chickenBurger())
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, clockStart, item.CreatedAt)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	assert.Equal(t, "Chicken Burger", item.Name)
	assert.Equal(t, "Grilled chicken breast with lettuce and tomato", *item.Description)
	assert.True(t, decimal.RequireFromString("12.99").Equal(item.Price))
	assert.Equal(t, domain.CategoryMainCourses, item.Category)
	assert.Equal(t, domain.DietaryGlutenFree, *item.DietaryTag)
}

func TestCreate_FreshIDs(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		item, err := svc.Create(ctx, chickenBurger())
		require.NoError(t, err)
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestCreate_TruncatesToMicroseconds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))
	svc := NewService(testStore(t), nil, WithClock(func() time.Time { return now }))

	item, err := svc.Create(context.Background(), chickenBurger())
	require.NoError(t, err)
	assert.Equal(t, time.UTC, item.CreatedAt.Location())
	assert.Equal(t, 123456000, item.CreatedAt.Nanosecond())
}

func TestCreate_UsesIDGenerator(t *testing.T) {
	svc := NewService(testStore(t), nil, WithIDGenerator(func() string { return "fixed-id" }))

	item, err := svc.Create(context.Background(), chickenBurger())
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", item.ID)

	_, err = svc.Create(context.Background(), chickenBurger())
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestCreate_ValidationFailureWritesNothing(t *testing.T) {
	rec := newRecordingStore(testStore(t))
	svc := newTestService(rec)

	_, err := svc.Create(context.Background(), domain.CreateFoodItem{
		Name:        "",
		Description: strPtr(strings.Repeat("x", 1001)),
		Price:       decimal.NewFromInt(-10),
		Category:    domain.Category(999),
	})

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 4)
	assert.Equal(t, 0, *rec.writes)
}

func TestCreate_StorageFailure(t *testing.T) {
	svc := newTestService(brokenStore{})

	_, err := svc.Create(context.Background(), chickenBurger())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConnectionFailed)
	assert.False(t, store.IsNotFound(err))
}

// =============================================================================
// Update Tests
// =============================================================================

func TestUpdate_NameOnly(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	original, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, original.ID, domain.FoodItemUpdate{Name: strPtr("New Name")})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Description, updated.Description)
	assert.True(t, original.Price.Equal(updated.Price))
	assert.Equal(t, original.Category, updated.Category)
	assert.Equal(t, original.DietaryTag, updated.DietaryTag)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))

	stored, err := svc.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdate_AllFields(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	original, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	price := decimal.RequireFromString("15.99")
	category := domain.CategoryAppetizers
	updated, err := svc.Update(ctx, original.ID, domain.FoodItemUpdate{
		Name:        strPtr("Updated Chicken Burger"),
		Description: strPtr("Updated delicious chicken burger"),
		Price:       &price,
		Category:    &category,
		DietaryTag:  tagPtr(domain.DietarySpicy),
	})
	require.NoError(t, err)

	assert.Equal(t, "Updated Chicken Burger", updated.Name)
	assert.Equal(t, "Updated delicious chicken burger", *updated.Description)
	assert.Equal(t, "15.99", updated.Price.String())
	assert.Equal(t, domain.CategoryAppetizers, updated.Category)
	assert.Equal(t, domain.DietarySpicy, *updated.DietaryTag)
}

func TestUpdate_EmptyRequestRefreshesUpdatedAt(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	original, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, original.ID, domain.FoodItemUpdate{})
	require.NoError(t, err)
	assert.Equal(t, original.Name, updated.Name)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
}

func TestUpdate_EmptyDescriptionKeepsStoredValue(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	original, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, original.ID, domain.FoodItemUpdate{Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, original.Description, updated.Description)
}

func TestUpdate_ClockBehindKeepsUpdatedAt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	original, err := newTestService(s).Create(ctx, chickenBurger())
	require.NoError(t, err)

	past := NewService(s, nil, WithClock(func() time.Time { return clockStart.Add(-time.Hour) }))
	updated, err := past.Update(ctx, original.ID, domain.FoodItemUpdate{Name: strPtr("Rewound")})
	require.NoError(t, err)
	assert.Equal(t, original.UpdatedAt, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdate_UnknownIDWritesNothing(t *testing.T) {
	rec := newRecordingStore(testStore(t))
	svc := newTestService(rec)

	_, err := svc.Update(context.Background(), "unknown-id", domain.FoodItemUpdate{Name: strPtr("X")})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, 0, *rec.writes)
}

func TestUpdate_DeletedIDNotFound(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Update(ctx, item.ID, domain.FoodItemUpdate{Name: strPtr("X")})
	assert.True(t, store.IsNotFound(err))
}

func TestUpdate_ValidationPrecedesLookup(t *testing.T) {
	rec := newRecordingStore(testStore(t))
	svc := newTestService(rec)

	_, err := svc.Update(context.Background(), "unknown-id", domain.FoodItemUpdate{Name: strPtr("   ")})

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 2)
	assert.Equal(t, validation.MsgNameRequired, vErr.Violations[0].Message)
	assert.Equal(t, validation.MsgNameBlank, vErr.Violations[1].Message)
	assert.False(t, store.IsNotFound(err))
	assert.Equal(t, 0, *rec.writes)
}

func TestUpdate_WhitespaceNameLeavesItemUnchanged(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	original, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	_, err = svc.Update(ctx, original.ID, domain.FoodItemUpdate{Name: strPtr(" \t ")})
	require.Error(t, err)

	stored, err := svc.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestUpdate_StorageFailure(t *testing.T) {
	svc := newTestService(brokenStore{})

	_, err := svc.Update(context.Background(), "any", domain.FoodItemUpdate{Name: strPtr("X")})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConnectionFailed)
	assert.False(t, store.IsNotFound(err))
}

// =============================================================================
// Delete and Read Tests
// =============================================================================

func TestDelete(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	assert.True(t, store.IsNotFound(err))

	err = svc.Delete(ctx, item.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestDelete_StorageFailure(t *testing.T) {
	svc := newTestService(brokenStore{})

	err := svc.Delete(context.Background(), "any")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConnectionFailed))
}

func TestGet_NeverCreated(t *testing.T) {
	svc := newTestService(testStore(t))

	_, err := svc.Get(context.Background(), "never-created")
	assert.True(t, store.IsNotFound(err))
}

func TestList(t *testing.T) {
	svc := newTestService(testStore(t))
	ctx := context.Background()

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	first, err := svc.Create(ctx, chickenBurger())
	require.NoError(t, err)
	second := chickenBurger()
	second.Name = "Veggie Burger"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, "Veggie Burger", items[1].Name)
}
