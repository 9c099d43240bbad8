package inventory

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB creates an in-memory SQLite DB with the inventory tables migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, NewResourceStore(db).AutoMigrate())
	return db
}

func TestResourceStore_CreateDefaults(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	res := &Resource{Name: "SCBA Cylinder", Quantity: 12, Unit: "units"}
	require.NoError(t, store.Create(res))

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "default", res.Station)
	assert.Equal(t, ConditionServiceable, res.Condition)
	assert.Equal(t, 12, res.AvailableQuantity)
	assert.True(t, res.Active)

	got, err := store.Get("", res.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, res.Name, got.Name)
	assert.Equal(t, 12, got.AvailableQuantity)
}

func TestResourceStore_CreateRejectsBadQuantities(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	err := store.Create(&Resource{Name: "Hose", Quantity: 5, AvailableQuantity: 10})
	require.Error(t, err)

	err = store.Create(&Resource{Name: "Hose", Quantity: -5})
	require.Error(t, err)
}

func TestResourceStore_GetMissingReturnsNilNil(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	got, err := store.Get("default", "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResourceStore_ListFilters(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	require.NoError(t, store.Create(&Resource{Name: "Halligan Bar", ResourceType: "equipment", Category: "forcible entry", Quantity: 4}))
	require.NoError(t, store.Create(&Resource{Name: "Trauma Kit", ResourceType: "consumable", Category: "medical", Quantity: 10, MinStockLevel: 12}))
	require.NoError(t, store.Create(&Resource{Name: "Foam Concentrate", ResourceType: "consumable", Category: "suppression", Quantity: 8}))

	all, _, err := store.List("default", ResourceListFilter{}, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	consumables, _, err := store.List("default", ResourceListFilter{ResourceType: "consumable"}, 10, "")
	require.NoError(t, err)
	assert.Len(t, consumables, 2)

	medical, _, err := store.List("default", ResourceListFilter{Category: "medical"}, 10, "")
	require.NoError(t, err)
	require.Len(t, medical, 1)
	assert.Equal(t, "Trauma Kit", medical[0].Name)

	serviceable, _, err := store.List("default", ResourceListFilter{Condition: ConditionServiceable}, 10, "")
	require.NoError(t, err)
	assert.Len(t, serviceable, 3)

	lowStock, _, err := store.List("default", ResourceListFilter{LowStockOnly: true}, 10, "")
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, "Trauma Kit", lowStock[0].Name)
}

func TestResourceStore_ListPagination(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(&Resource{Name: fmt.Sprintf("Item %d", i), Quantity: 1}))
	}

	page1, token, err := store.List("default", ResourceListFilter{}, 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, token)

	page2, token, err := store.List("default", ResourceListFilter{}, 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotEmpty(t, token)

	page3, token, err := store.List("default", ResourceListFilter{}, 2, token)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Empty(t, token)

	seen := map[string]bool{}
	for _, r := range append(append(page1, page2...), page3...) {
		assert.False(t, seen[r.ID], "resource %s returned twice", r.ID)
		seen[r.ID] = true
	}
}

func TestResourceStore_ListScopedToStation(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	require.NoError(t, store.Create(&Resource{Name: "Ladder", Station: "station-1", Quantity: 2}))
	require.NoError(t, store.Create(&Resource{Name: "Ladder", Station: "station-2", Quantity: 3}))

	got, _, err := store.List("station-1", ResourceListFilter{}, 10, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "station-1", got[0].Station)
}

func TestResourceStore_Deactivate(t *testing.T) {
	store := NewResourceStore(newTestDB(t))

	res := &Resource{Name: "Thermal Camera", Quantity: 1}
	require.NoError(t, store.Create(res))

	require.NoError(t, store.Deactivate("default", res.ID))

	got, err := store.Get("default", res.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)

	// A second deactivation reports the resource as already inactive.
	err = store.Deactivate("default", res.ID)
	require.ErrorIs(t, err, ErrResourceInactive)

	err = store.Deactivate("default", "no-such-id")
	require.ErrorIs(t, err, ErrResourceNotFound)
}
