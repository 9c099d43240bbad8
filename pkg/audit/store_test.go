package audit

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func newEvent(actor, action string, createdAt time.Time) *EventRecord {
	return &EventRecord{
		ID:           uuid.New().String(),
		Station:      "default",
		Actor:        actor,
		ResourceType: "resources",
		Action:       action,
		Method:       "POST",
		Path:         "/api/v1/resources",
		Outcome:      "success",
		StatusCode:   201,
		CreatedAt:    createdAt,
	}
}

func TestStore_AppendAndGet(t *testing.T) {
	store := newTestStore(t)

	event := newEvent("alice", "create", time.Now())
	require.NoError(t, store.Append(event))

	got, err := store.GetByID(event.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Actor)
	assert.Equal(t, "create", got.Action)

	missing, err := store.GetByID("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListFilters(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	require.NoError(t, store.Append(newEvent("alice", "create", now.Add(-2*time.Minute))))
	require.NoError(t, store.Append(newEvent("bob", "log-usage", now.Add(-time.Minute))))
	failed := newEvent("bob", "report-damage", now)
	failed.Outcome = "failure"
	failed.StatusCode = 409
	require.NoError(t, store.Append(failed))

	all, _, total, err := store.List(ListFilter{Station: "default"}, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, total)
	// Newest first.
	assert.Equal(t, "report-damage", all[0].Action)

	byActor, _, _, err := store.List(ListFilter{Actor: "bob"}, 10, "")
	require.NoError(t, err)
	assert.Len(t, byActor, 2)

	failures, _, _, err := store.List(ListFilter{Outcome: "failure"}, 10, "")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, 409, failures[0].StatusCode)
}

func TestStore_ListPagination(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(newEvent("alice", "create", now.Add(time.Duration(-i)*time.Minute))))
	}

	page1, token, total, err := store.List(ListFilter{}, 3, "")
	require.NoError(t, err)
	assert.Len(t, page1, 3)
	assert.EqualValues(t, 5, total)
	require.NotEmpty(t, token)

	page2, token, _, err := store.List(ListFilter{}, 3, token)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Empty(t, token)
}

func TestStore_DeleteOlderThan(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	require.NoError(t, store.Append(newEvent("alice", "create", now.Add(-48*time.Hour))))
	require.NoError(t, store.Append(newEvent("alice", "create", now)))

	deleted, err := store.DeleteOlderThan(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	remaining, _, _, err := store.List(ListFilter{}, 10, "")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
