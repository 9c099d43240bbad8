package volunteer

import (
	"testing"

	"github.com/glebarez/sqlite"
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

func newApplication() *Application {
	return &Application{
		FirstName: "Dana",
		LastName:  "Whitfield",
		Phone:     "555-0142",
		Email:     "dana@example.com",
		CertCPR:   true,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)

	app := newApplication()
	require.NoError(t, store.Create(app))
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "default", app.Station)
	assert.Equal(t, StatusPending, app.Status)

	got, err := store.Get("", app.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dana", got.FirstName)
	assert.True(t, got.CertCPR)

	missing, err := store.Get("default", "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_CreateForcesPendingStatus(t *testing.T) {
	store := newTestStore(t)

	app := newApplication()
	app.Status = StatusAccepted
	require.NoError(t, store.Create(app))
	assert.Equal(t, StatusPending, app.Status)
}

func TestStore_ListByStatus(t *testing.T) {
	store := newTestStore(t)

	a := newApplication()
	require.NoError(t, store.Create(a))
	b := newApplication()
	b.FirstName = "Miles"
	require.NoError(t, store.Create(b))

	_, err := store.Review("default", a.ID, "chief", StatusUnderReview, "")
	require.NoError(t, err)

	pending, _, err := store.List("default", ListFilter{Status: StatusPending}, 10, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Miles", pending[0].FirstName)

	all, _, err := store.List("default", ListFilter{}, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_ReviewWorkflow(t *testing.T) {
	store := newTestStore(t)

	app := newApplication()
	require.NoError(t, store.Create(app))

	reviewed, err := store.Review("default", app.ID, "chief", StatusUnderReview, "")
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, reviewed.Status)
	assert.Equal(t, "chief", reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	reviewed, err = store.Review("default", app.ID, "chief", StatusAccepted, "strong candidate")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, reviewed.Status)
	assert.Equal(t, "strong candidate", reviewed.ReviewNote)
	assert.True(t, reviewed.IsTerminal())

	// Terminal states admit no further moves.
	_, err = store.Review("default", app.ID, "chief", StatusRejected, "")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusAccepted, te.From)
}

func TestStore_ReviewInvalidMoves(t *testing.T) {
	store := newTestStore(t)

	app := newApplication()
	require.NoError(t, store.Create(app))

	// pending may be rejected outright but never accepted directly.
	_, err := store.Review("default", app.ID, "chief", StatusAccepted, "")
	var te *TransitionError
	require.ErrorAs(t, err, &te)

	got, err := store.Get("default", app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = store.Review("default", app.ID, "chief", StatusRejected, "incomplete form")
	require.NoError(t, err)
}

func TestStore_ReviewNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Review("default", "no-such-id", "chief", StatusUnderReview, "")
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestStore_ReviewDoesNotTouchFormContent(t *testing.T) {
	store := newTestStore(t)

	app := newApplication()
	app.Motivation = "grew up near the station"
	require.NoError(t, store.Create(app))

	_, err := store.Review("default", app.ID, "chief", StatusUnderReview, "")
	require.NoError(t, err)

	got, err := store.Get("default", app.ID)
	require.NoError(t, err)
	assert.Equal(t, "grew up near the station", got.Motivation)
	assert.Equal(t, "Dana", got.FirstName)
}
