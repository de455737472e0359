package pgstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/panelbot/internal/roster"
)

// dsnEnv points the integration tests at a disposable database, e.g.
// "postgres://panelbot:pw@localhost:5432/panelbot_test?sslmode=disable".
const dsnEnv = "PANELBOT_TEST_DSN"

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("set %s to run Postgres integration tests", dsnEnv)
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_create_users.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	_, err = db.Exec(`TRUNCATE users RESTART IDENTITY`)
	require.NoError(t, err)

	store := New(db)
	store.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return store
}

func TestRecordInteractionUpsert(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordInteraction(ctx, 7, "bob", "Bob", ""))
	require.NoError(t, store.RecordInteraction(ctx, 7, "", "", "Builder"))

	recs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.EqualValues(t, 2, rec.Interactions)
	assert.Equal(t, "bob", rec.Username, "empty update must not erase")
	assert.Equal(t, "Bob", rec.FirstName)
	assert.Equal(t, "Builder", rec.LastName)
	assert.Equal(t, roster.StatusActive, rec.Status)
}

func TestSetStatusAndByStatus(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordInteraction(ctx, 1, "a", "A", ""))
	require.NoError(t, store.RecordInteraction(ctx, 2, "b", "B", ""))
	require.NoError(t, store.SetStatus(ctx, 2, roster.StatusMuted))

	assert.ErrorIs(t, store.SetStatus(ctx, 404, roster.StatusBlocked), roster.ErrNotFound)

	muted, err := store.ByStatus(ctx, roster.StatusMuted)
	require.NoError(t, err)
	require.Len(t, muted, 1)
	assert.EqualValues(t, 2, muted[0].ID)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.ByStatus[roster.StatusActive])
	assert.Equal(t, 1, counts.ByStatus[roster.StatusMuted])
	assert.Equal(t, 0, counts.ByStatus[roster.StatusBlocked])
}

func TestAddIsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	created, err := store.Add(ctx, 5, "", "", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Add(ctx, 5, "eve", "Eve", "")
	require.NoError(t, err)
	assert.False(t, created)

	recs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Username, "existing record must stay untouched")
	assert.True(t, recs[0].Imported)
	assert.Zero(t, recs[0].Interactions)
}

func TestImportIDsDedupAndOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordInteraction(ctx, 30, "", "", ""))

	rep, err := store.ImportIDs(ctx, []int64{10, 20, 10, 30})
	require.NoError(t, err)
	assert.Equal(t, roster.ImportReport{Added: 2, Skipped: 2, Total: 4}, rep)

	recs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	// seq order: the pre-existing record first, then the new imports.
	assert.EqualValues(t, 30, recs[0].ID)
	assert.EqualValues(t, 10, recs[1].ID)
	assert.EqualValues(t, 20, recs[2].ID)
}

func TestImportIDsEmpty(t *testing.T) {
	store := testStore(t)

	rep, err := store.ImportIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, roster.ImportReport{}, rep)
}
