package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	clock := newFakeClock()
	ctx := context.Background()

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	s.Now = clock.Now

	require.NoError(t, s.RecordInteraction(ctx, 100, "früh", "Ольга", "Ёлкина"))
	clock.Advance(time.Hour)
	require.NoError(t, s.RecordInteraction(ctx, 200, "late", "李", "雷"))
	require.NoError(t, s.SetStatus(ctx, 100, StatusMuted))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	all, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Insertion order survives the round trip.
	require.Equal(t, int64(100), all[0].ID)
	require.Equal(t, int64(200), all[1].ID)
	require.Equal(t, StatusMuted, all[0].Status)
	require.Equal(t, int64(1), all[1].Interactions)
	require.True(t, all[0].FirstSeen.Equal(all[0].LastSeen))
}

func TestFileStoreDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	s.Now = newFakeClock().Now

	require.NoError(t, s.RecordInteraction(context.Background(), 42, "", "Ольга", ""))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)

	// String-keyed, pretty-printed, non-ASCII left unescaped.
	require.Contains(t, doc, `"42": {`)
	require.Contains(t, doc, "\n    \"user_id\": 42,\n")
	require.Contains(t, doc, "Ольга")
	require.NotContains(t, doc, `\u0`)
}

func TestFileStoreMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2,3]"), 0o644))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "parse"))
}

func TestFileStoreImportPersistsOnceAtEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	s.Now = newFakeClock().Now

	// All-duplicate import must not rewrite the document.
	_, err = s.ImportIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)

	report, err := s.ImportIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, ImportReport{Added: 0, Skipped: 2, Total: 2}, report)

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}
