package roster

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// storeUnderTest builds each Store implementation with a deterministic clock.
func storeUnderTest(t *testing.T, name string, clock *fakeClock) Store {
	t.Helper()
	switch name {
	case "memory":
		s := NewMemStore()
		s.Now = clock.Now
		return s
	case "file":
		s, err := OpenFileStore(filepath.Join(t.TempDir(), "users_data.json"))
		require.NoError(t, err)
		s.Now = clock.Now
		return s
	default:
		t.Fatalf("unknown store %q", name)
		return nil
	}
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestRecordInteractionCountsAndTimestamps(t *testing.T) {
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			clock := newFakeClock()
			s := storeUnderTest(t, name, clock)
			ctx := context.Background()

			firstSeen := clock.Now()
			require.NoError(t, s.RecordInteraction(ctx, 42, "alice", "Alice", ""))
			clock.Advance(time.Minute)
			require.NoError(t, s.RecordInteraction(ctx, 42, "", "", "Liddell"))
			clock.Advance(time.Minute)
			require.NoError(t, s.RecordInteraction(ctx, 42, "alice2", "", ""))

			all, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)

			rec := all[0]
			require.Equal(t, int64(42), rec.ID)
			require.Equal(t, int64(3), rec.Interactions)
			require.True(t, rec.FirstSeen.Equal(firstSeen), "firstSeen must stay fixed")
			require.True(t, rec.LastSeen.Equal(clock.Now()), "lastSeen must follow the latest call")
			require.Equal(t, StatusActive, rec.Status)
			require.False(t, rec.Imported)

			// Empty values never erase, non-empty ones overwrite.
			require.Equal(t, "alice2", rec.Username)
			require.Equal(t, "Alice", rec.FirstName)
			require.Equal(t, "Liddell", rec.LastName)
		})
	}
}

func TestSetStatusUnknownIDLeavesStoreUnchanged(t *testing.T) {
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name, newFakeClock())
			ctx := context.Background()

			require.NoError(t, s.RecordInteraction(ctx, 1, "u", "U", ""))
			before, err := s.All(ctx)
			require.NoError(t, err)

			err = s.SetStatus(ctx, 999, StatusBlocked)
			require.ErrorIs(t, err, ErrNotFound)

			after, err := s.All(ctx)
			require.NoError(t, err)
			require.Equal(t, before, after)
		})
	}
}

func TestSetStatusUnrestrictedTransitions(t *testing.T) {
	s := storeUnderTest(t, "memory", newFakeClock())
	ctx := context.Background()
	require.NoError(t, s.RecordInteraction(ctx, 5, "", "", ""))

	// Any status may follow any other, including blocked -> active.
	sequence := []Status{StatusBlocked, StatusActive, StatusDeleted, StatusMuted, StatusActive}
	for _, st := range sequence {
		require.NoError(t, s.SetStatus(ctx, 5, st))
		recs, err := s.All(ctx)
		require.NoError(t, err)
		require.Equal(t, st, recs[0].Status)
	}
}

func TestCountsPartitionExactly(t *testing.T) {
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name, newFakeClock())
			ctx := context.Background()

			for id := int64(1); id <= 6; id++ {
				require.NoError(t, s.RecordInteraction(ctx, id, "", "", ""))
			}
			require.NoError(t, s.SetStatus(ctx, 2, StatusMuted))
			require.NoError(t, s.SetStatus(ctx, 3, StatusDeleted))
			require.NoError(t, s.SetStatus(ctx, 4, StatusBlocked))
			require.NoError(t, s.SetStatus(ctx, 4, StatusMuted))

			counts, err := s.Counts(ctx)
			require.NoError(t, err)
			all, err := s.All(ctx)
			require.NoError(t, err)

			require.Equal(t, len(all), counts.Total)
			sum := 0
			for _, st := range Statuses {
				sum += counts.ByStatus[st]
			}
			require.Equal(t, counts.Total, sum)
			require.Equal(t, 3, counts.ByStatus[StatusActive])
			require.Equal(t, 2, counts.ByStatus[StatusMuted])
			require.Equal(t, 1, counts.ByStatus[StatusDeleted])
			require.Equal(t, 0, counts.ByStatus[StatusBlocked])
		})
	}
}

func TestAddIsCreateOnly(t *testing.T) {
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name, newFakeClock())
			ctx := context.Background()

			created, err := s.Add(ctx, 7, "bob", "Bob", "")
			require.NoError(t, err)
			require.True(t, created)

			created, err = s.Add(ctx, 7, "intruder", "Mallory", "")
			require.NoError(t, err)
			require.False(t, created)

			all, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)

			// Second call's fields are discarded, not merged.
			require.Equal(t, "bob", all[0].Username)
			require.Equal(t, "Bob", all[0].FirstName)
			require.True(t, all[0].Imported)
			require.Zero(t, all[0].Interactions)
		})
	}
}

func TestImportIDsSkipsDuplicates(t *testing.T) {
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name, newFakeClock())
			ctx := context.Background()

			report, err := s.ImportIDs(ctx, []int64{7, 7, 8})
			require.NoError(t, err)
			require.Equal(t, ImportReport{Added: 2, Skipped: 1, Total: 3}, report)

			all, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Equal(t, int64(7), all[0].ID)
			require.Equal(t, int64(8), all[1].ID)
			for _, rec := range all {
				require.True(t, rec.Imported)
				require.Zero(t, rec.Interactions)
			}
		})
	}
}

func TestImportedRecordStartsCountingOnFirstInteraction(t *testing.T) {
	s := storeUnderTest(t, "memory", newFakeClock())
	ctx := context.Background()

	_, err := s.ImportIDs(ctx, []int64{10})
	require.NoError(t, err)
	require.NoError(t, s.RecordInteraction(ctx, 10, "carol", "Carol", ""))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), all[0].Interactions)
	require.True(t, all[0].Imported)
	require.Equal(t, "carol", all[0].Username)
}
