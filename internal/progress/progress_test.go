package progress

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBar(t *testing.T) {
	require.Equal(t, "░░░░░░░░░░", Bar(0))
	require.Equal(t, "█████░░░░░", Bar(50))
	require.Equal(t, "██████████", Bar(100))
	require.Equal(t, "░░░░░░░░░░", Bar(-5))
	require.Equal(t, "██████████", Bar(250))
}

func TestRunEndsAtFullBar(t *testing.T) {
	var frames []string
	task := Task{
		Edit:  func(text string) error { frames = append(frames, text); return nil },
		Intn:  func(n int) int { return 0 },
		Sleep: func(context.Context, time.Duration) error { return nil },
	}

	require.NoError(t, task.Run(context.Background(), "IPHONE 🍎"))
	require.NotEmpty(t, frames)

	last := frames[len(frames)-1]
	require.Contains(t, last, "[██████████] 100%")
	require.Contains(t, frames[0], "[░░░░░░░░░░] 0%")
	for _, f := range frames {
		require.Contains(t, f, "Loading IPHONE 🍎")
	}
}

func TestRunProgressIsMonotonic(t *testing.T) {
	var frames []string
	task := Task{
		Edit:  func(text string) error { frames = append(frames, text); return nil },
		Intn:  func(n int) int { return n / 2 },
		Sleep: func(context.Context, time.Duration) error { return nil },
	}
	require.NoError(t, task.Run(context.Background(), "x"))

	prev := -1
	for _, f := range frames {
		raw := strings.TrimSuffix(f[strings.LastIndexByte(f, ' ')+1:], "%")
		pct, err := strconv.Atoi(raw)
		require.NoError(t, err)
		require.GreaterOrEqual(t, pct, prev)
		prev = pct
	}
	require.Equal(t, 100, prev)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var edits int
	task := Task{
		Edit: func(string) error { edits++; return nil },
		Intn: func(n int) int { return 0 },
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := task.Run(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, edits) // initial frame plus the first increment
}

func TestRunIgnoresEditFailures(t *testing.T) {
	task := Task{
		Edit:  func(string) error { return errors.New("message is not modified") },
		Intn:  func(n int) int { return n - 1 },
		Sleep: func(context.Context, time.Duration) error { return nil },
	}
	require.NoError(t, task.Run(context.Background(), "x"))
}
