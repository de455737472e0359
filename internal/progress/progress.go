// Package progress plays a fake loading bar by editing one message in
// place: a bounded number of randomized increments with randomized delays.
package progress

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	barLength = 10

	minSteps = 5
	maxSteps = 12

	minIncrement = 5
	maxIncrement = 20

	minDelay = 500 * time.Millisecond
	maxDelay = 1500 * time.Millisecond
)

// Editor replaces the rendered message text. Edit failures are ignored so a
// missed frame never aborts the animation.
type Editor func(text string) error

// Task is one animation run. Zero values for Intn and Sleep select the real
// clock and math/rand; tests inject deterministic versions.
type Task struct {
	Edit  Editor
	Intn  func(n int) int
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run animates "Loading <label>" from 0 to 100 percent. It returns the
// context error when cancelled mid-run, otherwise nil after forcing the
// final 100% frame.
func (t *Task) Run(ctx context.Context, label string) error {
	intn := t.Intn
	if intn == nil {
		intn = rand.Intn
	}
	sleep := t.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	t.edit(label, 0)

	steps := minSteps + intn(maxSteps-minSteps+1)
	percent := 0
	for i := 0; i < steps && percent < 100; i++ {
		percent += minIncrement + intn(maxIncrement-minIncrement+1)
		if percent > 100 {
			percent = 100
		}
		t.edit(label, percent)

		delay := minDelay + time.Duration(intn(int(maxDelay-minDelay)+1))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	t.edit(label, 100)
	return nil
}

func (t *Task) edit(label string, percent int) {
	_ = t.Edit(fmt.Sprintf("⏳ <b>Loading %s...</b>\n\n[%s] %d%%", label, Bar(percent), percent))
}

// Run animates with the default clock and randomness.
func Run(ctx context.Context, label string, edit Editor) error {
	t := Task{Edit: edit}
	return t.Run(ctx, label)
}

// Bar renders the filled and empty segments for a percentage, e.g.
// "████░░░░░░" for 40.
func Bar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barLength / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barLength-filled)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
