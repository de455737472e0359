// Package broadcast fans a payload out to a list of recipients one by one.
// A failed delivery is tallied and skipped; there are no retries.
package broadcast

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/m3rciful/panelbot/internal/logger"
)

// Send delivers the payload to one recipient. The closure owns the payload
// (text or media) so the loop stays transport-agnostic.
type Send func(ctx context.Context, recipient int64) error

// Report summarizes one broadcast run. Total always equals the recipient
// count; when the context is cancelled mid-run the unprocessed remainder is
// in neither bucket.
type Report struct {
	ID      string
	Success int
	Failed  int
	Total   int
}

// Run delivers to each recipient sequentially. Per-recipient failures are
// logged and counted without aborting the rest.
func Run(ctx context.Context, recipients []int64, send Send) Report {
	rep := Report{ID: uuid.NewString(), Total: len(recipients)}

	logger.LogEvent(ctx, logger.Bcast, slog.LevelInfo, "broadcast_start",
		slog.String("broadcast_id", rep.ID), slog.Int("total", rep.Total))

	for _, id := range recipients {
		if ctx.Err() != nil {
			logger.LogEvent(ctx, logger.Bcast, slog.LevelWarn, "broadcast_cancelled",
				slog.String("broadcast_id", rep.ID),
				slog.Int("success", rep.Success), slog.Int("failed", rep.Failed))
			break
		}
		if err := send(ctx, id); err != nil {
			rep.Failed++
			logger.LogEvent(ctx, logger.Bcast, slog.LevelDebug, "broadcast_delivery_failed",
				slog.String("broadcast_id", rep.ID), slog.Int64("user_id", id), slog.Any("err", err))
			continue
		}
		rep.Success++
	}

	logger.LogEvent(ctx, logger.Bcast, slog.LevelInfo, "broadcast_done",
		slog.String("broadcast_id", rep.ID),
		slog.Int("success", rep.Success), slog.Int("failed", rep.Failed), slog.Int("total", rep.Total))
	return rep
}
