// Package middleware provides the shared handler wrappers: panic recovery,
// update logging, admin access checks, rate limiting and send metrics.
package middleware

import (
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/logger"
)

// RecoverMiddleware catches handler panics so a single bad update cannot
// take the bot down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.LogEvent(logger.Background(), logger.TG, slog.LevelError, "panic_recovered",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}
