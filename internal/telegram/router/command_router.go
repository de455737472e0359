package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/logger"
	tg "github.com/m3rciful/panelbot/internal/telegram"
	"github.com/m3rciful/panelbot/internal/telegram/middleware"
)

// CommandRouteOptions configures how admin-only commands are gated.
type CommandRouteOptions struct {
	AdminIDs      []int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes wraps every registered command with the shared middleware
// chain and the admin gate where the command demands it.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminIDs: opts.AdminIDs,
		OnReject: opts.OnAdminReject,
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for name, cmd := range reg.Commands() {
		h := cmd.Handler
		h = wrapSummary(name, h)
		h = middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
		if cmd.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
	}

	logger.LogEvent(logger.Background(), logger.TWire, slog.LevelInfo, "wire_complete",
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())))
	return routes
}

func wrapSummary(name string, h tele.HandlerFunc) tele.HandlerFunc {
	handlerName := normalizeHandlerName(name)
	return func(c tele.Context) error {
		start := time.Now()
		return handleWithSummary(c, handlerName, start, func() error {
			return h(c)
		})
	}
}
