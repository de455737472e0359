package telegram

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/config"
	"github.com/m3rciful/panelbot/internal/telegram/middleware"
)

// DefaultMiddlewares builds the shared global middleware chain.
func DefaultMiddlewares(cfg *config.Config, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		if interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
			exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, kind := range cfg.RateLimit.ExcludeUpdates {
				exclude[strings.ToLower(kind)] = struct{}{}
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval:  interval,
					Exclude:   exclude,
					OnLimited: onLimited,
				}),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
	return mws
}
