package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/logger"
	"github.com/m3rciful/panelbot/internal/nav"
	"github.com/m3rciful/panelbot/internal/progress"
	tghelpers "github.com/m3rciful/panelbot/internal/telegram/helpers"
)

// handleNavCallback routes every navigation and keypad button press: decode
// the token, optionally play the loading animation, resolve and render.
func (a *App) handleNavCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	tok, err := nav.Decode(callbackKey(cb), callbackPayload(cb))
	if err != nil {
		logger.LogEvent(ctx, logger.Nav, slog.LevelWarn, "bad_token",
			slog.String("payload", logger.SanitizeLimit(cb.Data, 128)), slog.Any("err", err))
		return renderView(c, a.engine.Fallback())
	}

	// Opening a panel item plays the loading bar before the keypad shows.
	// The callback is acked first so the client drops its spinner for the
	// several seconds the animation takes.
	if tok.Kind == nav.KindScreen && tok.Screen == nav.ScreenItem {
		if it, ok := a.engine.Item(tok.Item); ok {
			_ = c.Respond()
			if err := progress.Run(a.runCtx, it.Label, func(text string) error {
				return tghelpers.EditHTML(c, text)
			}); err != nil {
				return err
			}
		}
	}

	view := a.engine.Resolve(ctx, actorFrom(c), tok)
	return renderView(c, view)
}

// handleStaleCallback answers buttons whose unique no handler claims.
func (a *App) handleStaleCallback(c tele.Context) error {
	return renderView(c, a.engine.Fallback())
}

// callbackKey returns the callback unique, parsing cb.Data when telebot did
// not populate it for the generic OnCallback endpoint.
func callbackKey(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cb.Unique
	}
	key, _ := splitData(cb.Data)
	return key
}

// callbackPayload returns everything after the unique.
func callbackPayload(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cb.Data
	}
	_, payload := splitData(cb.Data)
	return payload
}

func splitData(raw string) (string, string) {
	if len(raw) > 0 && raw[0] == '\f' {
		raw = raw[1:]
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			return raw[:i], raw[i+1:]
		}
	}
	return raw, ""
}
