package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/panelbot/internal/telegram"
	"github.com/m3rciful/panelbot/internal/telegram/middleware"
)

// TextRoutes builds the handlers for free text and document uploads. Text
// that matches no command goes to the registry's text fallback; documents go
// to the document fallback (the admin import path).
func TextRoutes(reg *tg.Registry) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text_fallback", start, func() error {
					return fb(c)
				})
			}
		}
		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	docHandler := func(c tele.Context) error {
		start := time.Now()
		if reg != nil {
			if fb := reg.DocumentFallback(); fb != nil {
				return handleWithSummary(c, "document", start, func() error {
					return fb(c)
				})
			}
		}
		logHandlerSummary(c, "unexpected_document", start, nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(docHandler)),
		},
	}
}
