package middleware

import (
	tele "gopkg.in/telebot.v4"
)

// metricsContext wraps tele.Context to count outbound messages and note
// keyboard usage for the handler summary line.
type metricsContext struct{ tele.Context }

func (m metricsContext) bump(hasKB bool) {
	n := 0
	if v, ok := m.Get("messages").(int); ok {
		n = v
	}
	m.Set("messages", n+1)
	if hasKB {
		m.Set("kb", true)
	}
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m metricsContext) Edit(what interface{}, opts ...interface{}) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m metricsContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m metricsContext) EditOrReply(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrReply(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

// MessageMetricsMiddleware instruments the context so the summary log can
// report how many messages a handler produced.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("messages", 0)
		c.Set("kb", false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag back out.
func GetCounters(c tele.Context) (int, bool) {
	msgs := 0
	if v, ok := c.Get("messages").(int); ok {
		msgs = v
	}
	kb := false
	if v, ok := c.Get("kb").(bool); ok {
		kb = v
	}
	return msgs, kb
}
