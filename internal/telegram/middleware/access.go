package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions configures the allow-list check for privileged handlers.
type AdminOptions struct {
	// AdminIDs is the static allow-list; an empty list denies everyone.
	AdminIDs []int64
	OnReject tele.HandlerFunc
}

func (o AdminOptions) allowed(id int64) bool {
	for _, admin := range o.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

// AdminOnlyMiddleware rejects senders outside the allow-list before the
// downstream handler runs. The rejection response never reveals who the
// admins are.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || !opts.allowed(sender.ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
