package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/nav"
	tghelpers "github.com/m3rciful/panelbot/internal/telegram/helpers"
	"github.com/m3rciful/panelbot/internal/telegram/keyboard"
)

const deniedText = "❌ You don't have permission to use this command. Admin only."

// viewMarkup converts a resolved view's button rows into a telebot inline
// keyboard.
func viewMarkup(v nav.View) *tele.ReplyMarkup {
	if len(v.Rows) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, len(v.Rows))
	for i, row := range v.Rows {
		btns := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			if b.URL != "" {
				btns[j] = keyboard.InlineBtn{Text: b.Label, URL: b.URL}
				continue
			}
			unique, payload := b.Token.Encode()
			btns[j] = keyboard.InlineBtn{Text: b.Label, Unique: unique, Data: payload}
		}
		rows[i] = btns
	}
	return keyboard.InlineButtonsRows(rows...)
}

// renderView shows a view: alerts pop up first, then the message is edited
// in place (sent fresh when there is nothing to edit).
func renderView(c tele.Context, v nav.View) error {
	if v.Alert != "" {
		_ = c.Respond(&tele.CallbackResponse{Text: v.Alert, ShowAlert: true})
	} else if c.Callback() != nil {
		_ = c.Respond()
	}
	if markup := viewMarkup(v); markup != nil {
		return tghelpers.EditOrSendHTML(c, v.Text, markup)
	}
	return tghelpers.EditOrSendHTML(c, v.Text)
}

// actorFrom extracts the acting user from the update.
func actorFrom(c tele.Context) nav.Actor {
	user := c.Sender()
	if user == nil {
		return nav.Actor{}
	}
	return nav.Actor{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
