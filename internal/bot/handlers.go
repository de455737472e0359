package bot

import (
	"fmt"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/nav"
	tghelpers "github.com/m3rciful/panelbot/internal/telegram/helpers"
)

// handleStart greets the user with the welcome screen. Every /start also
// records the interaction through the engine.
func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	view := a.engine.Resolve(ctx, actorFrom(c), nav.ScreenToken(nav.ScreenWelcome))
	return tghelpers.SendHTML(c, view.Text, viewMarkup(view))
}

func (a *App) handleHelp(c tele.Context) error {
	var b strings.Builder
	b.WriteString("<b>Commands</b>\n\n")
	for _, entry := range a.reg.ListCommands(true) {
		fmt.Fprintf(&b, "/%s - %s\n", entry.Text, entry.Description)
	}
	if user := c.Sender(); user != nil && a.engine.IsAdmin(user.ID) {
		b.WriteString("\n<b>Admin</b>\n\n")
		names := make([]string, 0)
		cmds := a.reg.Commands()
		for name, cmd := range cmds {
			if cmd.AdminOnly && !cmd.Hidden {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "%s - %s\n", name, cmds[name].Description)
		}
	}
	return tghelpers.SendHTML(c, b.String())
}

func (a *App) handleMyID(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	text := fmt.Sprintf("🆔 Your ID: <code>%d</code>", user.ID)
	if user.Username != "" {
		text += fmt.Sprintf("\nUsername: @%s", user.Username)
	}
	return tghelpers.SendHTML(c, text)
}

// handleUnknownText answers anything that is not a known command by pointing
// back at the menu.
func (a *App) handleUnknownText(c tele.Context) error {
	view := a.engine.Fallback()
	return tghelpers.SendHTML(c, view.Text, viewMarkup(view))
}
