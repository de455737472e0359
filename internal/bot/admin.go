package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/broadcast"
	"github.com/m3rciful/panelbot/internal/roster"
	tghelpers "github.com/m3rciful/panelbot/internal/telegram/helpers"
	"github.com/m3rciful/panelbot/internal/telegram/keyboard"
)

// filterUnique is the callback unique for the subscriber list filter buttons.
const filterUnique = "flt"

// filterAll lists every record regardless of status.
const filterAll = "all"

// maxListed caps how many records one subscriber message shows.
const maxListed = 20

// handleSubscribers shows the roster summary with per-status filter buttons.
func (a *App) handleSubscribers(c tele.Context) error {
	return a.sendSubscriberList(c, filterAll, false)
}

// handleFilterCallback re-renders the subscriber list for the tapped filter.
func (a *App) handleFilterCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	if user := c.Sender(); user == nil || !a.engine.IsAdmin(user.ID) {
		return c.Respond(&tele.CallbackResponse{Text: "Admin only.", ShowAlert: true})
	}
	_ = c.Respond()
	return a.sendSubscriberList(c, callbackPayload(cb), true)
}

func (a *App) sendSubscriberList(c tele.Context, filter string, edit bool) error {
	ctx := tghelpers.BuildContext(c)

	counts, err := a.store.Counts(ctx)
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Failed to load subscribers.")
	}

	var records []roster.UserRecord
	if filter == filterAll {
		records, err = a.store.All(ctx)
	} else {
		records, err = a.store.ByStatus(ctx, roster.Status(filter))
	}
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Failed to load subscribers.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>Subscribers</b> (%d)\n", counts.Total)
	for _, s := range roster.Statuses {
		fmt.Fprintf(&b, "%s %s: %d\n", roster.StatusEmoji(s), s, counts.ByStatus[s])
	}

	if filter != filterAll {
		fmt.Fprintf(&b, "\nFilter: <b>%s</b>\n", filter)
	}
	b.WriteString("\n")
	for i, rec := range records {
		if i == maxListed {
			fmt.Fprintf(&b, "… and %d more\n", len(records)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%s <code>%d</code> %s\n",
			roster.StatusEmoji(rec.Status), rec.ID, roster.DisplayName(rec))
	}
	if len(records) == 0 {
		b.WriteString("No subscribers here yet.\n")
	}

	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "👥 All", Unique: filterUnique, Data: filterAll},
			{Text: "🟢 Active", Unique: filterUnique, Data: string(roster.StatusActive)},
		},
		[]keyboard.InlineBtn{
			{Text: "🔇 Muted", Unique: filterUnique, Data: string(roster.StatusMuted)},
			{Text: "🗑️ Deleted", Unique: filterUnique, Data: string(roster.StatusDeleted)},
			{Text: "🚫 Blocked", Unique: filterUnique, Data: string(roster.StatusBlocked)},
		},
	)

	if edit {
		return tghelpers.EditOrSendHTML(c, b.String(), markup)
	}
	return tghelpers.SendHTML(c, b.String(), markup)
}

// statusCommand builds the handler for one status-setting command. The verb
// is the past-tense confirmation shown to the admin.
func (a *App) statusCommand(status roster.Status, verb string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ids, ok := roster.ParseIDArgs(c.Args())
		if !ok || len(ids) == 0 {
			return tghelpers.SendHTML(c,
				fmt.Sprintf("Usage: <code>%s &lt;user_id&gt; [user_id ...]</code>", commandName(c)))
		}

		ctx := tghelpers.BuildContext(c)
		var lines []string
		for _, id := range ids {
			switch err := a.store.SetStatus(ctx, id, status); {
			case err == nil:
				lines = append(lines, fmt.Sprintf("✅ User <code>%d</code> %s.", id, verb))
			case errors.Is(err, roster.ErrNotFound):
				lines = append(lines, fmt.Sprintf("❌ User <code>%d</code> not found.", id))
			default:
				lines = append(lines, fmt.Sprintf("⚠️ User <code>%d</code>: update failed.", id))
			}
		}
		return tghelpers.SendHTML(c, strings.Join(lines, "\n"))
	}
}

func (a *App) handleAddUser(c tele.Context) error {
	ids, ok := roster.ParseIDArgs(c.Args())
	if !ok || len(ids) != 1 {
		return tghelpers.SendHTML(c, "Usage: <code>/add_user &lt;user_id&gt;</code>")
	}

	ctx := tghelpers.BuildContext(c)
	added, err := a.store.Add(ctx, ids[0], "", "", "")
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Failed to add user.")
	}
	if !added {
		return tghelpers.SendHTML(c, fmt.Sprintf("ℹ️ User <code>%d</code> is already on the list.", ids[0]))
	}
	return tghelpers.SendHTML(c, fmt.Sprintf("✅ User <code>%d</code> added.", ids[0]))
}

func (a *App) handleImportUsers(c tele.Context) error {
	raw := strings.Join(c.Args(), "\n")
	ids := roster.ParseIDList(strings.NewReader(strings.ReplaceAll(raw, ",", "\n")))
	if len(ids) == 0 {
		return tghelpers.SendHTML(c,
			"Usage: <code>/import_users &lt;id&gt;[,&lt;id&gt;...]</code>\n"+
				"Or send a <code>.txt</code>/<code>.csv</code> file, one id per line.")
	}

	ctx := tghelpers.BuildContext(c)
	rep, err := a.store.ImportIDs(ctx, ids)
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Import failed.")
	}
	return tghelpers.SendHTML(c, importSummary(rep))
}

func (a *App) handleImportUsersFile(c tele.Context) error {
	return tghelpers.SendHTML(c,
		"📎 Send a <code>.txt</code> or <code>.csv</code> file with one user id per line.\n"+
			"Lines with extra columns are fine, the first field is used.")
}

// handleDocument imports ids from an uploaded file. Documents from
// non-admins are ignored.
func (a *App) handleDocument(c tele.Context) error {
	user := c.Sender()
	if user == nil || !a.engine.IsAdmin(user.ID) {
		return nil
	}
	doc := c.Message().Document
	if doc == nil {
		return nil
	}

	switch ext := strings.ToLower(filepath.Ext(doc.FileName)); ext {
	case ".txt", ".csv":
	default:
		return tghelpers.SendHTML(c, "❌ Unsupported file type. Send a <code>.txt</code> or <code>.csv</code> file.")
	}

	rc, err := c.Bot().File(&doc.File)
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Failed to download the file.")
	}
	defer rc.Close()

	ids := roster.ParseIDList(rc)
	if len(ids) == 0 {
		return tghelpers.SendHTML(c, "❌ No user ids found in the file.")
	}

	ctx := tghelpers.BuildContext(c)
	rep, err := a.store.ImportIDs(ctx, ids)
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Import failed.")
	}
	return tghelpers.SendHTML(c, importSummary(rep))
}

func importSummary(rep roster.ImportReport) string {
	return fmt.Sprintf("📥 <b>Import complete</b>\n\nAdded: %d\nSkipped: %d\nTotal: %d",
		rep.Added, rep.Skipped, rep.Total)
}

// handleBroadcast sends a message to subscribers. Replying to a message
// forwards it; otherwise the command text after the audience keyword is sent
// as-is.
func (a *App) handleBroadcast(c tele.Context) error {
	msg := c.Message()
	ctx := tghelpers.BuildContext(c)

	// Reply mode: forward the replied-to message (any media) to the
	// active audience.
	if msg != nil && msg.ReplyTo != nil {
		origin := msg.ReplyTo
		return a.runBroadcast(c, ctx, string(roster.StatusActive), func(ctx context.Context, id int64) error {
			_, err := c.Bot().Forward(&tele.User{ID: id}, origin)
			return err
		})
	}

	args := c.Args()
	if len(args) < 2 {
		return tghelpers.SendHTML(c,
			"Usage: <code>/sendtothem all|active &lt;text&gt;</code>\n"+
				"Or reply to any message with <code>/sendtothem</code> to forward it.")
	}

	audience := strings.ToLower(args[0])
	if audience != filterAll && audience != string(roster.StatusActive) {
		return tghelpers.SendHTML(c, "❌ Audience must be <code>all</code> or <code>active</code>.")
	}

	text := strings.Join(args[1:], " ")
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	return a.runBroadcast(c, ctx, audience, func(ctx context.Context, id int64) error {
		_, err := c.Bot().Send(&tele.User{ID: id}, text, opts)
		return err
	})
}

func (a *App) runBroadcast(c tele.Context, ctx context.Context, audience string, send broadcast.Send) error {
	var (
		records []roster.UserRecord
		err     error
	)
	if audience == filterAll {
		records, err = a.store.All(ctx)
	} else {
		records, err = a.store.ByStatus(ctx, roster.Status(audience))
	}
	if err != nil {
		return tghelpers.SendHTML(c, "⚠️ Failed to load subscribers.")
	}
	if len(records) == 0 {
		return tghelpers.SendHTML(c, "ℹ️ No subscribers to send to.")
	}

	recipients := make([]int64, 0, len(records))
	for _, rec := range records {
		recipients = append(recipients, rec.ID)
	}

	status, sendErr := c.Bot().Send(c.Recipient(),
		fmt.Sprintf("📤 Broadcasting to %d subscribers...", len(recipients)))

	rep := broadcast.Run(a.runCtx, recipients, send)

	result := fmt.Sprintf("✅ <b>Broadcast Complete!</b>\n\nDelivered: %d\nFailed: %d\nTotal: %d",
		rep.Success, rep.Failed, rep.Total)
	if sendErr == nil && status != nil {
		_, err = c.Bot().Edit(status, result, &tele.SendOptions{ParseMode: tele.ModeHTML})
		return err
	}
	return tghelpers.SendHTML(c, result)
}

// commandName extracts the slash command from the inbound text.
func commandName(c tele.Context) string {
	if msg := c.Message(); msg != nil {
		if fields := strings.Fields(msg.Text); len(fields) > 0 {
			return strings.SplitN(fields[0], "@", 2)[0]
		}
	}
	return "/command"
}
