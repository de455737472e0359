package nav

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/m3rciful/panelbot/internal/logger"
	"github.com/m3rciful/panelbot/internal/roster"
)

// Item is one password-gated panel entry.
type Item struct {
	ID     string
	Label  string
	Secret string
}

// Payment is one purchase menu entry.
type Payment struct {
	ID      string
	Label   string
	Details string
}

// Actor identifies the user behind an inbound interaction.
type Actor struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Button is one rendered inline button: a label plus either a token or an
// external URL.
type Button struct {
	Label string
	Token Token
	URL   string
}

// View is the rendered next screen.
type View struct {
	Text string
	Rows [][]Button
	// Alert is a popup acknowledgement shown before rendering, if any.
	Alert string
}

// Options configures the engine with the screen content that is
// configuration rather than behavior.
type Options struct {
	Items    []Item
	Payments []Payment
	// Contact is the support handle shown on the contact and wrong-password
	// screens, without the leading '@'.
	Contact string
	// AdminIDs is the allow-list for admin screens; empty denies everyone.
	AdminIDs []int64
}

// Engine resolves tokens into views. It holds no per-user state; the roster
// store is consulted only to register activity and for admin screens.
type Engine struct {
	store    roster.Store
	items    []Item
	itemIdx  map[string]Item
	payments []Payment
	payIdx   map[string]Payment
	contact  string
	admins   map[int64]struct{}
}

// NewEngine builds the engine over the given store and screen content.
func NewEngine(store roster.Store, opts Options) *Engine {
	e := &Engine{
		store:    store,
		items:    opts.Items,
		itemIdx:  make(map[string]Item, len(opts.Items)),
		payments: opts.Payments,
		payIdx:   make(map[string]Payment, len(opts.Payments)),
		contact:  opts.Contact,
		admins:   make(map[int64]struct{}, len(opts.AdminIDs)),
	}
	for _, it := range opts.Items {
		e.itemIdx[it.ID] = it
	}
	for _, p := range opts.Payments {
		e.payIdx[p.ID] = p
	}
	for _, id := range opts.AdminIDs {
		e.admins[id] = struct{}{}
	}
	return e
}

// Item looks up a configured panel item by id.
func (e *Engine) Item(id string) (Item, bool) {
	it, ok := e.itemIdx[id]
	return it, ok
}

// IsAdmin reports whether the id is on the allow-list.
func (e *Engine) IsAdmin(id int64) bool {
	_, ok := e.admins[id]
	return ok
}

// Resolve decodes one interaction into the next view. Every resolve
// registers the actor on the roster; a persistence failure there is logged
// and does not block navigation. Unknown screens and unknown items render
// the fallback view.
func (e *Engine) Resolve(ctx context.Context, actor Actor, t Token) View {
	if err := e.store.RecordInteraction(ctx, actor.ID, actor.Username, actor.FirstName, actor.LastName); err != nil {
		logger.LogEvent(ctx, logger.Nav, slog.LevelWarn, "record_interaction_failed",
			slog.Int64("user_id", actor.ID), slog.Any("err", err))
	}
	if t.Kind == KindKeypad {
		return e.resolveKeypad(t)
	}
	return e.resolveScreen(ctx, actor, t)
}

// Fallback is the view for malformed or stale tokens.
func (e *Engine) Fallback() View {
	return View{Text: textFallback, Rows: [][]Button{
		{{Label: "📋 Menu", Token: ScreenToken(ScreenMain)}},
	}}
}

// Denied is the fixed rejection for non-admin actors on admin screens.
func (e *Engine) Denied() View {
	return View{Text: textDenied}
}

func (e *Engine) resolveScreen(ctx context.Context, actor Actor, t Token) View {
	switch t.Screen {
	case ScreenWelcome:
		return e.welcomeView(actor)
	case ScreenMain:
		return e.mainView(actor)
	case ScreenPanel:
		return e.panelView()
	case ScreenItem, ScreenKeypad:
		it, ok := e.itemIdx[t.Item]
		if !ok {
			return e.Fallback()
		}
		return e.keypadView(it, "")
	case ScreenUnlocked:
		it, ok := e.itemIdx[t.Item]
		if !ok {
			return e.Fallback()
		}
		return e.unlockedView(it, "")
	case ScreenOpen, ScreenGuide, ScreenDownload:
		it, ok := e.itemIdx[t.Item]
		if !ok {
			return e.Fallback()
		}
		return e.itemSubView(t.Screen, it)
	case ScreenBuy:
		return e.buyView()
	case ScreenPay:
		p, ok := e.payIdx[t.Item]
		if !ok {
			return e.Fallback()
		}
		return e.payView(p)
	case ScreenContact:
		return e.contactView()
	case ScreenRoster:
		if !e.IsAdmin(actor.ID) {
			return e.Denied()
		}
		return e.rosterView(ctx)
	default:
		return e.Fallback()
	}
}

func (e *Engine) resolveKeypad(t Token) View {
	it, ok := e.itemIdx[t.Item]
	if !ok {
		return e.Fallback()
	}
	entered, outcome := Advance(t.Secret, t.Entered, t.Press)
	switch outcome {
	case OutcomeSuccess:
		return e.unlockedView(it, alertCorrect)
	case OutcomeFailure:
		v := View{
			Text:  fmt.Sprintf(textWrong, e.contact),
			Alert: alertWrong,
			Rows: [][]Button{
				{{Label: "🔁 Try again", Token: ItemToken(ScreenKeypad, it.ID)}},
				{{Label: backLabel, Token: ScreenToken(ScreenPanel)}},
			},
		}
		return v
	default:
		v := e.keypadView(it, entered)
		return v
	}
}

func (e *Engine) welcomeView(actor Actor) View {
	name := actor.FirstName
	if name == "" {
		name = "there"
	}
	return View{
		Text: fmt.Sprintf(textWelcome, name),
		Rows: [][]Button{
			{{Label: "📋 Open Menu", Token: ScreenToken(ScreenMain)}},
		},
	}
}

// mainView shows the subscriber list entry only to allow-listed actors; the
// screen itself re-checks the actor on resolve.
func (e *Engine) mainView(actor Actor) View {
	rows := [][]Button{
		{
			{Label: "📱 Panel", Token: ScreenToken(ScreenPanel)},
			{Label: "💰 Buy", Token: ScreenToken(ScreenBuy)},
		},
		{{Label: "📞 Contact", Token: ScreenToken(ScreenContact)}},
	}
	if e.IsAdmin(actor.ID) {
		rows = append(rows, []Button{{Label: "👥 Subscribers", Token: ScreenToken(ScreenRoster)}})
	}
	return View{Text: textMain, Rows: rows}
}

func (e *Engine) panelView() View {
	rows := make([][]Button, 0, len(e.items)/2+2)
	var row []Button
	for _, it := range e.items {
		row = append(row, Button{Label: it.Label, Token: ItemToken(ScreenItem, it.ID)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{{Label: backLabel, Token: ScreenToken(ScreenMain)}})
	return View{Text: textPanel, Rows: rows}
}

// keypadView renders the digit grid. Every button re-encodes the full flow
// state so the next press is self-contained.
func (e *Engine) keypadView(it Item, entered string) View {
	key := func(p Press, label string) Button {
		return Button{Label: label, Token: KeypadToken(it.ID, it.Secret, entered, p)}
	}
	rows := [][]Button{
		{key("1", "1"), key("2", "2"), key("3", "3")},
		{key("4", "4"), key("5", "5"), key("6", "6")},
		{key("7", "7"), key("8", "8"), key("9", "9")},
		{key("0", "0"), key(PressBackspace, "⌫"), key(PressClear, "🗑️")},
		{{Label: backLabel, Token: ScreenToken(ScreenPanel)}},
	}
	return View{Text: fmt.Sprintf(textKeypad, it.Label, Mask(entered)), Rows: rows}
}

func (e *Engine) unlockedView(it Item, alert string) View {
	return View{
		Text:  fmt.Sprintf(textUnlock, it.Label),
		Alert: alert,
		Rows: [][]Button{
			{
				{Label: "🎮 Open", Token: ItemToken(ScreenOpen, it.ID)},
				{Label: "📋 Instructions", Token: ItemToken(ScreenGuide, it.ID)},
			},
			{{Label: "⬇️ Download", Token: ItemToken(ScreenDownload, it.ID)}},
			{{Label: backLabel, Token: ScreenToken(ScreenPanel)}},
		},
	}
}

func (e *Engine) itemSubView(id ScreenID, it Item) View {
	var text string
	switch id {
	case ScreenOpen:
		text = fmt.Sprintf(textOpen, it.Label)
	case ScreenGuide:
		text = fmt.Sprintf(textGuide, it.Label)
	default:
		text = fmt.Sprintf(textDL, it.Label)
	}
	return View{Text: text, Rows: [][]Button{
		{{Label: backLabel, Token: ItemToken(ScreenUnlocked, it.ID)}},
	}}
}

func (e *Engine) buyView() View {
	rows := make([][]Button, 0, len(e.payments)/2+2)
	var row []Button
	for _, p := range e.payments {
		row = append(row, Button{Label: p.Label, Token: ItemToken(ScreenPay, p.ID)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{{Label: backLabel, Token: ScreenToken(ScreenMain)}})
	return View{Text: textBuy, Rows: rows}
}

func (e *Engine) payView(p Payment) View {
	return View{Text: p.Details, Rows: [][]Button{
		{{Label: backLabel, Token: ScreenToken(ScreenBuy)}},
	}}
}

func (e *Engine) contactView() View {
	return View{
		Text: fmt.Sprintf(textContact, e.contact),
		Rows: [][]Button{
			{{Label: "💬 Open chat", URL: "https://t.me/" + e.contact}},
			{{Label: backLabel, Token: ScreenToken(ScreenMain)}},
		},
	}
}

// rosterView lists subscribers newest-first with status emoji. Listing is
// capped; the /subscribers command prints the full roster.
func (e *Engine) rosterView(ctx context.Context) View {
	const maxListed = 30

	recs, err := e.store.All(ctx)
	if err != nil {
		logger.LogEvent(ctx, logger.Nav, slog.LevelError, "roster_list_failed", slog.Any("err", err))
		return View{Text: "⚠️ Failed to load subscribers."}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].LastSeen.After(recs[j].LastSeen)
	})

	text := fmt.Sprintf("👥 <b>Subscribers: %d</b>\n\n", len(recs))
	for i, rec := range recs {
		if i == maxListed {
			text += fmt.Sprintf("… and %d more\n", len(recs)-maxListed)
			break
		}
		text += fmt.Sprintf("%s <code>%d</code> %s\n", roster.StatusEmoji(rec.Status), rec.ID, roster.DisplayName(rec))
	}
	return View{Text: text, Rows: [][]Button{
		{{Label: backLabel, Token: ScreenToken(ScreenMain)}},
	}}
}
