// Package bot composes the roster store, the navigation engine and the
// Telegram transport into the running application.
package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/config"
	"github.com/m3rciful/panelbot/internal/nav"
	"github.com/m3rciful/panelbot/internal/roster"
	tg "github.com/m3rciful/panelbot/internal/telegram"
	tghelpers "github.com/m3rciful/panelbot/internal/telegram/helpers"
	"github.com/m3rciful/panelbot/internal/telegram/router"
)

// App holds the composed application.
type App struct {
	cfg    *config.Config
	store  roster.Store
	engine *nav.Engine
	reg    *tg.Registry

	// runCtx is the process lifetime context; in-flight animations stop
	// with it.
	runCtx context.Context
}

// New wires the engine and registry over the given store.
func New(cfg *config.Config, store roster.Store) *App {
	items := make([]nav.Item, 0, len(cfg.Panel.Items))
	for _, it := range cfg.Panel.Items {
		items = append(items, nav.Item{ID: it.ID, Label: it.Label, Secret: it.Secret})
	}
	payments := make([]nav.Payment, 0, len(cfg.Panel.Payments))
	for _, p := range cfg.Panel.Payments {
		payments = append(payments, nav.Payment{ID: p.ID, Label: p.Label, Details: p.Details})
	}

	app := &App{
		cfg:   cfg,
		store: store,
		engine: nav.NewEngine(store, nav.Options{
			Items:    items,
			Payments: payments,
			Contact:  cfg.Panel.Contact,
			AdminIDs: cfg.Telegram.AdminIDs,
		}),
		reg:    tg.NewRegistry(),
		runCtx: context.Background(),
	}
	app.registerCommands()
	app.registerCallbacks()
	return app
}

// Run starts the bot and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx

	routes := []tg.Route{router.CallbackRoute(a.reg)}
	routes = append(routes, router.TextRoutes(a.reg)...)
	routes = append(routes, router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminIDs:      a.cfg.Telegram.AdminIDs,
		OnAdminReject: a.denyAccess,
	})...)

	return tg.Run(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	})
}

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", tg.Command{Handler: a.handleStart, Description: "Open the menu"})
	a.reg.RegisterCommand("/help", tg.Command{Handler: a.handleHelp, Description: "Show help"})
	a.reg.RegisterCommand("/myid", tg.Command{Handler: a.handleMyID, Description: "Show your Telegram ID"})

	a.reg.RegisterCommand("/subscribers", tg.Command{Handler: a.handleSubscribers, Description: "List subscribers", AdminOnly: true})
	a.reg.RegisterCommand("/mute", tg.Command{Handler: a.statusCommand(roster.StatusMuted, "muted"), Description: "Mute a user", AdminOnly: true})
	a.reg.RegisterCommand("/unmute", tg.Command{Handler: a.statusCommand(roster.StatusActive, "unmuted"), Description: "Unmute a user", AdminOnly: true})
	a.reg.RegisterCommand("/delete_user", tg.Command{Handler: a.statusCommand(roster.StatusDeleted, "marked as deleted"), Description: "Mark a user deleted", AdminOnly: true})
	a.reg.RegisterCommand("/block", tg.Command{Handler: a.statusCommand(roster.StatusBlocked, "blocked"), Description: "Block a user", AdminOnly: true})
	a.reg.RegisterCommand("/add_user", tg.Command{Handler: a.handleAddUser, Description: "Add a user by id", AdminOnly: true})
	a.reg.RegisterCommand("/import_users", tg.Command{Handler: a.handleImportUsers, Description: "Bulk import user ids", AdminOnly: true})
	a.reg.RegisterCommand("/import_users_file", tg.Command{Handler: a.handleImportUsersFile, Description: "Import ids from a file", AdminOnly: true})
	a.reg.RegisterCommand("/sendtothem", tg.Command{Handler: a.handleBroadcast, Description: "Broadcast to subscribers", AdminOnly: true})

	a.reg.SetTextFallback(a.handleUnknownText)
	a.reg.SetDocumentFallback(a.handleDocument)
}

func (a *App) registerCallbacks() {
	_ = a.reg.RegisterCallback(nav.UniqueScreen, a.handleNavCallback)
	_ = a.reg.RegisterCallback(nav.UniqueKeypad, a.handleNavCallback)
	_ = a.reg.RegisterCallback(filterUnique, a.handleFilterCallback)
	a.reg.SetCallbackNotFound(a.handleStaleCallback)
}

func (a *App) denyAccess(c tele.Context) error {
	return tghelpers.SendHTML(c, deniedText)
}
