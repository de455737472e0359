// Package telegram wires the bot transport: update polling, the command and
// callback registry, the middleware chain and the outbound dispatcher.
package telegram

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/panelbot/internal/logger"
)

// Command is a bot command with its handler and menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
}

// Registry holds the command table and the callback handlers keyed by their
// callback unique.
type Registry struct {
	commands map[string]Command

	callbacksMu      sync.RWMutex
	callbacks        map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc

	textFallback     tele.HandlerFunc
	documentFallback tele.HandlerFunc
}

// NewRegistry creates an empty registry with a default unknown-callback
// response.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// RegisterCommand adds a command; the name must carry the '/' prefix.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if r == nil || name == "" || name[0] != '/' || cmd.Handler == nil {
		logger.LogEvent(logger.Background(), logger.TWire, slog.LevelWarn, "register_command_skip",
			slog.String("name", name))
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.LogEvent(logger.Background(), logger.TWire, slog.LevelWarn, "register_command_duplicate",
			slog.String("name", name))
		return
	}
	r.commands[name] = cmd
}

// Commands returns the full command table.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// ListCommands returns the tele command menu, optionally hiding admin-only
// and hidden entries.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for name, cmd := range r.commands {
		if visibleOnly && (cmd.Hidden || cmd.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// RegisterCallback maps a callback unique to its handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		return fmt.Errorf("invalid callback registration for key %q", key)
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler for a callback unique.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted callback keys for diagnostics.
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	keys := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCallbackNotFound replaces the unknown-callback handler.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

// CallbackNotFound returns the unknown-callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// SetTextFallback sets the handler for plain text that matches no command.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// SetDocumentFallback sets the handler for incoming documents.
func (r *Registry) SetDocumentFallback(h tele.HandlerFunc) {
	r.documentFallback = h
}

// DocumentFallback returns the document handler.
func (r *Registry) DocumentFallback() tele.HandlerFunc {
	return r.documentFallback
}

// InitBotCommands publishes the visible command menu to Telegram.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	if err := bot.SetCommands(reg.ListCommands(true)); err != nil {
		logger.LogEvent(logger.Background(), logger.TWire, slog.LevelError, "set_commands_failed",
			slog.Any("err", err))
	}
}
