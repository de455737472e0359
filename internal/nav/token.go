// Package nav implements the navigation engine: inline-button tokens are
// decoded into screen transitions over a fixed screen set. There is no
// per-user session store; everything a multi-step flow needs (the password
// keypad) rides inside the token itself and round-trips through the buttons
// of the rendered screen.
package nav

import (
	"errors"
	"strings"
)

// Callback uniques understood by the engine. Telebot encodes inline button
// data as "\f<unique>|<payload>"; the unique selects the payload grammar so
// each token kind is parsed exactly once at the boundary.
const (
	UniqueScreen = "nav"
	UniqueKeypad = "kpd"
)

// Kind discriminates the token variants. The set is closed: decode produces
// one of these or an error, and the engine switches on it exhaustively.
type Kind int

const (
	// KindScreen targets a named screen, optionally scoped to a panel item
	// or payment option.
	KindScreen Kind = iota
	// KindKeypad carries the full password-entry flow state plus the press
	// that triggered this callback.
	KindKeypad
)

// Press is a single keypad action: one digit, backspace or clear.
type Press string

const (
	PressBackspace Press = "back"
	PressClear     Press = "clear"
)

// Digit reports whether the press is a single digit key.
func (p Press) Digit() bool {
	return len(p) == 1 && p[0] >= '0' && p[0] <= '9'
}

// Valid reports whether the press is one of the known keypad actions.
func (p Press) Valid() bool {
	return p.Digit() || p == PressBackspace || p == PressClear
}

// Token is the state attached to one inline button. A token fully determines
// the next screen, so replaying it yields the same screen deterministically.
type Token struct {
	Kind Kind

	// Screen is set for KindScreen.
	Screen ScreenID

	// Item scopes a screen to a panel item or payment option, and names the
	// keypad flow's target for KindKeypad.
	Item string

	// Secret and Entered are the keypad flow state carried between presses.
	Secret  string
	Entered string
	Press   Press
}

// ScreenToken builds a stateless token targeting the given screen.
func ScreenToken(id ScreenID) Token {
	return Token{Kind: KindScreen, Screen: id}
}

// ItemToken builds a stateless token targeting an item-scoped screen.
func ItemToken(id ScreenID, item string) Token {
	return Token{Kind: KindScreen, Screen: id, Item: item}
}

// KeypadToken builds a keypad token resuming the flow for item with the
// digits entered so far plus the press this button performs.
func KeypadToken(item, secret, entered string, press Press) Token {
	return Token{Kind: KindKeypad, Item: item, Secret: secret, Entered: entered, Press: press}
}

// Encode renders the token as a callback unique plus payload. Item and
// payment ids are validated at config load to be free of the '|' separator.
func (t Token) Encode() (unique, payload string) {
	if t.Kind == KindKeypad {
		return UniqueKeypad, strings.Join([]string{t.Item, t.Secret, t.Entered, string(t.Press)}, "|")
	}
	if t.Item != "" {
		return UniqueScreen, string(t.Screen) + "|" + t.Item
	}
	return UniqueScreen, string(t.Screen)
}

// ErrBadToken marks a callback payload that does not parse as any known
// token kind. The caller renders the fallback screen instead of failing the
// interaction.
var ErrBadToken = errors.New("malformed navigation token")

// Decode parses a callback unique and payload back into a Token.
func Decode(unique, payload string) (Token, error) {
	switch unique {
	case UniqueScreen:
		id, item, _ := strings.Cut(payload, "|")
		if id == "" {
			return Token{}, ErrBadToken
		}
		return Token{Kind: KindScreen, Screen: ScreenID(id), Item: item}, nil
	case UniqueKeypad:
		parts := strings.Split(payload, "|")
		if len(parts) != 4 {
			return Token{}, ErrBadToken
		}
		t := Token{
			Kind:    KindKeypad,
			Item:    parts[0],
			Secret:  parts[1],
			Entered: parts[2],
			Press:   Press(parts[3]),
		}
		if t.Item == "" || t.Secret == "" || !t.Press.Valid() || !digitsOnly(t.Entered) || len(t.Entered) > MaxDigits {
			return Token{}, ErrBadToken
		}
		return t, nil
	default:
		return Token{}, ErrBadToken
	}
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
