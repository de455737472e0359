package nav

import "strings"

// MaxDigits is the password length; entry completes when reached.
const MaxDigits = 4

const placeholder = "•"

// Outcome is the result of applying one keypad press.
type Outcome int

const (
	// OutcomePending means the buffer is still short of MaxDigits.
	OutcomePending Outcome = iota
	// OutcomeSuccess means the completed buffer matched the secret.
	OutcomeSuccess
	// OutcomeFailure means the completed buffer did not match; the buffer
	// resets and the flow restarts from empty input.
	OutcomeFailure
)

// Advance applies one press to the entered buffer. Backspace on an empty
// buffer and a digit on a full buffer are no-ops. The secret comparison runs
// only when the buffer reaches MaxDigits, so the result is a pure function
// of the inputs.
func Advance(secret, entered string, press Press) (string, Outcome) {
	switch {
	case press == PressBackspace:
		if entered != "" {
			entered = entered[:len(entered)-1]
		}
	case press == PressClear:
		entered = ""
	case press.Digit():
		if len(entered) < MaxDigits {
			entered += string(press)
		}
	}
	if len(entered) == MaxDigits {
		if entered == secret {
			return "", OutcomeSuccess
		}
		return "", OutcomeFailure
	}
	return entered, OutcomePending
}

// Mask renders the entered digits followed by placeholder characters up to
// MaxDigits, e.g. "27••".
func Mask(entered string) string {
	if len(entered) >= MaxDigits {
		return entered
	}
	return entered + strings.Repeat(placeholder, MaxDigits-len(entered))
}
