package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func press(t *testing.T, secret, entered string, presses ...Press) (string, Outcome) {
	t.Helper()
	outcome := OutcomePending
	for _, p := range presses {
		entered, outcome = Advance(secret, entered, p)
	}
	return entered, outcome
}

func TestAdvanceCorrectSecret(t *testing.T) {
	entered, outcome := press(t, "2704", "", "2", "7", "0", "4")
	require.Equal(t, OutcomeSuccess, outcome)
	require.Empty(t, entered)
}

func TestAdvanceWrongSecretResets(t *testing.T) {
	entered, outcome := press(t, "2704", "", "2", "7", "0", "5")
	require.Equal(t, OutcomeFailure, outcome)
	require.Empty(t, entered)
}

func TestAdvanceClearRestartsBuffer(t *testing.T) {
	entered, outcome := press(t, "2704", "", "2", "7", PressClear, "9")
	require.Equal(t, OutcomePending, outcome)
	require.Equal(t, "9", entered)
	require.Equal(t, "9•••", Mask(entered))
}

func TestAdvanceBackspace(t *testing.T) {
	entered, outcome := Advance("2704", "27", PressBackspace)
	require.Equal(t, OutcomePending, outcome)
	require.Equal(t, "2", entered)

	// no-op on empty
	entered, outcome = Advance("2704", "", PressBackspace)
	require.Equal(t, OutcomePending, outcome)
	require.Empty(t, entered)
}

func TestAdvanceIgnoresDigitOnFullBuffer(t *testing.T) {
	entered, outcome := Advance("2704", "2704", "9")
	require.Equal(t, OutcomeSuccess, outcome)
	require.Empty(t, entered)
}

func TestAdvanceIsDeterministic(t *testing.T) {
	a1, o1 := Advance("2704", "270", "4")
	a2, o2 := Advance("2704", "270", "4")
	require.Equal(t, a1, a2)
	require.Equal(t, o1, o2)
}

func TestMask(t *testing.T) {
	require.Equal(t, "••••", Mask(""))
	require.Equal(t, "27••", Mask("27"))
	require.Equal(t, "2704", Mask("2704"))
}
