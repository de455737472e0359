package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := []Token{
		ScreenToken(ScreenMain),
		ScreenToken(ScreenPanel),
		ItemToken(ScreenUnlocked, "iphone"),
		ItemToken(ScreenPay, "usdt"),
		KeypadToken("iphone", "2704", "", "1"),
		KeypadToken("android", "2704", "27", PressBackspace),
		KeypadToken("android", "2704", "270", PressClear),
	}
	for _, tok := range tokens {
		unique, payload := tok.Encode()
		got, err := Decode(unique, payload)
		require.NoError(t, err)
		require.Equal(t, tok, got)
	}
}

func TestDecodeWireForm(t *testing.T) {
	tok, err := Decode("nav", "unlocked|iphone")
	require.NoError(t, err)
	require.Equal(t, KindScreen, tok.Kind)
	require.Equal(t, ScreenUnlocked, tok.Screen)
	require.Equal(t, "iphone", tok.Item)

	tok, err = Decode("kpd", "iphone|2704|27|back")
	require.NoError(t, err)
	require.Equal(t, KindKeypad, tok.Kind)
	require.Equal(t, "27", tok.Entered)
	require.Equal(t, PressBackspace, tok.Press)
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name    string
		unique  string
		payload string
	}{
		{"unknown unique", "xyz", "main"},
		{"empty screen", "nav", ""},
		{"keypad too few fields", "kpd", "iphone|2704|27"},
		{"keypad too many fields", "kpd", "iphone|2704|27|1|extra"},
		{"keypad bad press", "kpd", "iphone|2704|27|launch"},
		{"keypad non-digit entered", "kpd", "iphone|2704|2a|1"},
		{"keypad entered too long", "kpd", "iphone|2704|12345|1"},
		{"keypad empty item", "kpd", "|2704|27|1"},
		{"keypad empty secret", "kpd", "iphone||27|1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.unique, tc.payload)
			require.ErrorIs(t, err, ErrBadToken)
		})
	}
}

func TestDecodeUnknownScreenIsNotAnError(t *testing.T) {
	// Stale buttons from older builds decode fine; Resolve renders the
	// fallback view for them.
	tok, err := Decode("nav", "retired_screen")
	require.NoError(t, err)
	require.Equal(t, ScreenID("retired_screen"), tok.Screen)
}

func TestPressClassification(t *testing.T) {
	for d := byte('0'); d <= '9'; d++ {
		require.True(t, Press(string(d)).Digit())
	}
	require.False(t, PressBackspace.Digit())
	require.False(t, PressClear.Digit())
	require.True(t, PressBackspace.Valid())
	require.True(t, PressClear.Valid())
	require.False(t, Press("55").Valid())
	require.False(t, Press("x").Valid())
}
