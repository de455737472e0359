package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/panelbot/internal/nav"
	"github.com/m3rciful/panelbot/internal/roster"
)

func TestViewMarkupConvertsTokenAndURLButtons(t *testing.T) {
	view := nav.View{
		Text: "hello",
		Rows: [][]nav.Button{
			{
				{Label: "📋 Menu", Token: nav.ScreenToken(nav.ScreenMain)},
				{Label: "💬 Contact", URL: "https://t.me/operator"},
			},
			{
				{Label: "1", Token: nav.KeypadToken("iphone", "2704", "", nav.Press("1"))},
			},
		},
	}

	markup := viewMarkup(view)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 2)

	menu := markup.InlineKeyboard[0][0]
	assert.Equal(t, "📋 Menu", menu.Text)
	assert.Equal(t, nav.UniqueScreen, menu.Unique)
	assert.Equal(t, string(nav.ScreenMain), menu.Data)

	contact := markup.InlineKeyboard[0][1]
	assert.Equal(t, "https://t.me/operator", contact.URL)
	assert.Empty(t, contact.Unique)

	digit := markup.InlineKeyboard[1][0]
	assert.Equal(t, nav.UniqueKeypad, digit.Unique)
	assert.Equal(t, "iphone|2704||1", digit.Data)
}

func TestViewMarkupEmptyRows(t *testing.T) {
	assert.Nil(t, viewMarkup(nav.View{Text: "no buttons"}))
}

func TestSplitData(t *testing.T) {
	cases := []struct {
		raw     string
		key     string
		payload string
	}{
		{"\fnav|main", "nav", "main"},
		{"nav|panel", "nav", "panel"},
		{"\fkpd|iphone|2704|27|0", "kpd", "iphone|2704|27|0"},
		{"plain", "plain", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := splitData(tc.raw)
		assert.Equal(t, tc.key, key, "raw %q", tc.raw)
		assert.Equal(t, tc.payload, payload, "raw %q", tc.raw)
	}
}

func TestImportSummary(t *testing.T) {
	text := importSummary(roster.ImportReport{Added: 3, Skipped: 2, Total: 5})
	assert.Contains(t, text, "Added: 3")
	assert.Contains(t, text, "Skipped: 2")
	assert.Contains(t, text, "Total: 5")
}
