package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", AdminIDs: []int64{1}},
		Panel: PanelConfig{
			Contact: "operator",
			Items: []PanelItem{
				{ID: "iphone", Label: "iPhone", Secret: "2704"},
			},
			Payments: []PaymentOption{
				{ID: "usdt", Label: "USDT", Details: "addr"},
			},
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, BackendFile, cfg.Roster.Backend)
	assert.Equal(t, "users_data.json", cfg.Roster.Path)
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"missing token", func(cfg *Config) { cfg.Telegram.Token = "" }},
		{"bad run mode", func(cfg *Config) { cfg.Telegram.RunMode = "carrier-pigeon" }},
		{"webhook without url", func(cfg *Config) { cfg.Telegram.RunMode = RunModeWebhook }},
		{"bad backend", func(cfg *Config) { cfg.Roster.Backend = "csv" }},
		{"postgres without host", func(cfg *Config) { cfg.Roster.Backend = BackendPostgres }},
		{"item without id", func(cfg *Config) { cfg.Panel.Items[0].ID = " " }},
		{"item id with separator", func(cfg *Config) { cfg.Panel.Items[0].ID = "ip|hone" }},
		{"item without secret", func(cfg *Config) { cfg.Panel.Items[0].Secret = "" }},
		{"secret with separator", func(cfg *Config) { cfg.Panel.Items[0].Secret = "12|34" }},
		{"secret too short", func(cfg *Config) { cfg.Panel.Items[0].Secret = "123" }},
		{"secret too long", func(cfg *Config) { cfg.Panel.Items[0].Secret = "12345" }},
		{"secret with letters", func(cfg *Config) { cfg.Panel.Items[0].Secret = "27a4" }},
		{"duplicate item id", func(cfg *Config) {
			cfg.Panel.Items = append(cfg.Panel.Items, PanelItem{ID: "iphone", Secret: "1111"})
		}},
		{"payment id with separator", func(cfg *Config) { cfg.Panel.Payments[0].ID = "us|dt" }},
		{"duplicate payment id", func(cfg *Config) {
			cfg.Panel.Payments = append(cfg.Panel.Payments, PaymentOption{ID: "usdt"})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, Normalize(cfg))
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
telegram:
  token: "123:abc"
  admin_ids: [42]
roster:
  backend: memory
panel:
  contact: operator
  items:
    - id: iphone
      label: iPhone
      secret: "2704"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, cfg.Telegram.AdminIDs)
	assert.Equal(t, BackendMemory, cfg.Roster.Backend)
	require.Len(t, cfg.Panel.Items, 1)
	assert.Equal(t, "2704", cfg.Panel.Items[0].Secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
