// Package config loads application settings from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/panelbot/internal/nav"
)

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// BackendFile stores the roster as a single JSON document on disk.
	BackendFile = "file"
	// BackendPostgres stores the roster in Postgres.
	BackendPostgres = "postgres"
	// BackendMemory keeps the roster in memory; for development only.
	BackendMemory = "memory"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// AdminIDs is the static allow-list for privileged commands.
	// Empty list means no admin operations are permitted for anyone.
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"TELEGRAM_ADMIN_IDS"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// DatabaseConfig holds Postgres connection settings for the roster backend.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// RosterConfig selects and configures the roster store backend.
type RosterConfig struct {
	Backend  string         `yaml:"backend" envconfig:"ROSTER_BACKEND"`
	Path     string         `yaml:"path" envconfig:"ROSTER_PATH"`
	Database DatabaseConfig `yaml:"database"`
}

// PanelItem describes one password-gated panel entry.
type PanelItem struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Secret string `yaml:"secret"`
}

// PaymentOption describes one entry of the purchase menu.
type PaymentOption struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Details string `yaml:"details"`
}

// PanelConfig holds the screen content that is configuration, not behavior.
type PanelConfig struct {
	Contact  string          `yaml:"contact"`
	Items    []PanelItem     `yaml:"items"`
	Payments []PaymentOption `yaml:"payments"`
}

// RateLimitConfig holds settings for rate limiting.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates all application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	Roster    RosterConfig    `yaml:"roster"`
	Panel     PanelConfig     `yaml:"panel"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func secretValid(s string) bool {
	if len(s) != nav.MaxDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Roster.Backend))
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		if strings.TrimSpace(cfg.Roster.Path) == "" {
			cfg.Roster.Path = "users_data.json"
		}
	case BackendPostgres:
		db := cfg.Roster.Database
		if strings.TrimSpace(db.Host) == "" || strings.TrimSpace(db.Name) == "" {
			return fmt.Errorf("roster.database host and name are required when roster.backend is 'postgres'")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid roster.backend %q; allowed: file, postgres, memory", cfg.Roster.Backend)
	}
	cfg.Roster.Backend = backend

	seen := make(map[string]struct{}, len(cfg.Panel.Items))
	for i, item := range cfg.Panel.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("panel.items[%d].id is required", i)
		}
		if strings.Contains(id, "|") {
			return fmt.Errorf("panel.items[%d].id must not contain '|'", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate panel item id %q", id)
		}
		seen[id] = struct{}{}
		// The secret rides inside keypad tokens and is compared against
		// exactly MaxDigits entered digits, so anything else is either
		// unparseable or unmatchable.
		if !secretValid(item.Secret) {
			return fmt.Errorf("panel.items[%d].secret must be exactly %d digits", i, nav.MaxDigits)
		}
		cfg.Panel.Items[i].ID = id
	}

	seenPay := make(map[string]struct{}, len(cfg.Panel.Payments))
	for i, pay := range cfg.Panel.Payments {
		id := strings.TrimSpace(pay.ID)
		if id == "" {
			return fmt.Errorf("panel.payments[%d].id is required", i)
		}
		if strings.Contains(id, "|") {
			return fmt.Errorf("panel.payments[%d].id must not contain '|'", i)
		}
		if _, dup := seenPay[id]; dup {
			return fmt.Errorf("duplicate panel payment id %q", id)
		}
		seenPay[id] = struct{}{}
		cfg.Panel.Payments[i].ID = id
	}

	return nil
}
