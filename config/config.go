package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TRADEJOURNAL_JOURNAL_DB_PATH.
const EnvPrefix = "TRADEJOURNAL"

// Config is the complete journal configuration
type Config struct {
	Account     AccountConfig      `json:"account" yaml:"account" mapstructure:"account"`
	Instruments map[string]float64 `json:"instruments" yaml:"instruments" mapstructure:"instruments"`
	Playbook    []PlaybookRule     `json:"playbook" yaml:"playbook" mapstructure:"playbook"`
	Journal     JournalConfig      `json:"journal" yaml:"journal" mapstructure:"journal"`
	Analytics   AnalyticsConfig    `json:"analytics" yaml:"analytics" mapstructure:"analytics"`
	Logger      LoggerConfig       `json:"logger" yaml:"logger" mapstructure:"logger"`
	Webhook     WebhookConfig      `json:"webhook" yaml:"webhook" mapstructure:"webhook"`
}

// AccountConfig identifies the account trades are logged against and
// the funded-account evaluation it is measured by.
type AccountConfig struct {
	ID           string  `json:"id" yaml:"id" mapstructure:"id"`
	FirmName     string  `json:"firm_name" yaml:"firm_name" mapstructure:"firm_name"`
	ProfitTarget float64 `json:"profit_target" yaml:"profit_target" mapstructure:"profit_target"`
	MaxLoss      float64 `json:"max_loss" yaml:"max_loss" mapstructure:"max_loss"`
}

// PlaybookRule is one entry condition trades are checked against.
type PlaybookRule struct {
	ID       string `json:"id" yaml:"id" mapstructure:"id"`
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	Critical bool   `json:"critical" yaml:"critical" mapstructure:"critical"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// AnalyticsConfig controls how trades are bucketed by day.
type AnalyticsConfig struct {
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"` // IANA name or "Local"
}

type LoggerConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "json" or "console"
}

// WebhookConfig configures the alert ingestion server.
type WebhookConfig struct {
	Addr      string  `json:"addr" yaml:"addr" mapstructure:"addr"`
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst int     `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	instruments := make(map[string]float64, len(market.Instruments))
	for sym, inst := range market.Instruments {
		instruments[sym] = inst.PointValue.InexactFloat64()
	}

	playbook := make([]PlaybookRule, 0, len(market.DefaultPlaybook))
	for _, r := range market.DefaultPlaybook {
		playbook = append(playbook, PlaybookRule{ID: r.ID, Label: r.Label, Critical: r.Critical})
	}

	return &Config{
		Account: AccountConfig{
			ID: "default",
		},
		Instruments: instruments,
		Playbook:    playbook,
		Journal: JournalConfig{
			DBPath: "./tradejournal.sqlite",
		},
		Analytics: AnalyticsConfig{
			Timezone: "Local",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "console",
		},
		Webhook: WebhookConfig{
			Addr:      ":8080",
			RateLimit: 5,
			RateBurst: 10,
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file and applies
// TRADEJOURNAL_* environment overrides. An empty path loads the defaults
// plus environment overrides.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Instruments) == 0 {
		cfg.Instruments = Default().Instruments
	}
	if len(cfg.Playbook) == 0 {
		cfg.Playbook = Default().Playbook
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Instruments and playbook are left out: a table given in the file
// replaces the built-in one instead of merging with it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("account.id", d.Account.ID)
	v.SetDefault("account.firm_name", d.Account.FirmName)
	v.SetDefault("account.profit_target", d.Account.ProfitTarget)
	v.SetDefault("account.max_loss", d.Account.MaxLoss)
	v.SetDefault("journal.db_path", d.Journal.DBPath)
	v.SetDefault("analytics.timezone", d.Analytics.Timezone)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("webhook.addr", d.Webhook.Addr)
	v.SetDefault("webhook.rate_limit", d.Webhook.RateLimit)
	v.SetDefault("webhook.rate_burst", d.Webhook.RateBurst)
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.ProfitTarget < 0 {
		return fmt.Errorf("account.profit_target must not be negative")
	}
	if c.Account.MaxLoss < 0 {
		return fmt.Errorf("account.max_loss must not be negative")
	}
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments must list at least one symbol")
	}
	if _, err := c.InstrumentTable(); err != nil {
		return fmt.Errorf("instruments: %w", err)
	}
	if err := c.PlaybookRules().Validate(); err != nil {
		return fmt.Errorf("playbook: %w", err)
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	switch c.Logger.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logger.format must be 'json' or 'console'")
	}
	if c.Webhook.RateLimit < 0 {
		return fmt.Errorf("webhook.rate_limit must not be negative")
	}
	if c.Webhook.RateLimit > 0 && c.Webhook.RateBurst < 1 {
		return fmt.Errorf("webhook.rate_burst must be at least 1 when rate_limit is set")
	}
	return nil
}

// InstrumentTable converts the configured point values into a lookup table.
func (c *Config) InstrumentTable() (market.InstrumentTable, error) {
	return market.NewInstrumentTable(c.Instruments)
}

// PlaybookRules converts the configured playbook.
func (c *Config) PlaybookRules() market.Playbook {
	pb := make(market.Playbook, 0, len(c.Playbook))
	for _, r := range c.Playbook {
		pb = append(pb, market.Rule{ID: r.ID, Label: r.Label, Critical: r.Critical})
	}
	return pb
}

// Location resolves analytics.timezone; empty means Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Analytics.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Analytics.Timezone)
}
