package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradeperf/analytics"
	"github.com/rustyeddy/tradeperf/risk"
)

// Config is everything the trader CLI needs to analyze a ledger and
// project it forward.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Projection ProjectionConfig `json:"projection" yaml:"projection"`
	Risk       risk.Policy      `json:"risk" yaml:"risk"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Watch      WatchConfig      `json:"watch" yaml:"watch"`
}

// AccountConfig describes the account being projected.
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	Currency       string  `json:"currency" yaml:"currency"`
	StartingEquity float64 `json:"starting_equity" yaml:"starting_equity"`
}

// ProjectionConfig holds the operator settings and optional overrides of
// ledger-derived values.
type ProjectionConfig struct {
	TradesPerDay   int     `json:"trades_per_day" yaml:"trades_per_day"`
	Days           int     `json:"days" yaml:"days"`
	RiskPerTrade   float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	FeeAndFriction float64 `json:"fee_and_friction" yaml:"fee_and_friction"`
	RiskAmount     float64 `json:"risk_amount,omitempty" yaml:"risk_amount,omitempty"`

	Overrides analytics.Overrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// JournalConfig selects the trade ledger.
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "sqlite", "csv" or "postgres"
	Path string `json:"path" yaml:"path"` // file path, or DSN for postgres
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type WatchConfig struct {
	Schedule string `json:"schedule" yaml:"schedule"` // cron spec, e.g. "@every 1m"
}

// LoadFromFile loads configuration from a YAML or JSON file and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// YAML first, JSON as the fallback
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.StartingEquity <= 0 {
		return fmt.Errorf("account.starting_equity must be positive")
	}

	p := c.Projection
	if p.TradesPerDay < 0 {
		return fmt.Errorf("projection.trades_per_day must not be negative")
	}
	if p.Days < 0 {
		return fmt.Errorf("projection.days must not be negative")
	}
	if p.RiskPerTrade < 0 || p.RiskPerTrade > 1 {
		return fmt.Errorf("projection.risk_per_trade must be between 0 and 1")
	}
	if p.FeeAndFriction < 0 {
		return fmt.Errorf("projection.fee_and_friction must not be negative")
	}
	if p.RiskAmount < 0 {
		return fmt.Errorf("projection.risk_amount must not be negative")
	}
	if wr := p.Overrides.WinRate; wr != nil && (*wr < 0 || *wr > 1) {
		return fmt.Errorf("projection.overrides.win_rate must be between 0 and 1")
	}
	if v := p.Overrides.AvgWinR; v != nil && *v < 0 {
		return fmt.Errorf("projection.overrides.avg_win_r must not be negative")
	}
	if v := p.Overrides.AvgLossR; v != nil && *v < 0 {
		return fmt.Errorf("projection.overrides.avg_loss_r must not be negative")
	}
	if v := p.Overrides.FeeAndFriction; v != nil && *v < 0 {
		return fmt.Errorf("projection.overrides.fee_and_friction must not be negative")
	}

	switch c.Journal.Type {
	case "sqlite", "csv", "postgres":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'postgres'")
	}
	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required")
	}

	if c.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			return fmt.Errorf("watch.schedule: %w", err)
		}
	}
	return nil
}

// Settings returns the projection settings for analytics.Seed.
func (c *Config) Settings() analytics.Settings {
	return analytics.Settings{
		StartingEquity: c.Account.StartingEquity,
		TradesPerDay:   c.Projection.TradesPerDay,
		RiskPerTrade:   c.Projection.RiskPerTrade,
		FeeAndFriction: c.Projection.FeeAndFriction,
		Days:           c.Projection.Days,
		RiskAmount:     c.Projection.RiskAmount,
	}
}

// Overrides returns the configured replacements for ledger-derived values.
func (c *Config) Overrides() analytics.Overrides {
	return c.Projection.Overrides
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	d := analytics.DefaultConfig
	return &Config{
		Account: AccountConfig{
			ID:             "MAIN",
			Currency:       "USD",
			StartingEquity: d.StartingEquity,
		},
		Projection: ProjectionConfig{
			TradesPerDay:   d.TradesPerDay,
			Days:           d.Days,
			RiskPerTrade:   d.RiskPerTrade,
			FeeAndFriction: d.FeeAndFriction,
		},
		Risk: risk.DefaultPolicy(),
		Journal: JournalConfig{
			Type: "sqlite",
			Path: "./trader.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8089",
		},
		Watch: WatchConfig{
			Schedule: "@every 1m",
		},
	}
}
