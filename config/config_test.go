package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeperf/analytics"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, analytics.DefaultConfig.StartingEquity, cfg.Account.StartingEquity)
	assert.Equal(t, analytics.DefaultConfig.RiskPerTrade, cfg.Projection.RiskPerTrade)
	assert.Equal(t, analytics.DefaultConfig.FeeAndFriction, cfg.Projection.FeeAndFriction)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func ptr(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing currency", func(c *Config) { c.Account.Currency = "" }, "account.currency is required"},
		{"zero equity", func(c *Config) { c.Account.StartingEquity = 0 }, "account.starting_equity must be positive"},
		{"negative trades per day", func(c *Config) { c.Projection.TradesPerDay = -1 }, "projection.trades_per_day"},
		{"negative days", func(c *Config) { c.Projection.Days = -1 }, "projection.days"},
		{"risk above one", func(c *Config) { c.Projection.RiskPerTrade = 1.5 }, "projection.risk_per_trade"},
		{"negative fee", func(c *Config) { c.Projection.FeeAndFriction = -0.1 }, "projection.fee_and_friction"},
		{"negative risk amount", func(c *Config) { c.Projection.RiskAmount = -5 }, "projection.risk_amount"},
		{"override win rate", func(c *Config) { c.Projection.Overrides.WinRate = ptr(52) }, "overrides.win_rate"},
		{"override avg win", func(c *Config) { c.Projection.Overrides.AvgWinR = ptr(-1) }, "overrides.avg_win_r"},
		{"override avg loss", func(c *Config) { c.Projection.Overrides.AvgLossR = ptr(-1) }, "overrides.avg_loss_r"},
		{"override fee", func(c *Config) { c.Projection.Overrides.FeeAndFriction = ptr(-1) }, "overrides.fee_and_friction"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "mongo" }, "journal.type"},
		{"missing journal path", func(c *Config) { c.Journal.Path = "" }, "journal.path is required"},
		{"bad schedule", func(c *Config) { c.Watch.Schedule = "every now and then" }, "watch.schedule"},
		{"empty schedule allowed", func(c *Config) { c.Watch.Schedule = "" }, ""},
		{"cron schedule", func(c *Config) { c.Watch.Schedule = "*/5 * * * *" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Account.StartingEquity = 25000
	cfg.Projection.Days = 90
	cfg.Projection.Overrides.WinRate = ptr(0.6)
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting_equity: 25000")
	assert.Contains(t, string(data), "win_rate: 0.6")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Journal = JournalConfig{Type: "csv", Path: "trades.csv"}
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type": "csv"`)

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projection:\n  days: 5\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Projection.Days)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("journal:\n  type: mongo\n"), 0644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.Projection.RiskAmount = 50

	s := cfg.Settings()
	assert.Equal(t, cfg.Account.StartingEquity, s.StartingEquity)
	assert.Equal(t, cfg.Projection.TradesPerDay, s.TradesPerDay)
	assert.Equal(t, cfg.Projection.RiskPerTrade, s.RiskPerTrade)
	assert.Equal(t, cfg.Projection.FeeAndFriction, s.FeeAndFriction)
	assert.Equal(t, cfg.Projection.Days, s.Days)
	assert.Equal(t, 50.0, s.RiskAmount)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TRADER_JOURNAL_TYPE", "csv")
	t.Setenv("TRADER_JOURNAL_PATH", "/tmp/ledger.csv")
	t.Setenv("TRADER_STARTING_EQUITY", "2500.5")
	t.Setenv("TRADER_TRADES_PER_DAY", "3")
	t.Setenv("TRADER_RISK_PER_TRADE", "0.005")
	t.Setenv("TRADER_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, filepath.Join(t.TempDir(), "none.env")))

	assert.Equal(t, "csv", cfg.Journal.Type)
	assert.Equal(t, "/tmp/ledger.csv", cfg.Journal.Path)
	assert.Equal(t, 2500.5, cfg.Account.StartingEquity)
	assert.Equal(t, 3, cfg.Projection.TradesPerDay)
	assert.Equal(t, 0.005, cfg.Projection.RiskPerTrade)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched keys keep their values
	assert.Equal(t, analytics.DefaultConfig.Days, cfg.Projection.Days)
	assert.Equal(t, ":8089", cfg.Server.Addr)
}

func TestApplyEnvDotEnvFile(t *testing.T) {
	// t.Setenv registers cleanup for the variable godotenv will set
	t.Setenv("TRADER_WATCH_SCHEDULE", "")
	require.NoError(t, os.Unsetenv("TRADER_WATCH_SCHEDULE"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRADER_WATCH_SCHEDULE=@every 5m\n"), 0644))

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, path))
	assert.Equal(t, "@every 5m", cfg.Watch.Schedule)
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TRADER_RISK_PER_TRADE", "abc")
	t.Setenv("TRADER_DAYS", "ten")
	t.Setenv("TRADER_JOURNAL_PATH", "/tmp/ok.db")

	cfg := Default()
	err := ApplyEnv(cfg, filepath.Join(t.TempDir(), "none.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRADER_RISK_PER_TRADE")
	assert.Contains(t, err.Error(), "TRADER_DAYS")

	// bad keys keep their values, good ones still apply
	assert.Equal(t, analytics.DefaultConfig.RiskPerTrade, cfg.Projection.RiskPerTrade)
	assert.Equal(t, analytics.DefaultConfig.Days, cfg.Projection.Days)
	assert.Equal(t, "/tmp/ok.db", cfg.Journal.Path)
}
