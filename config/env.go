package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment overrides, e.g. TRADER_JOURNAL_PATH.
const EnvPrefix = "TRADER"

// ApplyEnv loads the given .env files (".env" when none are named; a
// missing file is not an error) and then overrides c with any TRADER_*
// variables that are set. Existing process variables win over .env values.
// A numeric variable that does not parse is an error naming the variable;
// c keeps its value for that key.
func ApplyEnv(c *Config, envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var errs []error
	bad := func(key string, err error) {
		errs = append(errs, fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err))
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *float64) {
		if !v.IsSet(key) {
			return
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			bad(key, err)
			return
		}
		*dst = f
	}
	integer := func(key string, dst *int) {
		if !v.IsSet(key) {
			return
		}
		n, err := cast.ToIntE(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			bad(key, err)
			return
		}
		*dst = n
	}

	str("account_currency", &c.Account.Currency)
	num("starting_equity", &c.Account.StartingEquity)

	integer("trades_per_day", &c.Projection.TradesPerDay)
	integer("days", &c.Projection.Days)
	num("risk_per_trade", &c.Projection.RiskPerTrade)
	num("fee_and_friction", &c.Projection.FeeAndFriction)
	num("risk_amount", &c.Projection.RiskAmount)

	str("journal_type", &c.Journal.Type)
	str("journal_path", &c.Journal.Path)

	str("log_level", &c.Log.Level)
	str("log_format", &c.Log.Format)
	str("server_addr", &c.Server.Addr)
	str("watch_schedule", &c.Watch.Schedule)

	return errors.Join(errs...)
}
