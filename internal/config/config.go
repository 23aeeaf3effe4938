package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	AMMAddress     string
	CoinsAddress   string
	HelperAddress  string
	ChainID        uint64
	From           string
	FeeBps         uint64
	SlippageBps    uint64
	DeadlineWindow time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	ActivityOut    string
	PgDSN          string
	LogLevel       string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COINSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("fee-bps", uint64(100))
	v.SetDefault("slippage-bps", uint64(50))
	v.SetDefault("deadline-window", 20*time.Minute)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("activity-out", "./data/activity.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		AMMAddress:     v.GetString("amm"),
		CoinsAddress:   v.GetString("coins"),
		HelperAddress:  v.GetString("helper"),
		ChainID:        v.GetUint64("chain-id"),
		From:           v.GetString("from"),
		FeeBps:         v.GetUint64("fee-bps"),
		SlippageBps:    v.GetUint64("slippage-bps"),
		DeadlineWindow: v.GetDuration("deadline-window"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		ActivityOut:    v.GetString("activity-out"),
		PgDSN:          v.GetString("pg-dsn"),
		LogLevel:       v.GetString("log-level"),
	}

	if cfg.FeeBps >= 10_000 {
		return Config{}, fmt.Errorf("fee-bps must be below 10000")
	}
	if cfg.SlippageBps >= 10_000 {
		return Config{}, fmt.Errorf("slippage-bps must be below 10000")
	}

	return cfg, nil
}
