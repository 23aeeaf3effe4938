package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "coinswap",
		Short:        "Client toolkit for the coin AMM",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newQuoteCmd())
	root.AddCommand(newSwapCmd())
	root.AddCommand(newApproveCmd())
	root.AddCommand(newAddLiquidityCmd())
	root.AddCommand(newAddSingleSidedCmd())
	root.AddCommand(newRemoveLiquidityCmd())
	root.AddCommand(newTokensCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// addChainFlags registers the flags every chain-touching command shares.
func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("amm", "", "AMM singleton address")
	cmd.Flags().String("coins", "", "coin registry address")
	cmd.Flags().String("helper", "", "metadata/liquidity helper address")
	cmd.Flags().Uint64("chain-id", 0, "expected chain id (0 disables the check)")
	cmd.Flags().String("from", "", "sender account address")
	cmd.Flags().Uint64("fee-bps", 100, "pool swap fee in basis points")
	cmd.Flags().Uint64("slippage-bps", 50, "slippage tolerance in basis points")
	cmd.Flags().Duration("deadline-window", 20*time.Minute, "transaction deadline window")
	cmd.Flags().Int("max-retries", 5, "maximum view-call retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial view-call retry backoff")
	cmd.Flags().String("activity-out", "./data/activity.jsonl", "activity JSONL path")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for activity records (overrides JSONL)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}
