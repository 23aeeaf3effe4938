package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <coin-id>...",
		Short: "Fetch metadata and pool state for a set of coins",
		Long:  "Fetches symbol, name, decimals, and pool reserves for each coin id. When a sender address is configured, coin and LP balances are included.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTokens,
	}
	addChainFlags(cmd)
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	ids := make([]*big.Int, 0, len(args))
	for _, arg := range args {
		id, err := parseAmount(arg, "coin id")
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	metas, err := tk.client.LoadTokens(ctx, ids)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, meta := range metas {
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode token meta: %w", err)
		}
	}
	return nil
}
