package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newAddLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity <coin-id> <eth-amount> <coin-amount>",
		Short: "Provide both sides of a coin/eth pool",
		Args:  cobra.ExactArgs(3),
		RunE:  runAddLiquidity,
	}
	addChainFlags(cmd)
	return cmd
}

func runAddLiquidity(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	coinID, err := parseAmount(args[0], "coin id")
	if err != nil {
		return err
	}
	amount0, err := parseAmount(args[1], "eth")
	if err != nil {
		return err
	}
	amount1, err := parseAmount(args[2], "coin")
	if err != nil {
		return err
	}

	result, preview, err := tk.client.AddLiquidity(ctx, coinID, amount0, amount1)
	if err != nil {
		return err
	}
	if preview.LiquidityMinted != nil {
		fmt.Printf("estimated lp tokens: %s\n", preview.LiquidityMinted)
	}
	return reportResult(result)
}

func newAddSingleSidedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-single <coin-id> <coin-amount>",
		Short: "Provide liquidity from the coin side only",
		Long:  "Asks the liquidity helper for the exact eth the pool requires to match the coin amount, then provides both sides in one transaction.",
		Args:  cobra.ExactArgs(2),
		RunE:  runAddSingleSided,
	}
	addChainFlags(cmd)
	return cmd
}

func runAddSingleSided(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	coinID, err := parseAmount(args[0], "coin id")
	if err != nil {
		return err
	}
	amount1, err := parseAmount(args[1], "coin")
	if err != nil {
		return err
	}

	result, preview, err := tk.client.AddLiquiditySingleSided(ctx, coinID, amount1)
	if err != nil {
		return err
	}
	if preview.Amount0 != nil {
		fmt.Printf("eth required: %s\n", preview.Amount0)
	}
	return reportResult(result)
}

func newRemoveLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity <coin-id> <lp-amount>",
		Short: "Burn LP tokens and withdraw both sides",
		Args:  cobra.ExactArgs(2),
		RunE:  runRemoveLiquidity,
	}
	addChainFlags(cmd)
	return cmd
}

func runRemoveLiquidity(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	coinID, err := parseAmount(args[0], "coin id")
	if err != nil {
		return err
	}
	burn, err := parseAmount(args[1], "lp")
	if err != nil {
		return err
	}

	result, preview, err := tk.client.RemoveLiquidity(ctx, coinID, burn)
	if err != nil {
		return err
	}
	if preview.Amount0 != nil && preview.Amount1 != nil {
		fmt.Printf("expected out: %s eth, %s coin (min %s / %s)\n",
			preview.Amount0, preview.Amount1, preview.Amount0Min, preview.Amount1Min)
	}
	return reportResult(result)
}
