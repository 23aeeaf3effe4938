package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/asset"
	"github.com/NaniDAO/coinchan-sub010/internal/swap"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <from> <to> <amount>",
		Short: "Quote and submit a swap",
		Long:  "Quotes the swap, grants the operator approval if the spend side needs one, and submits. Coin-to-coin pairs route through eth in a single multicall.",
		Args:  cobra.ExactArgs(3),
		RunE:  runSwap,
	}
	addChainFlags(cmd)
	return cmd
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	from, err := asset.Parse(args[0])
	if err != nil {
		return err
	}
	to, err := asset.Parse(args[1])
	if err != nil {
		return err
	}
	amountIn, err := parseAmount(args[2], "input")
	if err != nil {
		return err
	}

	result, preview, err := tk.client.Swap(ctx, from, to, amountIn)
	if err != nil {
		return err
	}

	tk.logger.Info("swap flow finished",
		zap.String("state", result.State.String()),
		zap.String("amount_in", preview.Quote.AmountIn.String()),
		zap.String("min_out", preview.Quote.MinAmountOut.String()),
	)
	return reportResult(result)
}

func newApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Grant the AMM operator rights over the sender's coins",
		Args:  cobra.NoArgs,
		RunE:  runApprove,
	}
	addChainFlags(cmd)
	return cmd
}

func runApprove(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer tk.cleanup()

	result, err := tk.client.Approve(ctx)
	if err != nil {
		return err
	}
	return reportResult(result)
}

// reportResult prints the terminal outcome. A user rejection ends the flow
// quietly; every other failure is surfaced.
func reportResult(result swap.Result) error {
	if result.Rejected {
		fmt.Println("cancelled")
		return nil
	}
	switch result.State {
	case swap.StateSucceeded:
		fmt.Printf("confirmed %s\n", result.TxHash.Hex())
		return nil
	case swap.StateFailed:
		if result.Failure != nil {
			if result.TxHash != (common.Hash{}) {
				return fmt.Errorf("tx %s failed: %s", result.TxHash.Hex(), result.Failure.Message)
			}
			return fmt.Errorf("%s", result.Failure.Message)
		}
		return fmt.Errorf("operation failed")
	default:
		return fmt.Errorf("operation ended in state %s", result.State)
	}
}
