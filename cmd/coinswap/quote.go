package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NaniDAO/coinchan-sub010/internal/asset"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <from> <to> <amount>",
		Short: "Preview a swap without submitting anything",
		Long:  "Prices a swap between two assets. Assets are written as 'eth' or 'coin:<id>'; amounts are raw integer units.",
		Args:  cobra.ExactArgs(3),
		RunE:  runQuote,
	}
	addChainFlags(cmd)
	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tk, err := setup(ctx, cmd, false)
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

	preview, err := tk.client.QuoteSwap(ctx, from, to, amountIn)
	if err != nil {
		return err
	}
	if !preview.Quote.Viable() {
		return fmt.Errorf("no viable route for %s -> %s", from, to)
	}

	fmt.Printf("in:       %s %s\n", preview.Quote.AmountIn, from)
	fmt.Printf("out:      %s %s\n", preview.Quote.AmountOut, to)
	fmt.Printf("min out:  %s (slippage %d bps)\n", preview.Quote.MinAmountOut, tk.cfg.SlippageBps)
	if preview.Route != nil {
		fmt.Printf("via eth:  %s\n", preview.Route.EthAmountOut)
	}
	return nil
}
