package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NaniDAO/coinchan-sub010/internal/asset"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
	"github.com/NaniDAO/coinchan-sub010/internal/swap"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// Swap quotes, validates, and executes a swap between any two assets,
// driving the full operation state machine. The preview shown to the user is
// re-derived here so submitted minimums always match fresh reserves.
func (c *Client) Swap(ctx context.Context, from, to asset.Asset, amountIn *big.Int) (swap.Result, SwapPreview, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return swap.Result{}, SwapPreview{}, fmt.Errorf("amount must be positive")
	}

	preview, err := c.QuoteSwap(ctx, from, to, amountIn)
	if err != nil {
		return swap.Result{}, SwapPreview{}, err
	}

	plan := swap.Plan{
		Validate: func(ctx context.Context) error {
			if err := c.checkNetwork(ctx); err != nil {
				return err
			}
			if !preview.Quote.Viable() {
				return fmt.Errorf("no viable route: pool has insufficient liquidity")
			}
			return c.checkSpendable(ctx, from, amountIn)
		},
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			if preview.Route != nil {
				return c.assembler.CoinToCoin(preview.SourceKey, *preview.DestKey, amountIn, preview.Route.EthAmountOut, preview.Route.WithSlippage, c.wallet.From(), deadline)
			}
			return c.assembler.SwapExactIn(preview.SourceKey, amountIn, preview.Quote.MinAmountOut, preview.ZeroForOne, c.wallet.From(), deadline)
		},
	}
	if !from.IsNative() {
		plan.NeedsApproval, plan.ApprovalTx = c.coinApproval()
	}

	result := c.newRunner().Run(ctx, plan)
	if result.State == swap.StateSucceeded {
		c.recordActivity(ctx, model.ActivityRecord{
			Kind:      model.ActivitySwap,
			TxHash:    result.TxHash.Hex(),
			PoolID:    preview.SourceKey.PoolID().Hex(),
			AssetIn:   from.String(),
			AssetOut:  to.String(),
			AmountIn:  amountIn.String(),
			AmountOut: preview.Quote.AmountOut.String(),
			Status:    "succeeded",
		})
	}
	return result, preview, nil
}

// Approve runs a standalone operator approval for the AMM.
func (c *Client) Approve(ctx context.Context) (swap.Result, error) {
	plan := swap.Plan{
		Validate: c.checkNetwork,
		Build: func(*big.Int) (wallet.TxRequest, error) {
			return c.assembler.SetOperator(c.cfg.AMM, true)
		},
	}

	result := c.newRunner().Run(ctx, plan)
	if result.State == swap.StateSucceeded {
		c.recordActivity(ctx, model.ActivityRecord{
			Kind:   model.ActivityApprove,
			TxHash: result.TxHash.Hex(),
			Status: "succeeded",
		})
	}
	return result, nil
}
