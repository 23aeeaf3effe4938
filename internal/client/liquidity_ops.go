package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/asset"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
	"github.com/NaniDAO/coinchan-sub010/internal/swap"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// LiquidityPreview is the client-side estimate for a provision or
// withdrawal. The contract remains authoritative on the final split.
type LiquidityPreview struct {
	Key             amm.PoolKey
	Amount0         *big.Int
	Amount1         *big.Int
	Amount0Min      *big.Int
	Amount1Min      *big.Int
	LiquidityMinted *big.Int
}

// AddLiquidity provides both sides of a coin/native pool. Desired amounts
// are slippage-bounded into minimums; the native side rides along as
// attached value.
func (c *Client) AddLiquidity(ctx context.Context, coinID, amount0Desired, amount1Desired *big.Int) (swap.Result, LiquidityPreview, error) {
	if amount0Desired == nil || amount1Desired == nil || amount0Desired.Sign() <= 0 || amount1Desired.Sign() <= 0 {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("both amounts must be positive")
	}

	key, err := amm.NewCoinPoolKey(coinID, c.cfg.DefaultFeeBps, c.cfg.Coins)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, err
	}

	state, err := c.registry.PoolState(ctx, key)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, err
	}

	preview := LiquidityPreview{
		Key:        key,
		Amount0:    amount0Desired,
		Amount1:    amount1Desired,
		Amount0Min: amm.ApplySlippage(amount0Desired, c.cfg.SlippageBps),
		Amount1Min: amm.ApplySlippage(amount1Desired, c.cfg.SlippageBps),
		LiquidityMinted: amm.EstimateLiquidityMinted(
			amount0Desired, amount1Desired,
			state.Reserve0, state.Reserve1, state.TotalSupply,
		),
	}

	needs, approvalTx := c.coinApproval()
	plan := swap.Plan{
		Validate: func(ctx context.Context) error {
			if err := c.checkNetwork(ctx); err != nil {
				return err
			}
			// The native side travels as attached value and must be
			// affordable before anything reaches the network.
			if err := c.checkSpendable(ctx, asset.NativeAsset(), amount0Desired); err != nil {
				return err
			}
			return c.checkSpendable(ctx, coinAsset(coinID), amount1Desired)
		},
		NeedsApproval: needs,
		ApprovalTx:    approvalTx,
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			return c.assembler.AddLiquidity(key, amount0Desired, amount1Desired, preview.Amount0Min, preview.Amount1Min, c.wallet.From(), deadline)
		},
	}

	result := c.newRunner().Run(ctx, plan)
	if result.State == swap.StateSucceeded {
		c.recordActivity(ctx, model.ActivityRecord{
			Kind:      model.ActivityAddLiquidity,
			TxHash:    result.TxHash.Hex(),
			PoolID:    key.PoolID().Hex(),
			AssetIn:   "eth",
			AssetOut:  coinAsset(coinID).String(),
			AmountIn:  amount0Desired.String(),
			AmountOut: amount1Desired.String(),
			Status:    "succeeded",
		})
	}
	return result, preview, nil
}

// AddLiquiditySingleSided provides liquidity from the coin side only. The
// helper contract computes the exact ETH requirement and actual split; the
// client previews nothing beyond what the helper reports.
func (c *Client) AddLiquiditySingleSided(ctx context.Context, coinID, amount1Desired *big.Int) (swap.Result, LiquidityPreview, error) {
	if amount1Desired == nil || amount1Desired.Sign() <= 0 {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("amount must be positive")
	}

	key, err := amm.NewCoinPoolKey(coinID, c.cfg.DefaultFeeBps, c.cfg.Coins)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, err
	}

	ethRequired, actual0, actual1, err := c.registry.RequiredETH(ctx, key, new(big.Int), amount1Desired)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("calculate required eth: %w", err)
	}
	if ethRequired.Sign() == 0 {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("helper reported zero ETH requirement: check pool liquidity")
	}

	preview := LiquidityPreview{
		Key:        key,
		Amount0:    ethRequired,
		Amount1:    actual1,
		Amount0Min: amm.ApplySlippage(actual0, c.cfg.SlippageBps),
		Amount1Min: amm.ApplySlippage(actual1, c.cfg.SlippageBps),
	}

	needs, approvalTx := c.coinApproval()
	plan := swap.Plan{
		Validate: func(ctx context.Context) error {
			if err := c.checkNetwork(ctx); err != nil {
				return err
			}
			if err := c.checkSpendable(ctx, asset.NativeAsset(), ethRequired); err != nil {
				return err
			}
			return c.checkSpendable(ctx, coinAsset(coinID), amount1Desired)
		},
		NeedsApproval: needs,
		ApprovalTx:    approvalTx,
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			return c.assembler.AddLiquidity(key, ethRequired, actual1, preview.Amount0Min, preview.Amount1Min, c.wallet.From(), deadline)
		},
	}

	result := c.newRunner().Run(ctx, plan)
	if result.State == swap.StateSucceeded {
		c.recordActivity(ctx, model.ActivityRecord{
			Kind:      model.ActivityAddLiquidity,
			TxHash:    result.TxHash.Hex(),
			PoolID:    key.PoolID().Hex(),
			AssetIn:   coinAsset(coinID).String(),
			AmountIn:  amount1Desired.String(),
			Status:    "succeeded",
		})
	}
	return result, preview, nil
}

// RemoveLiquidity burns LP tokens for pro-rata reserves with
// slippage-bounded minimums.
func (c *Client) RemoveLiquidity(ctx context.Context, coinID, burnAmount *big.Int) (swap.Result, LiquidityPreview, error) {
	if burnAmount == nil || burnAmount.Sign() <= 0 {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("burn amount must be positive")
	}

	key, err := amm.NewCoinPoolKey(coinID, c.cfg.DefaultFeeBps, c.cfg.Coins)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, err
	}

	state, err := c.registry.PoolState(ctx, key)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, err
	}

	amount0, amount1, err := amm.WithdrawAmounts(burnAmount, state.Reserve0, state.Reserve1, state.TotalSupply)
	if err != nil {
		return swap.Result{}, LiquidityPreview{}, fmt.Errorf("withdrawal preview: %w", err)
	}

	preview := LiquidityPreview{
		Key:        key,
		Amount0:    amount0,
		Amount1:    amount1,
		Amount0Min: amm.ApplySlippage(amount0, c.cfg.SlippageBps),
		Amount1Min: amm.ApplySlippage(amount1, c.cfg.SlippageBps),
	}

	plan := swap.Plan{
		Validate: func(ctx context.Context) error {
			if err := c.checkNetwork(ctx); err != nil {
				return err
			}
			lpBalance, err := c.registry.LPBalance(ctx, c.wallet.From(), key)
			if err != nil {
				return swap.Failure{Class: swap.FailurePreflight, Message: "cannot read LP balance", Err: err}
			}
			if lpBalance.Cmp(burnAmount) < 0 {
				return swap.Failure{Class: swap.FailurePreflight, Message: "insufficient LP balance"}
			}
			return nil
		},
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			return c.assembler.RemoveLiquidity(key, burnAmount, preview.Amount0Min, preview.Amount1Min, c.wallet.From(), deadline)
		},
	}

	result := c.newRunner().Run(ctx, plan)
	if result.State == swap.StateSucceeded {
		c.recordActivity(ctx, model.ActivityRecord{
			Kind:      model.ActivityRemoveLiquidity,
			TxHash:    result.TxHash.Hex(),
			PoolID:    key.PoolID().Hex(),
			AssetIn:   coinAsset(coinID).String(),
			AmountIn:  burnAmount.String(),
			Status:    "succeeded",
		})
	}
	return result, preview, nil
}
