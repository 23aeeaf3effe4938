package router

import (
	"math/big"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
)

// RouteQuote is the preview for a coin-to-coin swap routed through the native
// asset. EthAmountOut is the leg-1 output and must be surfaced because the
// on-chain multicall takes it as an explicit parameter for the second leg.
type RouteQuote struct {
	AmountOut    *big.Int
	WithSlippage *big.Int
	EthAmountOut *big.Int
}

// Viable reports whether the route produced output on both legs. A zero
// quote means no viable route; callers must not submit.
func (q RouteQuote) Viable() bool {
	return q.AmountOut != nil && q.AmountOut.Sign() > 0
}

// EstimateCoinToCoin prices a two-hop swap between two coins that each hold
// liquidity only against the native asset: sell the source coin for ETH in
// the source pool, then buy the destination coin with that ETH in the
// destination pool. Slippage is applied to the final output only. Reserve
// snapshots are explicit parameters so the math stays free of I/O.
//
// The estimate is approximate by construction: reserves move between the two
// legs at execution time, and the on-chain minimum-out check is the real
// backstop.
func EstimateCoinToCoin(amountIn *big.Int, source, dest model.ReserveState, sourceFeeBps, destFeeBps, slippageBps uint64) RouteQuote {
	zero := RouteQuote{AmountOut: new(big.Int), WithSlippage: new(big.Int), EthAmountOut: new(big.Int)}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return zero
	}
	if source.Empty() || dest.Empty() {
		return zero
	}

	// Leg 1: coin in, native out.
	ethOut := amm.QuoteOutputGivenInput(amountIn, source.Reserve1, source.Reserve0, sourceFeeBps)
	if ethOut.Sign() == 0 {
		return zero
	}

	// Leg 2: native in, coin out.
	finalOut := amm.QuoteOutputGivenInput(ethOut, dest.Reserve0, dest.Reserve1, destFeeBps)
	if finalOut.Sign() == 0 {
		return zero
	}

	return RouteQuote{
		AmountOut:    finalOut,
		WithSlippage: amm.ApplySlippage(finalOut, slippageBps),
		EthAmountOut: ethOut,
	}
}

// EstimateExactIn previews a single-hop swap in either direction.
// coinToNative selects which side of the pool is being sold.
func EstimateExactIn(amountIn *big.Int, reserves model.ReserveState, feeBps, slippageBps uint64, coinToNative bool) model.SwapQuote {
	quote := model.SwapQuote{
		AmountIn:     new(big.Int),
		AmountOut:    new(big.Int),
		MinAmountOut: new(big.Int),
	}
	if amountIn == nil || amountIn.Sign() <= 0 || reserves.Empty() {
		return quote
	}

	reserveIn, reserveOut := reserves.Reserve0, reserves.Reserve1
	if coinToNative {
		reserveIn, reserveOut = reserves.Reserve1, reserves.Reserve0
	}

	out := amm.QuoteOutputGivenInput(amountIn, reserveIn, reserveOut, feeBps)
	quote.AmountIn = new(big.Int).Set(amountIn)
	quote.AmountOut = out
	quote.MinAmountOut = amm.ApplySlippage(out, slippageBps)
	return quote
}

// EstimateExactOut previews the input required to receive amountOut from a
// single-hop swap. A zero AmountIn means the pool cannot serve the request.
func EstimateExactOut(amountOut *big.Int, reserves model.ReserveState, feeBps uint64, coinToNative bool) model.SwapQuote {
	quote := model.SwapQuote{
		AmountIn:     new(big.Int),
		AmountOut:    new(big.Int),
		MinAmountOut: new(big.Int),
	}
	if amountOut == nil || amountOut.Sign() <= 0 || reserves.Empty() {
		return quote
	}

	reserveIn, reserveOut := reserves.Reserve0, reserves.Reserve1
	if coinToNative {
		reserveIn, reserveOut = reserves.Reserve1, reserves.Reserve0
	}

	in := amm.QuoteInputGivenOutput(amountOut, reserveIn, reserveOut, feeBps)
	if in.Sign() == 0 {
		return quote
	}
	quote.AmountIn = in
	quote.AmountOut = new(big.Int).Set(amountOut)
	quote.MinAmountOut = new(big.Int).Set(amountOut)
	return quote
}
