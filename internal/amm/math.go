package amm

import (
	"errors"
	"math/big"
)

// BpsDenominator is the basis-point scale shared by fees and slippage.
const BpsDenominator = 10_000

// MinimumLiquidity is the LP amount permanently locked on first deposit.
var MinimumLiquidity = big.NewInt(1000)

var (
	// ErrNoLiquidity is returned when pool supply is zero for an operation
	// that requires an existing position.
	ErrNoLiquidity = errors.New("pool has no liquidity")
	// ErrStaleReserves is returned when a computed withdrawal exceeds the
	// reserve snapshot, which indicates the snapshot is out of date.
	ErrStaleReserves = errors.New("reserve snapshot is stale")
)

var bpsDen = big.NewInt(BpsDenominator)

// QuoteOutputGivenInput prices an exact-input swap against a constant-product
// pool. The fee is taken from the input side in basis points and the result
// is floored, matching the on-chain formula. A zero input, an empty pool, or
// a fee at or above the full denominator quotes zero rather than erroring.
func QuoteOutputGivenInput(amountIn, reserveIn, reserveOut *big.Int, feeBps uint64) *big.Int {
	if amountIn == nil || reserveIn == nil || reserveOut == nil || feeBps >= BpsDenominator {
		return new(big.Int)
	}
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return new(big.Int)
	}

	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(int64(BpsDenominator-feeBps)))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, bpsDen)
	denominator.Add(denominator, amountInWithFee)

	return numerator.Div(numerator, denominator)
}

// QuoteInputGivenOutput prices an exact-output swap. The result is the floored
// quotient plus one, so the returned input is never a unit short of what the
// pool requires. Requesting the full reserve or more quotes zero, as does a
// fee at or above the full denominator.
func QuoteInputGivenOutput(amountOut, reserveIn, reserveOut *big.Int, feeBps uint64) *big.Int {
	if amountOut == nil || reserveIn == nil || reserveOut == nil || feeBps >= BpsDenominator {
		return new(big.Int)
	}
	if amountOut.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return new(big.Int)
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return new(big.Int)
	}

	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, bpsDen)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, big.NewInt(int64(BpsDenominator-feeBps)))

	numerator.Div(numerator, denominator)
	return numerator.Add(numerator, big.NewInt(1))
}

// ApplySlippage lowers an amount by a basis-point tolerance, flooring. A
// tolerance at or above the full denominator floors the whole amount away.
func ApplySlippage(amount *big.Int, slippageBps uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || slippageBps >= BpsDenominator {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, big.NewInt(int64(BpsDenominator-slippageBps)))
	return out.Div(out, bpsDen)
}

// WithdrawAmounts computes the pro-rata reserves returned for burning LP
// tokens. Burning zero returns zero amounts without error. A zero total
// supply or a computed amount above its reserve rejects the snapshot.
func WithdrawAmounts(burnAmount, reserve0, reserve1, totalSupply *big.Int) (*big.Int, *big.Int, error) {
	if burnAmount == nil || burnAmount.Sign() == 0 {
		return new(big.Int), new(big.Int), nil
	}
	if totalSupply == nil || totalSupply.Sign() == 0 {
		return new(big.Int), new(big.Int), ErrNoLiquidity
	}

	amount0 := new(big.Int).Mul(burnAmount, reserve0)
	amount0.Div(amount0, totalSupply)
	amount1 := new(big.Int).Mul(burnAmount, reserve1)
	amount1.Div(amount1, totalSupply)

	if amount0.Cmp(reserve0) > 0 || amount1.Cmp(reserve1) > 0 {
		return new(big.Int), new(big.Int), ErrStaleReserves
	}

	return amount0, amount1, nil
}

// EstimateLiquidityMinted previews the LP tokens minted for a deposit. The
// first deposit mints sqrt(amount0*amount1) less the locked minimum; later
// deposits mint the proportional minimum across both sides.
func EstimateLiquidityMinted(amount0, amount1, reserve0, reserve1, totalSupply *big.Int) *big.Int {
	if amount0 == nil || amount1 == nil || amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return new(big.Int)
	}

	if totalSupply == nil || totalSupply.Sign() == 0 {
		minted := new(big.Int).Mul(amount0, amount1)
		minted.Sqrt(minted)
		minted.Sub(minted, MinimumLiquidity)
		if minted.Sign() < 0 {
			return new(big.Int)
		}
		return minted
	}

	if reserve0 == nil || reserve1 == nil || reserve0.Sign() == 0 || reserve1.Sign() == 0 {
		return new(big.Int)
	}

	minted0 := new(big.Int).Mul(amount0, totalSupply)
	minted0.Div(minted0, reserve0)
	minted1 := new(big.Int).Mul(amount1, totalSupply)
	minted1.Div(minted1, reserve1)

	if minted0.Cmp(minted1) < 0 {
		return minted0
	}
	return minted1
}
