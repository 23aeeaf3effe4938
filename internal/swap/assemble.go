package swap

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/contracts"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// Assembler builds call arguments for the AMM singleton. It holds no state
// beyond the target address; deadlines are supplied by the caller at
// submission time so a paused user never submits a stale timestamp.
type Assembler struct {
	amm   common.Address
	coins common.Address
}

// NewAssembler builds an assembler targeting the AMM singleton and the coin
// registry at the given addresses.
func NewAssembler(ammAddress, coinsAddress common.Address) *Assembler {
	return &Assembler{amm: ammAddress, coins: coinsAddress}
}

// Deadline converts a wall-clock instant plus window into the uint256
// deadline the contract checks.
func Deadline(now time.Time, window time.Duration) *big.Int {
	return big.NewInt(now.Add(window).Unix())
}

// SwapExactIn assembles a single-hop exact-input swap. zeroForOne sells the
// native side; the attached value must equal amountIn in that direction.
func (a *Assembler) SwapExactIn(key amm.PoolKey, amountIn, minOut *big.Int, zeroForOne bool, to common.Address, deadline *big.Int) (wallet.TxRequest, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("parse amm abi: %w", err)
	}

	data, err := ammABI.Pack("swapExactIn", contracts.TuplePoolKey(key), amountIn, minOut, zeroForOne, to, deadline)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack swapExactIn: %w", err)
	}

	req := wallet.TxRequest{To: a.amm, Data: data}
	if zeroForOne {
		req.Value = new(big.Int).Set(amountIn)
	}
	return req, nil
}

// AddLiquidity assembles a liquidity provision. The native-side desired
// amount rides along as attached value.
func (a *Assembler) AddLiquidity(key amm.PoolKey, amount0Desired, amount1Desired, amount0Min, amount1Min *big.Int, to common.Address, deadline *big.Int) (wallet.TxRequest, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("parse amm abi: %w", err)
	}

	data, err := ammABI.Pack("addLiquidity", contracts.TuplePoolKey(key), amount0Desired, amount1Desired, amount0Min, amount1Min, to, deadline)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack addLiquidity: %w", err)
	}

	return wallet.TxRequest{To: a.amm, Data: data, Value: new(big.Int).Set(amount0Desired)}, nil
}

// RemoveLiquidity assembles an LP burn with slippage-bounded minimums.
func (a *Assembler) RemoveLiquidity(key amm.PoolKey, liquidity, amount0Min, amount1Min *big.Int, to common.Address, deadline *big.Int) (wallet.TxRequest, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("parse amm abi: %w", err)
	}

	data, err := ammABI.Pack("removeLiquidity", contracts.TuplePoolKey(key), liquidity, amount0Min, amount1Min, to, deadline)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack removeLiquidity: %w", err)
	}

	return wallet.TxRequest{To: a.amm, Data: data}, nil
}

// SetOperator assembles the registry-side operator approval letting the AMM
// move coins on the owner's behalf. It is a separately-signed transaction
// and its approval persists across later operations.
func (a *Assembler) SetOperator(operator common.Address, approved bool) (wallet.TxRequest, error) {
	coinsABI, err := contracts.CoinsABI()
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("parse coins abi: %w", err)
	}

	data, err := coinsABI.Pack("setOperator", operator, approved)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack setOperator: %w", err)
	}

	return wallet.TxRequest{To: a.coins, Data: data}, nil
}

// CoinToCoin assembles the atomic two-leg multicall for a coin-to-coin swap
// routed through the native asset. Leg 1 sells the source coin and pays the
// AMM itself. Leg 2 spends ethAmountOut, the estimator's intermediate amount,
// and pays the recipient, bounded by minFinalOut. The contract does not
// re-derive the intermediate amount.
func (a *Assembler) CoinToCoin(sourceKey, destKey amm.PoolKey, amountIn, ethAmountOut, minFinalOut *big.Int, to common.Address, deadline *big.Int) (wallet.TxRequest, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("parse amm abi: %w", err)
	}

	leg1, err := ammABI.Pack("swapExactIn", contracts.TuplePoolKey(sourceKey), amountIn, ethAmountOut, false, a.amm, deadline)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack leg1: %w", err)
	}

	leg2, err := ammABI.Pack("swapExactIn", contracts.TuplePoolKey(destKey), ethAmountOut, minFinalOut, true, to, deadline)
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack leg2: %w", err)
	}

	data, err := ammABI.Pack("multicall", [][]byte{leg1, leg2})
	if err != nil {
		return wallet.TxRequest{}, fmt.Errorf("pack multicall: %w", err)
	}

	return wallet.TxRequest{To: a.amm, Data: data}, nil
}
