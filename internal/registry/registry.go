package registry

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/contracts"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
)

// poolsSupplyIndex is the position of the LP supply inside the pools()
// return tuple. The deployed contract layout fixes this offset.
const poolsSupplyIndex = 6

// ContractCaller is the read-only chain surface the registry depends on.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config holds the deployed contract addresses and retry policy.
type Config struct {
	AMM          common.Address
	Coins        common.Address
	Helper       common.Address
	MaxRetries   int
	RetryBackoff time.Duration
}

// Registry reads pool, balance, and metadata state from the deployed
// contracts. It never mutates chain state.
type Registry struct {
	cfg    Config
	caller ContractCaller
	logger *zap.Logger
}

// New builds a Registry with its dependencies.
func New(cfg Config, caller ContractCaller, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{cfg: cfg, caller: caller, logger: logger}
}

// PoolState reads reserves and LP supply for one pool.
func (r *Registry) PoolState(ctx context.Context, key amm.PoolKey) (model.PoolState, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return model.PoolState{}, fmt.Errorf("parse amm abi: %w", err)
	}

	poolID := new(big.Int).SetBytes(key.PoolID().Bytes())
	values, err := r.view(ctx, r.cfg.AMM, ammABI, "pools", poolID)
	if err != nil {
		return model.PoolState{}, err
	}
	if len(values) <= poolsSupplyIndex {
		return model.PoolState{}, fmt.Errorf("pools tuple has %d fields, want > %d", len(values), poolsSupplyIndex)
	}

	reserve0, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("reserve1: %w", err)
	}
	supply, err := asBigInt(values[poolsSupplyIndex])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("supply: %w", err)
	}

	return model.PoolState{
		ReserveState: model.ReserveState{Reserve0: reserve0, Reserve1: reserve1},
		TotalSupply:  supply,
	}, nil
}

// PoolStatePair reads two independent pools concurrently. Both reads share
// the caller's context; the first error wins.
func (r *Registry) PoolStatePair(ctx context.Context, source, dest amm.PoolKey) (model.PoolState, model.PoolState, error) {
	type result struct {
		state model.PoolState
		err   error
	}

	sourceCh := make(chan result, 1)
	destCh := make(chan result, 1)

	go func() {
		state, err := r.PoolState(ctx, source)
		sourceCh <- result{state, err}
	}()
	go func() {
		state, err := r.PoolState(ctx, dest)
		destCh <- result{state, err}
	}()

	sourceRes := <-sourceCh
	destRes := <-destCh
	if sourceRes.err != nil {
		return model.PoolState{}, model.PoolState{}, fmt.Errorf("source pool: %w", sourceRes.err)
	}
	if destRes.err != nil {
		return model.PoolState{}, model.PoolState{}, fmt.Errorf("dest pool: %w", destRes.err)
	}
	return sourceRes.state, destRes.state, nil
}

// LPBalance reads the owner's LP balance for a pool from the AMM singleton.
func (r *Registry) LPBalance(ctx context.Context, owner common.Address, key amm.PoolKey) (*big.Int, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		return nil, fmt.Errorf("parse amm abi: %w", err)
	}
	poolID := new(big.Int).SetBytes(key.PoolID().Bytes())
	values, err := r.view(ctx, r.cfg.AMM, ammABI, "balanceOf", owner, poolID)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// CoinBalance reads the owner's balance of a registry coin.
func (r *Registry) CoinBalance(ctx context.Context, owner common.Address, coinID *big.Int) (*big.Int, error) {
	coinsABI, err := contracts.CoinsABI()
	if err != nil {
		return nil, fmt.Errorf("parse coins abi: %w", err)
	}
	values, err := r.view(ctx, r.cfg.Coins, coinsABI, "balanceOf", owner, coinID)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// IsOperator reads the registry's operator-approval flag for a spender,
// normally the AMM singleton spending the owner's coins.
func (r *Registry) IsOperator(ctx context.Context, owner, spender common.Address) (bool, error) {
	coinsABI, err := contracts.CoinsABI()
	if err != nil {
		return false, fmt.Errorf("parse coins abi: %w", err)
	}
	values, err := r.view(ctx, r.cfg.Coins, coinsABI, "isOperator", owner, spender)
	if err != nil {
		return false, err
	}
	flag, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unsupported isOperator type %T", values[0])
	}
	return flag, nil
}

// RequiredETH asks the liquidity helper for the exact single-sided provision
// split. The contract is authoritative; the client only previews.
func (r *Registry) RequiredETH(ctx context.Context, key amm.PoolKey, amount0Desired, amount1Desired *big.Int) (ethRequired, actual0, actual1 *big.Int, err error) {
	helperABI, err := contracts.HelperABI()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse helper abi: %w", err)
	}
	values, err := r.view(ctx, r.cfg.Helper, helperABI, "calculateRequiredETH", contracts.TuplePoolKey(key), amount0Desired, amount1Desired)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(values) != 3 {
		return nil, nil, nil, fmt.Errorf("calculateRequiredETH returned %d values", len(values))
	}
	if ethRequired, err = asBigInt(values[0]); err != nil {
		return nil, nil, nil, err
	}
	if actual0, err = asBigInt(values[1]); err != nil {
		return nil, nil, nil, err
	}
	if actual1, err = asBigInt(values[2]); err != nil {
		return nil, nil, nil, err
	}
	return ethRequired, actual0, actual1, nil
}

// view packs, calls, and unpacks one contract view with retry on transient
// failures.
func (r *Registry) view(ctx context.Context, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}

	var resp []byte
	err = withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = r.caller.CallContract(ctx, msg, nil)
		if callErr != nil {
			r.logger.Warn("view call failed", zap.String("method", method), zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
