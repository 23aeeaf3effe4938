package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/contracts"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
)

// coinData mirrors the helper contract's CoinData tuple for abi conversion.
type coinData struct {
	CoinId    *big.Int
	Name      string
	Symbol    string
	Decimals  uint8
	Reserve0  *big.Int
	Reserve1  *big.Int
	PoolId    *big.Int
	Liquidity *big.Int
}

// FetchTokenMetas loads descriptive records for the given coin ids, trying
// the batched metadata helper first and falling back to individual registry
// and pool reads when the helper is unavailable. defaultFeeBps selects the
// canonical pool in the fallback path.
func (r *Registry) FetchTokenMetas(ctx context.Context, ids []*big.Int, defaultFeeBps uint64) ([]model.TokenMeta, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	metas, err := r.fetchBatched(ctx, ids)
	if err == nil {
		return metas, nil
	}
	r.logger.Debug("batched metadata fetch failed, using individual reads", zap.Error(err))

	return r.fetchIndividually(ctx, ids, defaultFeeBps)
}

func (r *Registry) fetchBatched(ctx context.Context, ids []*big.Int) ([]model.TokenMeta, error) {
	if r.cfg.Helper == (common.Address{}) {
		return nil, fmt.Errorf("metadata helper not configured")
	}

	helperABI, err := contracts.HelperABI()
	if err != nil {
		return nil, fmt.Errorf("parse helper abi: %w", err)
	}

	values, err := r.view(ctx, r.cfg.Helper, helperABI, "getCoinsData", ids)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("getCoinsData returned %d values", len(values))
	}

	coins := *abi.ConvertType(values[0], new([]coinData)).(*[]coinData)
	metas := make([]model.TokenMeta, 0, len(coins))
	for _, coin := range coins {
		metas = append(metas, model.TokenMeta{
			CoinID:    coin.CoinId,
			Symbol:    coin.Symbol,
			Name:      coin.Name,
			Decimals:  coin.Decimals,
			PoolID:    common.BigToHash(coin.PoolId).Hex(),
			Reserve0:  coin.Reserve0,
			Reserve1:  coin.Reserve1,
			Liquidity: coin.Liquidity,
		})
	}
	return metas, nil
}

func (r *Registry) fetchIndividually(ctx context.Context, ids []*big.Int, defaultFeeBps uint64) ([]model.TokenMeta, error) {
	coinsABI, err := contracts.CoinsABI()
	if err != nil {
		return nil, fmt.Errorf("parse coins abi: %w", err)
	}

	metas := make([]model.TokenMeta, 0, len(ids))
	for _, id := range ids {
		meta := model.TokenMeta{CoinID: new(big.Int).Set(id)}

		values, err := r.view(ctx, r.cfg.Coins, coinsABI, "decimals", id)
		if err != nil {
			return nil, fmt.Errorf("coin %s decimals: %w", id, err)
		}
		decimals, err := asUint8(values[0])
		if err != nil {
			return nil, fmt.Errorf("coin %s decimals: %w", id, err)
		}
		meta.Decimals = decimals

		// Symbol and name are descriptive only; missing values are tolerated.
		if values, err := r.view(ctx, r.cfg.Coins, coinsABI, "symbol", id); err == nil {
			if symbol, ok := values[0].(string); ok {
				meta.Symbol = symbol
			}
		} else {
			r.logger.Debug("symbol call failed", zap.String("coin", id.String()), zap.Error(err))
		}
		if values, err := r.view(ctx, r.cfg.Coins, coinsABI, "name", id); err == nil {
			if name, ok := values[0].(string); ok {
				meta.Name = name
			}
		} else {
			r.logger.Debug("name call failed", zap.String("coin", id.String()), zap.Error(err))
		}

		key, err := amm.NewCoinPoolKey(id, defaultFeeBps, r.cfg.Coins)
		if err != nil {
			return nil, fmt.Errorf("coin %s pool key: %w", id, err)
		}
		state, err := r.PoolState(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("coin %s pool state: %w", id, err)
		}
		meta.PoolID = key.PoolID().Hex()
		meta.Reserve0 = state.Reserve0
		meta.Reserve1 = state.Reserve1
		meta.Liquidity = state.TotalSupply

		metas = append(metas, meta)
	}
	return metas, nil
}

// OwnerBalances decorates metadata records with the owner's coin and LP
// balances. The input slice is not modified; a patched copy is returned so
// the cache can be replaced wholesale.
func (r *Registry) OwnerBalances(ctx context.Context, owner common.Address, metas []model.TokenMeta, defaultFeeBps uint64) ([]model.TokenMeta, error) {
	patched := make([]model.TokenMeta, len(metas))
	copy(patched, metas)

	for i := range patched {
		if patched[i].CoinID == nil {
			continue
		}
		balance, err := r.CoinBalance(ctx, owner, patched[i].CoinID)
		if err != nil {
			return nil, fmt.Errorf("coin %s balance: %w", patched[i].CoinID, err)
		}
		patched[i].Balance = balance

		key, err := amm.NewCoinPoolKey(patched[i].CoinID, defaultFeeBps, r.cfg.Coins)
		if err != nil {
			return nil, fmt.Errorf("coin %s pool key: %w", patched[i].CoinID, err)
		}
		lpBalance, err := r.LPBalance(ctx, owner, key)
		if err != nil {
			return nil, fmt.Errorf("coin %s lp balance: %w", patched[i].CoinID, err)
		}
		patched[i].LPBalance = lpBalance
	}
	return patched, nil
}
