package model

import "math/big"

// TokenMeta is the descriptive record for one tradable asset. CoinID is nil
// for the native asset. Records are built wholesale per metadata fetch and
// replaced on refresh; only balances are patched after a confirmed
// transaction.
type TokenMeta struct {
	CoinID    *big.Int `json:"coin_id,omitempty"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Decimals  uint8    `json:"decimals"`
	PoolID    string   `json:"pool_id,omitempty"`
	Reserve0  *big.Int `json:"reserve0,omitempty"`
	Reserve1  *big.Int `json:"reserve1,omitempty"`
	Liquidity *big.Int `json:"liquidity,omitempty"`
	Balance   *big.Int `json:"balance,omitempty"`
	LPBalance *big.Int `json:"lp_balance,omitempty"`
}
