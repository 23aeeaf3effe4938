package model

import "math/big"

// ReserveState is a point-in-time snapshot of a pool's two reserves.
// Reserve0 is always the native side, reserve1 the coin side.
type ReserveState struct {
	Reserve0 *big.Int `json:"reserve0"`
	Reserve1 *big.Int `json:"reserve1"`
}

// Empty reports whether either side of the pool holds nothing. Pricing an
// empty pool always quotes zero.
func (r ReserveState) Empty() bool {
	return r.Reserve0 == nil || r.Reserve1 == nil || r.Reserve0.Sign() == 0 || r.Reserve1.Sign() == 0
}

// PoolState extends the reserve snapshot with the LP supply read from the
// same pools() call.
type PoolState struct {
	ReserveState
	TotalSupply *big.Int `json:"total_supply"`
}
