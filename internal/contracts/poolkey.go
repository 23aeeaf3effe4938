package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
)

// ABIPoolKey mirrors the on-chain PoolKey struct for abi argument packing.
// Field names follow the ABI component names.
type ABIPoolKey struct {
	Id0     *big.Int
	Id1     *big.Int
	Token0  common.Address
	Token1  common.Address
	SwapFee *big.Int
}

// TuplePoolKey converts a pool key into its ABI tuple representation.
func TuplePoolKey(k amm.PoolKey) ABIPoolKey {
	id0 := k.ID0
	if id0 == nil {
		id0 = new(big.Int)
	}
	id1 := k.ID1
	if id1 == nil {
		id1 = new(big.Int)
	}
	fee := k.SwapFee
	if fee == nil {
		fee = new(big.Int)
	}
	return ABIPoolKey{
		Id0:     new(big.Int).Set(id0),
		Id1:     new(big.Int).Set(id1),
		Token0:  k.Token0,
		Token1:  k.Token1,
		SwapFee: new(big.Int).Set(fee),
	}
}
