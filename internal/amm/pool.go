package amm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PoolKey is the canonical pool identity tuple. Pools pairing a registry coin
// against the native asset keep the native side in the zero slots: id0 is 0
// and token0 is the zero address.
type PoolKey struct {
	ID0     *big.Int
	ID1     *big.Int
	Token0  common.Address
	Token1  common.Address
	SwapFee *big.Int
}

// NewCoinPoolKey builds the pool key for a coin/native pool. coinID keys the
// coin inside the registry contract at coinsContract.
func NewCoinPoolKey(coinID *big.Int, feeBps uint64, coinsContract common.Address) (PoolKey, error) {
	if coinID == nil || coinID.Sign() < 0 {
		return PoolKey{}, fmt.Errorf("invalid coin id")
	}
	if feeBps >= BpsDenominator {
		return PoolKey{}, fmt.Errorf("swap fee %d out of range", feeBps)
	}
	return PoolKey{
		ID0:     new(big.Int),
		ID1:     new(big.Int).Set(coinID),
		Token0:  common.Address{},
		Token1:  coinsContract,
		SwapFee: new(big.Int).SetUint64(feeBps),
	}, nil
}

// PoolID derives the 256-bit pool identifier the AMM contract uses for
// storage lookups: keccak256 over the ABI encoding of the key tuple
// (uint256 id0, uint256 id1, address token0, address token1, uint96 swapFee).
// Field order and 32-byte word padding must match the contract exactly.
func (k PoolKey) PoolID() common.Hash {
	encoded := make([]byte, 0, 5*32)
	encoded = append(encoded, common.LeftPadBytes(bigBytes(k.ID0), 32)...)
	encoded = append(encoded, common.LeftPadBytes(bigBytes(k.ID1), 32)...)
	encoded = append(encoded, common.LeftPadBytes(k.Token0.Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(k.Token1.Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(bigBytes(k.SwapFee), 32)...)
	return crypto.Keccak256Hash(encoded)
}

// FeeBps returns the swap fee in basis points.
func (k PoolKey) FeeBps() uint64 {
	if k.SwapFee == nil {
		return 0
	}
	return k.SwapFee.Uint64()
}

func bigBytes(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}
