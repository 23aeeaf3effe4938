package asset

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind discriminates the two asset families the AMM trades.
type Kind int

const (
	// Native is the chain's native asset (ETH side of every pool).
	Native Kind = iota
	// Fungible is a coin held by the multi-token registry, keyed by id.
	Fungible
)

// Asset identifies either the native asset or a registry coin.
// The zero value is the native asset.
type Asset struct {
	kind Kind
	id   *big.Int
}

// NativeAsset returns the native-asset value.
func NativeAsset() Asset {
	return Asset{kind: Native}
}

// Coin returns a fungible asset for the given registry id.
func Coin(id *big.Int) Asset {
	return Asset{kind: Fungible, id: new(big.Int).Set(id)}
}

// Kind reports which family the asset belongs to.
func (a Asset) Kind() Kind {
	return a.kind
}

// IsNative reports whether the asset is the chain's native asset.
func (a Asset) IsNative() bool {
	return a.kind == Native
}

// ID returns the registry id for fungible assets and zero for the native asset.
func (a Asset) ID() *big.Int {
	if a.kind == Native || a.id == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.id)
}

// Equal reports whether two assets identify the same coin.
func (a Asset) Equal(other Asset) bool {
	if a.kind != other.kind {
		return false
	}
	if a.kind == Native {
		return true
	}
	return a.ID().Cmp(other.ID()) == 0
}

func (a Asset) String() string {
	if a.kind == Native {
		return "eth"
	}
	return "coin:" + a.ID().String()
}

// Parse converts a CLI/config token into an Asset. Accepted forms are
// "eth" for the native asset and a decimal coin id (optionally prefixed
// with "coin:").
func Parse(input string) (Asset, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return Asset{}, fmt.Errorf("empty asset")
	}
	if input == "eth" || input == "native" {
		return NativeAsset(), nil
	}
	input = strings.TrimPrefix(input, "coin:")
	id, ok := new(big.Int).SetString(input, 10)
	if !ok || id.Sign() < 0 {
		return Asset{}, fmt.Errorf("invalid coin id: %s", input)
	}
	return Coin(id), nil
}
