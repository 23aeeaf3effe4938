package amm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPoolIDKnownVectors(t *testing.T) {
	coins := common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")

	cases := []struct {
		name   string
		coinID *big.Int
		feeBps uint64
		coins  common.Address
		want   string
	}{
		{"coin 1 fee 100", big.NewInt(1), 100, coins, "0xf35e5210e853f8449d85b482e350008a125860b98212ca68b545cc51f43b6e66"},
		{"coin 42 fee 100", big.NewInt(42), 100, coins, "0xa954be0675eb89a729ab76ea3b5b074f868ac8376c99debcabf41e2b3a574b14"},
		{"coin 42 fee 30", big.NewInt(42), 30, coins, "0x39b7920c6e9eb6fc91515939c9e9af617e1269ba0e67774b682411481cd4b99f"},
		{"high-bit coin id", new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(7)), 100, coins, "0xad81f3feaa6f21d4b3b0ec8638bc4c35492a93c133afdea13713170ee8d60e5e"},
		{"other registry", big.NewInt(1), 100, common.HexToAddress("0xCCCCcCCcCCCCcCCCcCcccCcccCcCCcCCCcCccccC"), "0xf9959e4004e014eac6dcdce905e418120edfca6b0bfa22c7520b4a077eab2ae8"},
	}

	for _, tc := range cases {
		key, err := NewCoinPoolKey(tc.coinID, tc.feeBps, tc.coins)
		if err != nil {
			t.Fatalf("%s: key: %v", tc.name, err)
		}
		got := key.PoolID()
		if got != common.HexToHash(tc.want) {
			t.Fatalf("%s: pool id = %s, want %s", tc.name, got.Hex(), tc.want)
		}
	}
}

func TestPoolIDDeterministic(t *testing.T) {
	coins := common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
	key1, err := NewCoinPoolKey(big.NewInt(7), 30, coins)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	key2, err := NewCoinPoolKey(big.NewInt(7), 30, coins)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if key1.PoolID() != key2.PoolID() {
		t.Fatalf("pool id not deterministic: %s != %s", key1.PoolID().Hex(), key2.PoolID().Hex())
	}
}

func TestPoolIDSensitivity(t *testing.T) {
	coins := common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
	base, _ := NewCoinPoolKey(big.NewInt(5), 100, coins)

	otherCoin, _ := NewCoinPoolKey(big.NewInt(6), 100, coins)
	if base.PoolID() == otherCoin.PoolID() {
		t.Fatalf("coin id change did not move the pool id")
	}

	otherFee, _ := NewCoinPoolKey(big.NewInt(5), 101, coins)
	if base.PoolID() == otherFee.PoolID() {
		t.Fatalf("fee change did not move the pool id")
	}
}

func TestNewCoinPoolKeyNormalizesNativeSide(t *testing.T) {
	coins := common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
	key, err := NewCoinPoolKey(big.NewInt(9), 100, coins)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if key.ID0.Sign() != 0 {
		t.Fatalf("id0 = %s, want 0", key.ID0)
	}
	if key.Token0 != (common.Address{}) {
		t.Fatalf("token0 = %s, want zero address", key.Token0.Hex())
	}
}

func TestNewCoinPoolKeyRejectsBadFee(t *testing.T) {
	coins := common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
	if _, err := NewCoinPoolKey(big.NewInt(1), BpsDenominator, coins); err == nil {
		t.Fatalf("expected error for 100%% fee")
	}
}
