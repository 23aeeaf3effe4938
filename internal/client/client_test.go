package client

import (
	"bytes"
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/asset"
	"github.com/NaniDAO/coinchan-sub010/internal/contracts"
	"github.com/NaniDAO/coinchan-sub010/internal/registry"
	"github.com/NaniDAO/coinchan-sub010/internal/swap"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

var (
	testAMM   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testCoins = common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
)

// fakeCaller answers view calls by selector.
type fakeCaller struct {
	t            *testing.T
	reserves     int64
	supply       int64
	balance      int64
	approved     bool
	requiredETH  int64
	balanceReads int
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	ammABI, err := contracts.AMMABI()
	if err != nil {
		f.t.Fatalf("amm abi: %v", err)
	}
	coinsABI, err := contracts.CoinsABI()
	if err != nil {
		f.t.Fatalf("coins abi: %v", err)
	}
	helperABI, err := contracts.HelperABI()
	if err != nil {
		f.t.Fatalf("helper abi: %v", err)
	}

	selector := msg.Data[:4]
	switch {
	case bytes.Equal(selector, ammABI.Methods["pools"].ID):
		out, err := ammABI.Methods["pools"].Outputs.Pack(
			big.NewInt(f.reserves), big.NewInt(f.reserves), uint32(0),
			new(big.Int), new(big.Int), new(big.Int), big.NewInt(f.supply),
		)
		if err != nil {
			f.t.Fatalf("pack pools: %v", err)
		}
		return out, nil
	// balanceOf(address,uint256) has the same selector on the AMM (LP
	// balances) and the coin registry.
	case bytes.Equal(selector, ammABI.Methods["balanceOf"].ID):
		f.balanceReads++
		out, _ := ammABI.Methods["balanceOf"].Outputs.Pack(big.NewInt(f.balance))
		return out, nil
	case bytes.Equal(selector, coinsABI.Methods["isOperator"].ID):
		out, _ := coinsABI.Methods["isOperator"].Outputs.Pack(f.approved)
		return out, nil
	case bytes.Equal(selector, coinsABI.Methods["decimals"].ID):
		out, _ := coinsABI.Methods["decimals"].Outputs.Pack(uint8(18))
		return out, nil
	case bytes.Equal(selector, coinsABI.Methods["symbol"].ID):
		out, _ := coinsABI.Methods["symbol"].Outputs.Pack("TST")
		return out, nil
	case bytes.Equal(selector, coinsABI.Methods["name"].ID):
		out, _ := coinsABI.Methods["name"].Outputs.Pack("Test Coin")
		return out, nil
	case bytes.Equal(selector, helperABI.Methods["calculateRequiredETH"].ID):
		out, _ := helperABI.Methods["calculateRequiredETH"].Outputs.Pack(
			big.NewInt(f.requiredETH), big.NewInt(f.requiredETH), big.NewInt(10),
		)
		return out, nil
	default:
		f.t.Fatalf("unexpected selector %x", selector)
		return nil, nil
	}
}

type fakeWallet struct {
	sent []wallet.TxRequest
	from *common.Address
}

func (f *fakeWallet) From() common.Address {
	if f.from != nil {
		return *f.from
	}
	return common.Address{0xAA}
}

func (f *fakeWallet) SendTransaction(_ context.Context, req wallet.TxRequest) (common.Hash, error) {
	f.sent = append(f.sent, req)
	return common.BytesToHash([]byte{byte(len(f.sent))}), nil
}

func (f *fakeWallet) WaitMined(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash}, nil
}

func newTestClient(t *testing.T, caller *fakeCaller, w wallet.Wallet) *Client {
	t.Helper()
	regCfg := registry.Config{AMM: testAMM, Coins: testCoins, RetryBackoff: time.Millisecond}
	reg := registry.New(regCfg, caller, zap.NewNop())
	cfg := Config{
		AMM:            testAMM,
		Coins:          testCoins,
		DefaultFeeBps:  100,
		SlippageBps:    50,
		DeadlineWindow: 20 * time.Minute,
	}
	return New(cfg, nil, reg, w, nil, nil, zap.NewNop())
}

func TestSwapCoinToCoinSubmitsMulticallAfterApproval(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 1_000_000, approved: false}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, preview, err := c.Swap(context.Background(), asset.Coin(big.NewInt(1)), asset.Coin(big.NewInt(2)), big.NewInt(10))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if result.State != swap.StateSucceeded {
		t.Fatalf("state = %s: %+v", result.State, result.Failure)
	}

	if preview.Route == nil || !preview.Route.Viable() {
		t.Fatalf("expected a viable two-hop route")
	}

	// Operator was not approved: the approval precedes the multicall.
	if len(w.sent) != 2 {
		t.Fatalf("sent %d transactions, want 2", len(w.sent))
	}
	if w.sent[0].To != testCoins {
		t.Fatalf("approval target = %s, want coins registry", w.sent[0].To.Hex())
	}

	ammABI, _ := contracts.AMMABI()
	if !bytes.Equal(w.sent[1].Data[:4], ammABI.Methods["multicall"].ID) {
		t.Fatalf("primary call is not a multicall")
	}
}

func TestSwapSkipsApprovalWhenAlreadyOperator(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 1_000_000, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, _, err := c.Swap(context.Background(), asset.Coin(big.NewInt(1)), asset.NativeAsset(), big.NewInt(10))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if result.State != swap.StateSucceeded {
		t.Fatalf("state = %s: %+v", result.State, result.Failure)
	}
	if len(w.sent) != 1 {
		t.Fatalf("sent %d transactions, want 1", len(w.sent))
	}
}

func TestSwapBlocksOnEmptyPool(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 0, supply: 0, balance: 1_000_000, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, _, err := c.Swap(context.Background(), asset.Coin(big.NewInt(1)), asset.Coin(big.NewInt(2)), big.NewInt(10))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if result.State != swap.StateFailed || result.Failure == nil {
		t.Fatalf("expected validation failure, got %+v", result)
	}
	if result.Failure.Class != swap.FailureValidation {
		t.Fatalf("class = %d, want validation", result.Failure.Class)
	}
	if len(w.sent) != 0 {
		t.Fatalf("dead route reached the network")
	}
}

func TestSwapRejectsSameAsset(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 1_000_000, approved: true}
	c := newTestClient(t, caller, &fakeWallet{})

	if _, _, err := c.Swap(context.Background(), asset.Coin(big.NewInt(1)), asset.Coin(big.NewInt(1)), big.NewInt(10)); err == nil {
		t.Fatalf("expected same-asset error")
	}
}

func TestSwapRejectsInsufficientCoinBalance(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 5, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, _, err := c.Swap(context.Background(), asset.Coin(big.NewInt(1)), asset.NativeAsset(), big.NewInt(10))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if result.State != swap.StateFailed || result.Failure.Class != swap.FailurePreflight {
		t.Fatalf("expected preflight failure, got %+v", result)
	}
	if len(w.sent) != 0 {
		t.Fatalf("insufficient balance reached the network")
	}
}

func TestRemoveLiquidityPreview(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 10_000, supply: 1000, balance: 500, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, preview, err := c.RemoveLiquidity(context.Background(), big.NewInt(1), big.NewInt(100))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if result.State != swap.StateSucceeded {
		t.Fatalf("state = %s: %+v", result.State, result.Failure)
	}

	// 100/1000 of each 10000 reserve.
	if preview.Amount0.Cmp(big.NewInt(1000)) != 0 || preview.Amount1.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("preview = %s, %s, want 1000, 1000", preview.Amount0, preview.Amount1)
	}
	if preview.Amount0Min.Cmp(big.NewInt(995)) != 0 {
		t.Fatalf("min = %s, want 995", preview.Amount0Min)
	}
}

func TestRemoveLiquidityInsufficientLP(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 10_000, supply: 1000, balance: 50, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	result, _, err := c.RemoveLiquidity(context.Background(), big.NewInt(1), big.NewInt(100))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if result.State != swap.StateFailed || result.Failure.Class != swap.FailurePreflight {
		t.Fatalf("expected preflight failure, got %+v", result)
	}
	if len(w.sent) != 0 {
		t.Fatalf("insufficient LP reached the network")
	}
}

// fakeChain answers the direct node reads.
type fakeChain struct {
	chainID *big.Int
	balance *big.Int
	reads   int
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	if f.chainID == nil {
		return big.NewInt(1), nil
	}
	return f.chainID, nil
}

func (f *fakeChain) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	f.reads++
	return f.balance, nil
}

func TestAddLiquidityBlocksUnaffordableNativeSide(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 10_000, supply: 1000, balance: 1_000_000, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)
	chain := &fakeChain{balance: big.NewInt(1)}
	c.chain = chain

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	result, _, err := c.AddLiquidity(context.Background(), big.NewInt(1), huge, big.NewInt(10))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.State != swap.StateFailed || result.Failure == nil {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Failure.Class != swap.FailurePreflight {
		t.Fatalf("class = %d, want preflight", result.Failure.Class)
	}
	if chain.reads == 0 {
		t.Fatalf("ETH balance was never read")
	}
	if len(w.sent) != 0 {
		t.Fatalf("unaffordable provision reached the network")
	}
}

func TestAddLiquiditySingleSidedChecksRequiredETH(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 10_000, supply: 1000, balance: 1_000_000, approved: true, requiredETH: 5_000}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)
	chain := &fakeChain{balance: big.NewInt(100)}
	c.chain = chain

	result, preview, err := c.AddLiquiditySingleSided(context.Background(), big.NewInt(1), big.NewInt(10))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if preview.Amount0.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("required eth = %s, want 5000", preview.Amount0)
	}
	if result.State != swap.StateFailed || result.Failure.Class != swap.FailurePreflight {
		t.Fatalf("expected preflight failure, got %+v", result)
	}
	if len(w.sent) != 0 {
		t.Fatalf("unaffordable provision reached the network")
	}
}

func TestSwapBlocksOnWrongNetwork(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 1_000_000, approved: true}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)
	c.cfg.ChainID = 8453
	c.chain = &fakeChain{chainID: big.NewInt(1)}

	result, _, err := c.Swap(context.Background(), asset.NativeAsset(), asset.Coin(big.NewInt(1)), big.NewInt(10))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if result.State != swap.StateFailed || result.Failure.Class != swap.FailurePreflight {
		t.Fatalf("expected preflight failure, got %+v", result)
	}
	if len(w.sent) != 0 {
		t.Fatalf("wrong-network operation reached the network")
	}
}

func TestLoadTokensSkipsBalancesWithoutSender(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 77}
	w := &fakeWallet{from: &common.Address{}}
	c := newTestClient(t, caller, w)

	metas, err := c.LoadTokens(context.Background(), []*big.Int{big.NewInt(1)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d metas, want 1", len(metas))
	}
	if metas[0].Balance != nil || metas[0].LPBalance != nil {
		t.Fatalf("balances patched without a sender: %+v", metas[0])
	}
	if caller.balanceReads != 0 {
		t.Fatalf("issued %d balance reads for the zero address", caller.balanceReads)
	}
}

func TestLoadTokensPatchesBalancesForSender(t *testing.T) {
	caller := &fakeCaller{t: t, reserves: 1000, supply: 5000, balance: 77}
	w := &fakeWallet{}
	c := newTestClient(t, caller, w)

	metas, err := c.LoadTokens(context.Background(), []*big.Int{big.NewInt(1)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if metas[0].Balance == nil || metas[0].Balance.Cmp(big.NewInt(77)) != 0 {
		t.Fatalf("balance = %v, want 77", metas[0].Balance)
	}
	if caller.balanceReads == 0 {
		t.Fatalf("no balance reads issued for a configured sender")
	}
}
