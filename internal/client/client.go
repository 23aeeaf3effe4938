package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/amm"
	"github.com/NaniDAO/coinchan-sub010/internal/asset"
	"github.com/NaniDAO/coinchan-sub010/internal/model"
	"github.com/NaniDAO/coinchan-sub010/internal/quote"
	"github.com/NaniDAO/coinchan-sub010/internal/registry"
	"github.com/NaniDAO/coinchan-sub010/internal/router"
	"github.com/NaniDAO/coinchan-sub010/internal/storage"
	"github.com/NaniDAO/coinchan-sub010/internal/swap"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// Config holds the knobs every operation shares. All values are explicit;
// the pricing core never reads globals.
type Config struct {
	AMM            common.Address
	Coins          common.Address
	ChainID        uint64
	DefaultFeeBps  uint64
	SlippageBps    uint64
	DeadlineWindow time.Duration
}

// ChainReader is the node surface the client reads directly: the connected
// chain's id and native balances.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
}

// Client orchestrates quoting, assembly, and the transaction state machine
// for one wallet. It holds no funds and finalizes nothing; the contracts do.
type Client struct {
	cfg       Config
	chain     ChainReader
	registry  *registry.Registry
	assembler *swap.Assembler
	wallet    wallet.Wallet
	cache     *registry.TokenCache
	sink      storage.Storage
	quotes    *quote.Session
	logger    *zap.Logger
}

// New builds a Client with its dependencies. sink may be nil to skip
// activity recording; cache may be nil to skip token-list maintenance.
func New(cfg Config, chainClient ChainReader, reg *registry.Registry, w wallet.Wallet, cache *registry.TokenCache, sink storage.Storage, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:       cfg,
		chain:     chainClient,
		registry:  reg,
		assembler: swap.NewAssembler(cfg.AMM, cfg.Coins),
		wallet:    w,
		cache:     cache,
		sink:      sink,
		quotes:    quote.NewSession(),
		logger:    logger,
	}
}

// SwapPreview is the quoting result for any swap shape. Route is set only
// for coin-to-coin swaps.
type SwapPreview struct {
	Quote      model.SwapQuote
	Route      *router.RouteQuote
	SourceKey  amm.PoolKey
	DestKey    *amm.PoolKey
	ZeroForOne bool
}

// QuoteSwap prices a swap between any two assets. Coin-to-coin pairs route
// through the native asset with both pool snapshots read concurrently. A
// second call while one is in flight cancels the first; the superseded call
// returns quote.ErrSuperseded and its result must not be applied.
func (c *Client) QuoteSwap(ctx context.Context, from, to asset.Asset, amountIn *big.Int) (SwapPreview, error) {
	if from.Equal(to) {
		return SwapPreview{}, fmt.Errorf("cannot swap an asset for itself")
	}

	ctx, latest := c.quotes.Begin(ctx)
	preview, err := c.quoteSwap(ctx, from, to, amountIn)
	if err != nil {
		return SwapPreview{}, err
	}
	if !latest() {
		return SwapPreview{}, quote.ErrSuperseded
	}
	return preview, nil
}

func (c *Client) quoteSwap(ctx context.Context, from, to asset.Asset, amountIn *big.Int) (SwapPreview, error) {
	switch {
	case from.IsNative():
		key, err := amm.NewCoinPoolKey(to.ID(), c.cfg.DefaultFeeBps, c.cfg.Coins)
		if err != nil {
			return SwapPreview{}, err
		}
		state, err := c.registry.PoolState(ctx, key)
		if err != nil {
			return SwapPreview{}, err
		}
		quote := router.EstimateExactIn(amountIn, state.ReserveState, key.FeeBps(), c.cfg.SlippageBps, false)
		return SwapPreview{Quote: quote, SourceKey: key, ZeroForOne: true}, nil

	case to.IsNative():
		key, err := amm.NewCoinPoolKey(from.ID(), c.cfg.DefaultFeeBps, c.cfg.Coins)
		if err != nil {
			return SwapPreview{}, err
		}
		state, err := c.registry.PoolState(ctx, key)
		if err != nil {
			return SwapPreview{}, err
		}
		quote := router.EstimateExactIn(amountIn, state.ReserveState, key.FeeBps(), c.cfg.SlippageBps, true)
		return SwapPreview{Quote: quote, SourceKey: key, ZeroForOne: false}, nil

	default:
		sourceKey, err := amm.NewCoinPoolKey(from.ID(), c.cfg.DefaultFeeBps, c.cfg.Coins)
		if err != nil {
			return SwapPreview{}, err
		}
		destKey, err := amm.NewCoinPoolKey(to.ID(), c.cfg.DefaultFeeBps, c.cfg.Coins)
		if err != nil {
			return SwapPreview{}, err
		}
		sourceState, destState, err := c.registry.PoolStatePair(ctx, sourceKey, destKey)
		if err != nil {
			return SwapPreview{}, err
		}
		route := router.EstimateCoinToCoin(amountIn, sourceState.ReserveState, destState.ReserveState, sourceKey.FeeBps(), destKey.FeeBps(), c.cfg.SlippageBps)
		preview := SwapPreview{
			Quote: model.SwapQuote{
				AmountIn:     amountIn,
				AmountOut:    route.AmountOut,
				MinAmountOut: route.WithSlippage,
			},
			Route:     &route,
			SourceKey: sourceKey,
			DestKey:   &destKey,
		}
		return preview, nil
	}
}

// checkNetwork rejects operation flows on an unexpected chain.
func (c *Client) checkNetwork(ctx context.Context) error {
	if c.cfg.ChainID == 0 || c.chain == nil {
		return nil
	}
	chainID, err := c.chain.ChainID(ctx)
	if err != nil {
		return swap.Failure{Class: swap.FailurePreflight, Message: "cannot read chain id", Err: err}
	}
	if !chainID.IsUint64() || chainID.Uint64() != c.cfg.ChainID {
		return swap.Failure{
			Class:   swap.FailurePreflight,
			Message: fmt.Sprintf("wrong network: connected to chain %s, expected %d", chainID, c.cfg.ChainID),
		}
	}
	return nil
}

// checkSpendable verifies the sender can cover amountIn of the given asset.
func (c *Client) checkSpendable(ctx context.Context, spend asset.Asset, amountIn *big.Int) error {
	owner := c.wallet.From()
	if spend.IsNative() {
		if c.chain == nil {
			return nil
		}
		balance, err := c.chain.BalanceAt(ctx, owner)
		if err != nil {
			return swap.Failure{Class: swap.FailurePreflight, Message: "cannot read ETH balance", Err: err}
		}
		if balance.Cmp(amountIn) < 0 {
			return swap.Failure{Class: swap.FailurePreflight, Message: "insufficient ETH balance"}
		}
		return nil
	}

	balance, err := c.registry.CoinBalance(ctx, owner, spend.ID())
	if err != nil {
		return swap.Failure{Class: swap.FailurePreflight, Message: "cannot read coin balance", Err: err}
	}
	if balance.Cmp(amountIn) < 0 {
		return swap.Failure{Class: swap.FailurePreflight, Message: "insufficient coin balance"}
	}
	return nil
}

// coinApproval returns the Plan hooks for operator approval when a registry
// coin is being spent. The approval is granted to the AMM singleton on the
// registry and persists for future operations.
func (c *Client) coinApproval() (func(ctx context.Context) (bool, error), func() (wallet.TxRequest, error)) {
	needs := func(ctx context.Context) (bool, error) {
		approved, err := c.registry.IsOperator(ctx, c.wallet.From(), c.cfg.AMM)
		if err != nil {
			return false, fmt.Errorf("read operator flag: %w", err)
		}
		return !approved, nil
	}
	build := func() (wallet.TxRequest, error) {
		return c.assembler.SetOperator(c.cfg.AMM, true)
	}
	return needs, build
}

// recordActivity hands a confirmed operation to the activity sink and
// refreshes the shared token cache wholesale.
func (c *Client) recordActivity(ctx context.Context, record model.ActivityRecord) {
	record.RecordedAt = time.Now().UTC().Format(time.RFC3339Nano)
	record.ChainID = c.cfg.ChainID
	record.Owner = c.wallet.From().Hex()

	if c.sink != nil {
		if err := c.sink.PutActivityBatch([]model.ActivityRecord{record}); err != nil {
			c.logger.Warn("record activity", zap.Error(err))
		}
	}

	c.refreshCache(ctx)
}

// refreshCache re-reads every cached token and replaces the list wholesale.
// Read-after-write refresh keeps cached balances aligned with chain truth.
func (c *Client) refreshCache(ctx context.Context) {
	if c.cache == nil || c.cache.Len() == 0 {
		return
	}

	metas := c.cache.Snapshot()
	ids := make([]*big.Int, 0, len(metas))
	for _, meta := range metas {
		if meta.CoinID != nil {
			ids = append(ids, meta.CoinID)
		}
	}
	if len(ids) == 0 {
		return
	}

	fresh, err := c.registry.FetchTokenMetas(ctx, ids, c.cfg.DefaultFeeBps)
	if err != nil {
		c.logger.Warn("token cache refresh failed", zap.Error(err))
		return
	}
	fresh, err = c.registry.OwnerBalances(ctx, c.wallet.From(), fresh, c.cfg.DefaultFeeBps)
	if err != nil {
		c.logger.Warn("balance refresh failed", zap.Error(err))
		return
	}
	c.cache.Replace(fresh)
}

// LoadTokens fetches metadata for the given coin ids and installs the
// records in the shared cache. Owner balances are patched in only when the
// wallet has a configured sender.
func (c *Client) LoadTokens(ctx context.Context, ids []*big.Int) ([]model.TokenMeta, error) {
	metas, err := c.registry.FetchTokenMetas(ctx, ids, c.cfg.DefaultFeeBps)
	if err != nil {
		return nil, err
	}
	if owner := c.wallet.From(); owner != (common.Address{}) {
		metas, err = c.registry.OwnerBalances(ctx, owner, metas, c.cfg.DefaultFeeBps)
		if err != nil {
			return nil, err
		}
	}
	if c.cache != nil {
		c.cache.Replace(metas)
	}
	return metas, nil
}

func (c *Client) newRunner() *swap.Runner {
	return swap.NewRunner(c.wallet, c.cfg.DeadlineWindow, c.logger)
}

func coinAsset(id *big.Int) asset.Asset {
	return asset.Coin(id)
}
