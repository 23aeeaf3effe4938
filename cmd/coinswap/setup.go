package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/chain"
	"github.com/NaniDAO/coinchan-sub010/internal/client"
	"github.com/NaniDAO/coinchan-sub010/internal/config"
	"github.com/NaniDAO/coinchan-sub010/internal/registry"
	"github.com/NaniDAO/coinchan-sub010/internal/storage"
	"github.com/NaniDAO/coinchan-sub010/internal/storage/postgres"
	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// toolkit bundles everything a command needs after setup.
type toolkit struct {
	cfg     config.Config
	logger  *zap.Logger
	chain   *chain.Client
	client  *client.Client
	cleanup func()
}

func setup(ctx context.Context, cmd *cobra.Command, needsSender bool) (*toolkit, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	ammAddress, err := parseAddress(cfg.AMMAddress, "amm")
	if err != nil {
		return nil, err
	}
	coinsAddress, err := parseAddress(cfg.CoinsAddress, "coins")
	if err != nil {
		return nil, err
	}
	var helperAddress common.Address
	if cfg.HelperAddress != "" {
		helperAddress, err = parseAddress(cfg.HelperAddress, "helper")
		if err != nil {
			return nil, err
		}
	}
	var fromAddress common.Address
	if needsSender || cfg.From != "" {
		fromAddress, err = parseAddress(cfg.From, "from")
		if err != nil {
			return nil, err
		}
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	cleanup := func() {
		chainClient.Close()
		logger.Sync()
	}

	reg := registry.New(registry.Config{
		AMM:          ammAddress,
		Coins:        coinsAddress,
		Helper:       helperAddress,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, logger)

	w := wallet.NewNodeWallet(chainClient.RPC(), chainClient, fromAddress, logger)

	var sink storage.Storage
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		prev := cleanup
		cleanup = func() {
			store.Close()
			prev()
		}
		sink = store
	} else if cfg.ActivityOut != "" {
		sink = storage.NewJsonlStorage(cfg.ActivityOut)
	}

	c := client.New(client.Config{
		AMM:            ammAddress,
		Coins:          coinsAddress,
		ChainID:        cfg.ChainID,
		DefaultFeeBps:  cfg.FeeBps,
		SlippageBps:    cfg.SlippageBps,
		DeadlineWindow: cfg.DeadlineWindow,
	}, chainClient, reg, w, registry.NewTokenCache(), sink, logger)

	return &toolkit{
		cfg:     cfg,
		logger:  logger,
		chain:   chainClient,
		client:  c,
		cleanup: cleanup,
	}, nil
}

func parseAddress(input, name string) (common.Address, error) {
	if input == "" {
		return common.Address{}, fmt.Errorf("%s address is required", name)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, input)
	}
	return common.HexToAddress(input), nil
}

func parseAmount(input, name string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(input, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s amount: %s", name, input)
	}
	return amount, nil
}
