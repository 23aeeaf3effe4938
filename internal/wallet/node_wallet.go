package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// receiptPollInterval paces WaitMined receipt lookups.
const receiptPollInterval = 2 * time.Second

// NodeWallet sends transactions through eth_sendTransaction against an
// account the connected node (or wallet bridge) manages and signs. The key
// never passes through this process.
type NodeWallet struct {
	rpcClient *rpc.Client
	receipts  ReceiptReader
	from      common.Address
	logger    *zap.Logger
}

// ReceiptReader is the receipt-lookup surface WaitMined polls.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// NewNodeWallet builds a wallet around a node-managed account.
func NewNodeWallet(rpcClient *rpc.Client, receipts ReceiptReader, from common.Address, logger *zap.Logger) *NodeWallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeWallet{rpcClient: rpcClient, receipts: receipts, from: from, logger: logger}
}

// From returns the sending account.
func (w *NodeWallet) From() common.Address {
	return w.from
}

// SendTransaction forwards the assembled request to the node for signing.
func (w *NodeWallet) SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error) {
	arg := map[string]interface{}{
		"from": w.from,
		"to":   req.To,
		"data": hexutil.Bytes(req.Data),
	}
	if req.Value != nil && req.Value.Sign() > 0 {
		arg["value"] = (*hexutil.Big)(req.Value)
	}

	var txHash common.Hash
	if err := w.rpcClient.CallContext(ctx, &txHash, "eth_sendTransaction", arg); err != nil {
		return common.Hash{}, err
	}

	w.logger.Debug("transaction submitted", zap.String("tx", txHash.Hex()), zap.String("to", req.To.Hex()))
	return txHash, nil
}

// WaitMined polls for the receipt until the transaction is mined or the
// context ends.
func (w *NodeWallet) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.receipts.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt %s: %w", txHash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
