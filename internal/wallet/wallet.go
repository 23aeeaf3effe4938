package wallet

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// TxRequest is an assembled transaction awaiting signature. Signing is the
// wallet's business; the toolkit only supplies recipient, calldata, and
// attached value.
type TxRequest struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Wallet abstracts the external signer. Implementations hold or proxy the
// key; the toolkit never does.
type Wallet interface {
	// From is the account transactions are sent from.
	From() common.Address
	// SendTransaction hands the request to the signer and returns the
	// transaction hash once it is accepted into the mempool.
	SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	// WaitMined blocks until the transaction is mined or ctx ends.
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// userRejectedCode is the EIP-1193 code wallets return when the user
// dismisses a signature prompt.
const userRejectedCode = 4001

// IsUserRejection reports whether an error is the user declining to sign.
// Rejections are a normal cancellation path and must not be surfaced as
// failures.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	if coded, ok := err.(rpc.Error); ok && coded.ErrorCode() == userRejectedCode {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied")
}
