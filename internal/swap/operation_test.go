package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

type fakeWallet struct {
	sent          []wallet.TxRequest
	hashes        []common.Hash
	sendErrs      []error
	receiptStatus []uint64
	waitErr       error
}

func (f *fakeWallet) From() common.Address { return common.Address{0xAA} }

func (f *fakeWallet) SendTransaction(_ context.Context, req wallet.TxRequest) (common.Hash, error) {
	idx := len(f.sent)
	if idx < len(f.sendErrs) && f.sendErrs[idx] != nil {
		return common.Hash{}, f.sendErrs[idx]
	}
	f.sent = append(f.sent, req)
	hash := common.BytesToHash([]byte{byte(idx + 1)})
	f.hashes = append(f.hashes, hash)
	return hash, nil
}

func (f *fakeWallet) WaitMined(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	status := uint64(types.ReceiptStatusSuccessful)
	for i, hash := range f.hashes {
		if hash == txHash && i < len(f.receiptStatus) {
			status = f.receiptStatus[i]
		}
	}
	return &types.Receipt{Status: status, TxHash: txHash}, nil
}

func trivialPlan(needsApproval bool) (Plan, *[]string) {
	var trace []string
	plan := Plan{
		Validate: func(context.Context) error {
			trace = append(trace, "validate")
			return nil
		},
		NeedsApproval: func(context.Context) (bool, error) {
			trace = append(trace, "needs_approval")
			return needsApproval, nil
		},
		ApprovalTx: func() (wallet.TxRequest, error) {
			trace = append(trace, "approval_tx")
			return wallet.TxRequest{To: common.Address{0x01}}, nil
		},
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			trace = append(trace, fmt.Sprintf("build deadline=%s", deadline))
			return wallet.TxRequest{To: common.Address{0x02}}, nil
		},
	}
	return plan, &trace
}

func TestRunnerHappyPath(t *testing.T) {
	w := &fakeWallet{}
	var states []State
	runner := NewRunner(w, 20*time.Minute, zap.NewNop(), WithTransitionHook(func(s State) {
		states = append(states, s)
	}))

	plan, _ := trivialPlan(false)
	result := runner.Run(context.Background(), plan)

	if result.State != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", result.State)
	}
	if result.TxHash == (common.Hash{}) {
		t.Fatalf("missing tx hash")
	}

	want := []State{StateValidating, StateSubmitting, StateAwaitingReceipt, StateSucceeded}
	if len(states) != len(want) {
		t.Fatalf("transitions = %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("transition %d = %s, want %s", i, states[i], want[i])
		}
	}
}

func TestRunnerApprovalPrecedesPrimary(t *testing.T) {
	w := &fakeWallet{}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan, trace := trivialPlan(true)
	result := runner.Run(context.Background(), plan)

	if result.State != StateSucceeded {
		t.Fatalf("state = %s: %+v", result.State, result.Failure)
	}
	if len(w.sent) != 2 {
		t.Fatalf("sent %d transactions, want 2", len(w.sent))
	}
	if w.sent[0].To != (common.Address{0x01}) || w.sent[1].To != (common.Address{0x02}) {
		t.Fatalf("approval did not precede primary: %+v", w.sent)
	}

	// Build runs after the approval confirms.
	got := *trace
	if got[len(got)-1][:5] != "build" {
		t.Fatalf("trace = %v", got)
	}
}

func TestRunnerDeadlineComputedAtSubmission(t *testing.T) {
	w := &fakeWallet{}
	frozen := time.Unix(1_700_000_000, 0)
	runner := NewRunner(w, 20*time.Minute, zap.NewNop(), WithClock(func() time.Time { return frozen }))

	var gotDeadline *big.Int
	plan := Plan{
		Build: func(deadline *big.Int) (wallet.TxRequest, error) {
			gotDeadline = deadline
			return wallet.TxRequest{}, nil
		},
	}
	runner.Run(context.Background(), plan)

	want := big.NewInt(frozen.Add(20 * time.Minute).Unix())
	if gotDeadline == nil || gotDeadline.Cmp(want) != 0 {
		t.Fatalf("deadline = %s, want %s", gotDeadline, want)
	}
}

func TestRunnerValidationFailureShortCircuits(t *testing.T) {
	w := &fakeWallet{}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan := Plan{
		Validate: func(context.Context) error { return errors.New("insufficient balance") },
		Build: func(*big.Int) (wallet.TxRequest, error) {
			t.Fatalf("build must not run after failed validation")
			return wallet.TxRequest{}, nil
		},
	}
	result := runner.Run(context.Background(), plan)

	if result.State != StateFailed || result.Failure == nil {
		t.Fatalf("result = %+v", result)
	}
	if result.Failure.Class != FailureValidation {
		t.Fatalf("class = %d, want validation", result.Failure.Class)
	}
	if len(w.sent) != 0 {
		t.Fatalf("validation failure reached the network")
	}
}

func TestRunnerUserRejectionIsSilent(t *testing.T) {
	w := &fakeWallet{sendErrs: []error{errors.New("MetaMask Tx Signature: User denied transaction signature")}}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan, _ := trivialPlan(false)
	result := runner.Run(context.Background(), plan)

	if !result.Rejected {
		t.Fatalf("rejection not detected: %+v", result)
	}
	if result.State != StateIdle {
		t.Fatalf("state = %s, want idle", result.State)
	}
	if result.Failure != nil {
		t.Fatalf("rejection surfaced a failure: %+v", result.Failure)
	}
}

func TestRunnerApprovalRevertAbortsComposite(t *testing.T) {
	w := &fakeWallet{receiptStatus: []uint64{types.ReceiptStatusFailed}}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan, _ := trivialPlan(true)
	result := runner.Run(context.Background(), plan)

	if result.State != StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	if result.Failure == nil || result.Failure.Class != FailureTransfer {
		t.Fatalf("failure = %+v", result.Failure)
	}
	if len(w.sent) != 1 {
		t.Fatalf("primary submitted after failed approval")
	}
}

func TestRunnerRevertedPrimaryKeepsTxHash(t *testing.T) {
	w := &fakeWallet{receiptStatus: []uint64{types.ReceiptStatusFailed}}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan, _ := trivialPlan(false)
	result := runner.Run(context.Background(), plan)

	if result.State != StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}
	if result.TxHash == (common.Hash{}) {
		t.Fatalf("failed result should still carry the tx hash")
	}
}

func TestRunnerPreservesPreflightClass(t *testing.T) {
	w := &fakeWallet{}
	runner := NewRunner(w, 20*time.Minute, zap.NewNop())

	plan := Plan{
		Validate: func(context.Context) error {
			return Failure{Class: FailurePreflight, Message: "insufficient ETH balance"}
		},
		Build: func(*big.Int) (wallet.TxRequest, error) {
			t.Fatal("build must not run after a failed preflight")
			return wallet.TxRequest{}, nil
		},
	}

	result := runner.Run(context.Background(), plan)
	if result.State != StateFailed || result.Failure == nil {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Failure.Class != FailurePreflight {
		t.Fatalf("class = %d, want preflight", result.Failure.Class)
	}
	if len(w.sent) != 0 {
		t.Fatalf("preflight failure reached the wallet")
	}
}

func TestRunnerWrapsPlainValidationErrors(t *testing.T) {
	runner := NewRunner(&fakeWallet{}, 20*time.Minute, zap.NewNop())

	plan := Plan{
		Validate: func(context.Context) error { return errors.New("amount must be positive") },
		Build: func(*big.Int) (wallet.TxRequest, error) {
			return wallet.TxRequest{}, nil
		},
	}

	result := runner.Run(context.Background(), plan)
	if result.Failure == nil || result.Failure.Class != FailureValidation {
		t.Fatalf("expected validation class, got %+v", result)
	}
}
