package swap

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// State is one step of the operation lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateApprovingOperator
	StateAwaitingApprovalReceipt
	StateSubmitting
	StateAwaitingReceipt
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateApprovingOperator:
		return "approving_operator"
	case StateAwaitingApprovalReceipt:
		return "awaiting_approval_receipt"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingReceipt:
		return "awaiting_receipt"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Plan describes one operation for the runner. Validate runs entirely
// client-side. NeedsApproval checks the on-chain operator flag for the asset
// being spent. Build receives the deadline because it is computed at
// submission time, not validation time.
type Plan struct {
	Validate      func(ctx context.Context) error
	NeedsApproval func(ctx context.Context) (bool, error)
	ApprovalTx    func() (wallet.TxRequest, error)
	Build         func(deadline *big.Int) (wallet.TxRequest, error)
}

// Result is the terminal outcome of one operation.
type Result struct {
	State    State
	TxHash   common.Hash
	Failure  *Failure
	Rejected bool
}

// Runner drives a Plan through the operation state machine. A Runner is
// single-use; each flow operates on its own snapshot of inputs.
type Runner struct {
	wallet         wallet.Wallet
	logger         *zap.Logger
	deadlineWindow time.Duration
	now            func() time.Time
	onTransition   func(State)
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithTransitionHook registers a callback invoked on every state change.
func WithTransitionHook(hook func(State)) RunnerOption {
	return func(r *Runner) { r.onTransition = hook }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(w wallet.Wallet, deadlineWindow time.Duration, logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		wallet:         w,
		logger:         logger,
		deadlineWindow: deadlineWindow,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) transition(state State) {
	r.logger.Debug("state transition", zap.String("state", state.String()))
	if r.onTransition != nil {
		r.onTransition(state)
	}
}

// Run executes the plan: validate, approve the operator if needed, submit,
// and wait for the receipt. A wallet rejection at either signature prompt
// aborts silently. An approval that confirms stays confirmed even if the
// primary action fails afterward.
func (r *Runner) Run(ctx context.Context, plan Plan) Result {
	r.transition(StateValidating)
	if plan.Validate != nil {
		if err := plan.Validate(ctx); err != nil {
			return r.fail(validateFailure(err))
		}
	}

	if plan.NeedsApproval != nil {
		needed, err := plan.NeedsApproval(ctx)
		if err != nil {
			return r.fail(Classify(err))
		}
		if needed {
			if result, ok := r.approveOperator(ctx, plan); !ok {
				return result
			}
		}
	}

	r.transition(StateSubmitting)
	deadline := big.NewInt(r.now().Add(r.deadlineWindow).Unix())
	req, err := plan.Build(deadline)
	if err != nil {
		return r.fail(Failure{Class: FailureValidation, Message: err.Error(), Err: err})
	}

	txHash, err := r.wallet.SendTransaction(ctx, req)
	if err != nil {
		if wallet.IsUserRejection(err) {
			return r.reject(err)
		}
		return r.fail(Classify(err))
	}

	r.transition(StateAwaitingReceipt)
	receipt, err := r.wallet.WaitMined(ctx, txHash)
	if err != nil {
		failure := Classify(err)
		failure.Class = FailureNetwork
		result := r.fail(failure)
		result.TxHash = txHash
		return result
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		result := r.fail(Failure{Class: FailureUnknown, Message: "transaction reverted; check pool liquidity"})
		result.TxHash = txHash
		return result
	}

	r.transition(StateSucceeded)
	return Result{State: StateSucceeded, TxHash: txHash}
}

// approveOperator runs the approval sub-flow. It returns ok=false with the
// terminal result when the overall operation must stop.
func (r *Runner) approveOperator(ctx context.Context, plan Plan) (Result, bool) {
	r.transition(StateApprovingOperator)
	req, err := plan.ApprovalTx()
	if err != nil {
		return r.fail(Failure{Class: FailureValidation, Message: err.Error(), Err: err}), false
	}

	txHash, err := r.wallet.SendTransaction(ctx, req)
	if err != nil {
		if wallet.IsUserRejection(err) {
			return r.reject(err), false
		}
		return r.fail(Classify(err)), false
	}

	r.transition(StateAwaitingApprovalReceipt)
	receipt, err := r.wallet.WaitMined(ctx, txHash)
	if err != nil {
		return r.fail(Classify(err)), false
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		// Approval is a hard precondition; the composite operation stops here.
		failure := Failure{Class: FailureTransfer, Message: "operator approval reverted"}
		return r.fail(failure), false
	}

	return Result{}, true
}

func (r *Runner) fail(failure Failure) Result {
	r.transition(StateFailed)
	return Result{State: StateFailed, Failure: &failure}
}

func (r *Runner) reject(err error) Result {
	// Back to idle without alarming the user.
	r.logger.Debug("signature request dismissed", zap.Error(err))
	r.transition(StateIdle)
	return Result{State: StateIdle, Rejected: true}
}
