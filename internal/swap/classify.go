package swap

import (
	"context"
	"errors"
	"strings"

	"github.com/NaniDAO/coinchan-sub010/internal/wallet"
)

// FailureClass buckets operation failures into user-facing categories.
type FailureClass int

const (
	// FailureValidation is a client-local check that never reached the network.
	FailureValidation FailureClass = iota
	// FailurePreflight is a chain-read check (network id, balances) failing
	// before anything is submitted.
	FailurePreflight
	// FailureRejected is the user dismissing the signature prompt. It is
	// suppressed from error display.
	FailureRejected
	// FailureSlippage is an insufficient-output revert.
	FailureSlippage
	// FailureInvariant is the pool's constant-product check rejecting the
	// trade, typically on extreme price impact.
	FailureInvariant
	// FailureValueSent is a mismatch between attached value and the call.
	FailureValueSent
	// FailureTransfer is an approval or token transfer failing mid-call.
	FailureTransfer
	// FailureExpired is the embedded deadline passing before inclusion.
	FailureExpired
	// FailureNetwork is a transient RPC problem worth retrying.
	FailureNetwork
	// FailureUnknown is any revert the classifier cannot place.
	FailureUnknown
)

// Failure carries the classified reason for a failed operation.
type Failure struct {
	Class   FailureClass
	Message string
	Err     error
}

func (f Failure) Error() string {
	return f.Message
}

// Silent reports whether the failure should be hidden from the user.
func (f Failure) Silent() bool {
	return f.Class == FailureRejected
}

// validateFailure maps a validation error onto a failure. Preflight checks
// return a typed Failure whose class is preserved; anything else is a
// client-local validation failure.
func validateFailure(err error) Failure {
	var failure Failure
	if errors.As(err, &failure) {
		return failure
	}
	return Failure{Class: FailureValidation, Message: err.Error(), Err: err}
}

// Classify maps an error from submission or receipt waiting onto a failure
// class with an actionable message. Unmatched revert reasons fall back to a
// generic message rather than leaking raw contract errors.
func Classify(err error) Failure {
	if err == nil {
		return Failure{Class: FailureUnknown, Message: "transaction failed"}
	}

	if wallet.IsUserRejection(err) {
		return Failure{Class: FailureRejected, Message: "signature request dismissed", Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficientoutputamount") || strings.Contains(msg, "insufficient output"):
		return Failure{Class: FailureSlippage, Message: "output fell below your minimum; raise slippage tolerance or reduce size", Err: err}
	case strings.Contains(msg, "invalidpoolreserves") || strings.Contains(msg, "k("):
		return Failure{Class: FailureInvariant, Message: "price impact too extreme for this pool", Err: err}
	case strings.Contains(msg, "invalidmsgval") || strings.Contains(msg, "incorrect eth"):
		return Failure{Class: FailureValueSent, Message: "attached value does not match the call", Err: err}
	case strings.Contains(msg, "transferfromfailed") || strings.Contains(msg, "transfer failed") || strings.Contains(msg, "not approved"):
		return Failure{Class: FailureTransfer, Message: "token transfer failed; check balances and operator approval", Err: err}
	case strings.Contains(msg, "expired") || strings.Contains(msg, "deadline"):
		return Failure{Class: FailureExpired, Message: "transaction deadline passed; resubmit", Err: err}
	case isNetworkError(err, msg):
		return Failure{Class: FailureNetwork, Message: "network error; retry in a moment", Err: err}
	case strings.Contains(msg, "execution reverted"):
		return Failure{Class: FailureUnknown, Message: "transaction failed; check pool liquidity", Err: err}
	default:
		return Failure{Class: FailureUnknown, Message: "transaction failed", Err: err}
	}
}

func isNetworkError(err error, msg string) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	for _, needle := range []string{"connection refused", "connection reset", "timeout", "temporarily unavailable", "eof"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
