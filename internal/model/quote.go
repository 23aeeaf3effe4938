package model

import "math/big"

// SwapQuote is the ephemeral preview for a single-hop swap. It is recomputed
// on every input change and never persisted.
type SwapQuote struct {
	AmountIn     *big.Int `json:"amount_in"`
	AmountOut    *big.Int `json:"amount_out"`
	MinAmountOut *big.Int `json:"min_amount_out"`
}

// Viable reports whether the quote can back a transaction. A zero output
// means no viable route and must block submission.
func (q SwapQuote) Viable() bool {
	return q.AmountOut != nil && q.AmountOut.Sign() > 0
}
