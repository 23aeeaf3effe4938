package model

import (
	"encoding/json"
)

// ActivityKind names the operation a record describes.
type ActivityKind string

const (
	ActivitySwap            ActivityKind = "swap"
	ActivityAddLiquidity    ActivityKind = "add_liquidity"
	ActivityRemoveLiquidity ActivityKind = "remove_liquidity"
	ActivityApprove         ActivityKind = "approve"
)

// ActivityRecord is the normalized representation of a confirmed operation
// for the activity sink. Amounts are decimal strings to survive JSON and SQL
// without precision loss.
type ActivityRecord struct {
	ChainID    uint64       `json:"chain_id"`
	Kind       ActivityKind `json:"kind"`
	TxHash     string       `json:"tx_hash"`
	Owner      string       `json:"owner"`
	PoolID     string       `json:"pool_id,omitempty"`
	AssetIn    string       `json:"asset_in,omitempty"`
	AssetOut   string       `json:"asset_out,omitempty"`
	AmountIn   string       `json:"amount_in,omitempty"`
	AmountOut  string       `json:"amount_out,omitempty"`
	Status     string       `json:"status"`
	RecordedAt string       `json:"recorded_at"`
}

// MarshalJSON ensures ActivityRecord is encoded with stable field names.
func (ar ActivityRecord) MarshalJSON() ([]byte, error) {
	type Alias ActivityRecord
	return json.Marshal(Alias(ar))
}

// UnmarshalJSON decodes an ActivityRecord from JSON.
func (ar *ActivityRecord) UnmarshalJSON(data []byte) error {
	type Alias ActivityRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*ar = ActivityRecord(a)
	return nil
}
