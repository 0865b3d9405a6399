package persistence

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// RunState describes the last completed pregeneration so a restarted bot can
// tell whether the stored entries still match its configuration. A run that
// has not finished has no state.
type RunState struct {
	// FromGwei, ToGwei and Decimals are the gas price grid that was generated.
	FromGwei uint64 `json:"fromGwei"`
	ToGwei   uint64 `json:"toGwei"`
	Decimals uint64 `json:"decimals"`

	// ChainID is the chain the entries were signed for.
	ChainID uint64 `json:"chainId"`

	// SignerAddress is the address that signed every entry.
	SignerAddress string `json:"signerAddress"`

	// TemplateHash fingerprints the transaction fields other than the gas
	// price and the signature.
	TemplateHash string `json:"templateHash"`

	// EntryCount is the number of entries written by the run.
	EntryCount int `json:"entryCount"`

	// CompletedAt is the Unix timestamp when the run finished.
	CompletedAt int64 `json:"completedAt"`
}

// Matches reports whether other was generated with the same parameters.
func (rs *RunState) Matches(other *RunState) bool {
	if rs == nil || other == nil {
		return false
	}
	return rs.FromGwei == other.FromGwei &&
		rs.ToGwei == other.ToGwei &&
		rs.Decimals == other.Decimals &&
		rs.ChainID == other.ChainID &&
		rs.SignerAddress == other.SignerAddress &&
		rs.TemplateHash == other.TemplateHash
}

// GasPriceKey normalizes a decimal wei gas price into a fixed width hex key,
// so that lexicographic key order is numeric order.
func GasPriceKey(gasPriceWei string) (string, error) {
	v, err := uint256.FromDecimal(gasPriceWei)
	if err != nil {
		return "", fmt.Errorf("invalid gas price %q: %w", gasPriceWei, err)
	}
	b := v.Bytes32()
	return hex.EncodeToString(b[:]), nil
}
