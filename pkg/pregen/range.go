package pregen

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

// WeiPerGwei is the number of wei in one gwei.
const WeiPerGwei uint64 = 1_000_000_000

// MaxEntries bounds a single run.
const MaxEntries uint64 = 10_000_000

// Range is a grid of gas prices: every multiple of 1/Decimals gwei from
// FromGwei to ToGwei inclusive.
type Range struct {
	FromGwei uint64 `json:"fromGwei" toml:"from_gwei"`
	ToGwei   uint64 `json:"toGwei" toml:"to_gwei"`
	Decimals uint64 `json:"decimals" toml:"decimals"`
}

func (r Range) Validate() error {
	if r.Decimals == 0 {
		return fmt.Errorf("decimals must be greater than zero")
	}
	if WeiPerGwei%r.Decimals != 0 {
		return fmt.Errorf("decimals must divide %d, got %d", WeiPerGwei, r.Decimals)
	}
	if r.FromGwei > r.ToGwei {
		return fmt.Errorf("from (%d gwei) is greater than to (%d gwei)", r.FromGwei, r.ToGwei)
	}
	if r.ToGwei > math.MaxUint64/WeiPerGwei {
		return fmt.Errorf("to (%d gwei) overflows wei", r.ToGwei)
	}
	if (r.ToGwei-r.FromGwei) > (MaxEntries-1)/r.Decimals {
		return fmt.Errorf("range has more than %d entries", MaxEntries)
	}
	return nil
}

// Step is the grid spacing in wei.
func (r Range) Step() uint64 {
	return WeiPerGwei / r.Decimals
}

// Count is the number of gas prices on the grid.
func (r Range) Count() uint64 {
	return (r.ToGwei-r.FromGwei)*r.Decimals + 1
}

// GasPriceAt returns the i-th gas price of the grid in wei.
func (r Range) GasPriceAt(i uint64) *uint256.Int {
	units := new(uint256.Int).SetUint64(r.FromGwei*r.Decimals + i)
	return units.Mul(units, uint256.NewInt(r.Step()))
}

// Index returns the grid position of gasPriceWei, or false when it lies
// between grid points or outside the range.
func (r Range) Index(gasPriceWei *uint256.Int) (uint64, bool) {
	if gasPriceWei == nil {
		return 0, false
	}
	step := uint256.NewInt(r.Step())
	if !new(uint256.Int).Mod(gasPriceWei, step).IsZero() {
		return 0, false
	}

	units := new(uint256.Int).Div(gasPriceWei, step)
	if !units.IsUint64() {
		return 0, false
	}
	first, last := r.FromGwei*r.Decimals, r.ToGwei*r.Decimals
	u := units.Uint64()
	if u < first || u > last {
		return 0, false
	}
	return u - first, true
}

// Contains reports whether gasPriceWei is on the grid.
func (r Range) Contains(gasPriceWei *uint256.Int) bool {
	_, ok := r.Index(gasPriceWei)
	return ok
}
