package cli

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/skorlabs/skorstaking/internal/rewards"
)

// parseTokenAmount converts a decimal token amount such as "12.5" to base
// units.
func parseTokenAmount(s string) (uint64, error) {
	dec, err := sdkmath.LegacyNewDecFromStr(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !dec.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", s)
	}
	base := dec.MulInt64(int64(rewards.Scale))
	if !base.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimals", s, rewards.Decimals)
	}
	n := base.TruncateInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("amount %s is too large", s)
	}
	return n.Uint64(), nil
}
