package rewards

import "github.com/skorlabs/skorstaking/internal/types"

const (
	// Decimals is the only mint precision the engine supports.
	Decimals = 6
	// Scale is 10^Decimals, the number of base units in one whole token.
	Scale uint64 = 1_000_000

	// MinimumStakeWholeUnits is the smallest accepted deposit.
	MinimumStakeWholeUnits uint64 = 100
	MinimumStake                  = MinimumStakeWholeUnits * Scale

	silverThreshold uint64 = 100_000
	goldThreshold   uint64 = 300_000
)

// Normalize strips the decimal scaling from a base unit amount.
func Normalize(amount uint64) uint64 {
	return amount / Scale
}

// Classify maps a whole-unit deposit size to its tier.
func Classify(normalizedAmount uint64) types.Tier {
	switch {
	case normalizedAmount >= goldThreshold:
		return types.TierGold
	case normalizedAmount >= silverThreshold:
		return types.TierSilver
	default:
		return types.TierBronze
	}
}
