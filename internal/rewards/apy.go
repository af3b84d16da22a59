package rewards

import "github.com/skorlabs/skorstaking/internal/types"

// BasisPointsDenominator is 100%: 1% = 100bp.
const BasisPointsDenominator = 10_000

// ApyBasisPoints returns the annual rate for a tier and lock term.
func ApyBasisPoints(tier types.Tier, durationDays int64) (uint64, error) {
	switch tier {
	case types.TierBronze:
		switch durationDays {
		case 60:
			return 400, nil
		case 90:
			return 600, nil
		case 180:
			return 800, nil
		case 365:
			return 1000, nil
		}
	case types.TierSilver:
		switch durationDays {
		case 60:
			return 600, nil
		case 90:
			return 900, nil
		case 180:
			return 1200, nil
		case 365:
			return 1500, nil
		}
	case types.TierGold:
		switch durationDays {
		case 60:
			return 800, nil
		case 90:
			return 1200, nil
		case 180:
			return 1600, nil
		case 365:
			return 2000, nil
		}
	}
	return 0, types.ErrInvalidDuration
}
