package rewards

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/skorlabs/skorstaking/internal/types"
)

const daysPerYear = 365

var rewardDenominator = sdkmath.NewInt(BasisPointsDenominator * daysPerYear)

// Reward computes floor(principal * apyBp * days / (10000 * 365)), simple
// interest pro-rated to the term. The product is carried in 256 bit
// precision and the result must fit in a uint64.
func Reward(principal, apyBp uint64, days int64) (uint64, error) {
	if days < 0 {
		return 0, types.ErrInvalidDuration
	}
	product := sdkmath.NewIntFromUint64(principal).
		Mul(sdkmath.NewIntFromUint64(apyBp)).
		Mul(sdkmath.NewInt(days))

	reward := product.Quo(rewardDenominator)
	if !reward.IsUint64() {
		return 0, types.ErrOverflow
	}
	return reward.Uint64(), nil
}

// Quote is the full reward computation performed at stake time.
type Quote struct {
	Tier            types.Tier
	ApyBasisPoints  uint64
	DurationSeconds int64
	RewardAmount    uint64
}

// QuoteStake classifies the deposit, looks up the rate and computes the
// reward for the chosen term.
func QuoteStake(amount uint64, duration types.StakingDuration) (*Quote, error) {
	days, ok := duration.Days()
	if !ok {
		return nil, types.ErrInvalidDuration
	}
	tier := Classify(Normalize(amount))
	apy, err := ApyBasisPoints(tier, days)
	if err != nil {
		return nil, err
	}
	reward, err := Reward(amount, apy, days)
	if err != nil {
		return nil, fmt.Errorf("reward for %d over %d days: %w", amount, days, err)
	}
	return &Quote{
		Tier:            tier,
		ApyBasisPoints:  apy,
		DurationSeconds: days * types.SecondsPerDay,
		RewardAmount:    reward,
	}, nil
}

// CapInBaseUnits converts the whole-unit monthly cap to base units.
func CapInBaseUnits(monthlyCap uint64) (uint64, error) {
	c := sdkmath.NewIntFromUint64(monthlyCap).Mul(sdkmath.NewIntFromUint64(Scale))
	if !c.IsUint64() {
		return 0, types.ErrOverflow
	}
	return c.Uint64(), nil
}

// CheckedAdd adds two base unit amounts, failing instead of wrapping.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, types.ErrOverflow
	}
	return sum, nil
}
