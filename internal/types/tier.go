package types

import "fmt"

type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

func (t Tier) String() string {
	return string(t)
}

// Ordinal is the enum discriminant used by the account layout.
func (t Tier) Ordinal() (uint8, error) {
	switch t {
	case TierBronze:
		return 0, nil
	case TierSilver:
		return 1, nil
	case TierGold:
		return 2, nil
	}
	return 0, fmt.Errorf("unknown tier %q", string(t))
}

func TierFromOrdinal(o uint8) (Tier, error) {
	switch o {
	case 0:
		return TierBronze, nil
	case 1:
		return TierSilver, nil
	case 2:
		return TierGold, nil
	}
	return "", fmt.Errorf("unknown tier discriminant %d", o)
}
