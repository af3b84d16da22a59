package model

const OverallStatsID = "overall_stats"

// StakeTotals summarizes a set of stakes. Amounts are in base units.
type StakeTotals struct {
	TotalStaked    uint64 `bson:"total_staked"`    // principal of unclaimed stakes
	ActiveStakes   uint64 `bson:"active_stakes"`   // unclaimed stake count
	TotalClaimed   uint64 `bson:"total_claimed"`   // principal returned by claims
	ClaimedStakes  uint64 `bson:"claimed_stakes"`  // claimed stake count
	PendingRewards uint64 `bson:"pending_rewards"` // reward owed to unclaimed stakes
	RewardsPaid    uint64 `bson:"rewards_paid"`    // reward paid by claims
}

// OverallStatsDocument represents the deployment wide staking statistics
type OverallStatsDocument struct {
	ID          string `bson:"_id"` // Always "overall_stats"
	StakeTotals `bson:",inline"`
	Stakers     uint64 `bson:"stakers"`
	LastUpdated int64  `bson:"last_updated"` // Unix timestamp of last update
}

type StakerStatsDocument struct {
	Staker      string `bson:"_id"`
	StakeTotals `bson:",inline"`
	LastUpdated int64 `bson:"last_updated"`
}
