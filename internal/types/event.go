package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventStakeCreated      EventType = "stake_created"
	EventStakeClaimable    EventType = "stake_claimable"
	EventStakeClaimed      EventType = "stake_claimed"
	EventStakingPaused     EventType = "staking_paused"
	EventMonthlyCapUpdated EventType = "monthly_cap_updated"
	EventRewardsFunded     EventType = "rewards_funded"
	EventInitialized       EventType = "initialized"
)

// StakingEvent is the message published to the queue after an operation
// commits. Optional fields are left empty for events that don't carry them.
type StakingEvent struct {
	EventType     EventType `json:"event_type"`
	Staker        string    `json:"staker,omitempty"`
	Index         uint64    `json:"index"`
	DepositAmount uint64    `json:"deposit_amount,omitempty"`
	RewardAmount  uint64    `json:"reward_amount,omitempty"`
	Tier          Tier      `json:"tier,omitempty"`
	UnlockTime    int64     `json:"unlock_time,omitempty"`
	Paused        *bool     `json:"paused,omitempty"`
	MonthlyCap    *uint64   `json:"monthly_cap,omitempty"`
	Amount        uint64    `json:"amount,omitempty"`
	Timestamp     int64     `json:"timestamp"`
}
