package model

// TimeLockDocument marks a stake that becomes claimable at UnlockTime. It is
// removed once the unlock has been announced.
type TimeLockDocument struct {
	StakeID    string `bson:"_id"` // Primary key
	Staker     string `bson:"staker"`
	Index      uint64 `bson:"index"`
	UnlockTime int64  `bson:"unlock_time"`
	TxType     string `bson:"tx_type"`
}

func NewTimeLockDocument(stakeID, staker string, index uint64, unlockTime int64, txType string) *TimeLockDocument {
	return &TimeLockDocument{
		StakeID:    stakeID,
		Staker:     staker,
		Index:      index,
		UnlockTime: unlockTime,
		TxType:     txType,
	}
}
