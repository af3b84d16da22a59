package model

import (
	"fmt"

	"github.com/skorlabs/skorstaking/internal/types"
)

// StakeCounterDocument tracks the next stake index of a staker.
type StakeCounterDocument struct {
	Staker string `bson:"_id"`
	Count  uint64 `bson:"count"`
}

type StakeDocument struct {
	ID              string     `bson:"_id"` // staker:index
	Staker          string     `bson:"staker"`
	Index           uint64     `bson:"index"`
	DepositAmount   uint64     `bson:"deposit_amount"`
	RewardAmount    uint64     `bson:"reward_amount"`
	StartTime       int64      `bson:"start_time"`
	DurationSeconds int64      `bson:"duration_seconds"`
	UnlockTime      int64      `bson:"unlock_time"`
	Claimed         bool       `bson:"claimed"`
	ClaimedAt       int64      `bson:"claimed_at,omitempty"`
	Tier            types.Tier `bson:"tier"`
	ApyBasisPoints  uint64     `bson:"apy_basis_points"`
	Mint            string     `bson:"mint"`
}

func StakeID(staker types.Pubkey, index uint64) string {
	return fmt.Sprintf("%s:%d", staker, index)
}

func NewStakeDocument(rec *types.StakeRecord, apyBp uint64, mint types.Pubkey) *StakeDocument {
	return &StakeDocument{
		ID:              StakeID(rec.Staker, rec.Index),
		Staker:          rec.Staker.String(),
		Index:           rec.Index,
		DepositAmount:   rec.DepositAmount,
		RewardAmount:    rec.RewardAmount,
		StartTime:       rec.StartTime,
		DurationSeconds: rec.DurationSeconds,
		UnlockTime:      rec.UnlockTime(),
		Claimed:         rec.Claimed,
		Tier:            rec.Tier,
		ApyBasisPoints:  apyBp,
		Mint:            mint.String(),
	}
}

func (d *StakeDocument) ToStakeRecord() (*types.StakeRecord, error) {
	staker, err := types.ParsePubkey(d.Staker)
	if err != nil {
		return nil, err
	}
	return &types.StakeRecord{
		Staker:          staker,
		DepositAmount:   d.DepositAmount,
		RewardAmount:    d.RewardAmount,
		StartTime:       d.StartTime,
		DurationSeconds: d.DurationSeconds,
		Claimed:         d.Claimed,
		Tier:            d.Tier,
		Index:           d.Index,
	}, nil
}
