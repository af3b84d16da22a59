package model

import "github.com/skorlabs/skorstaking/internal/types"

const GlobalConfigID = "config"

type GlobalConfigDocument struct {
	ID                 string `bson:"_id"` // always "config"
	Admin              string `bson:"admin"`
	AcceptedAsset      string `bson:"accepted_asset"`
	MonthlyCap         uint64 `bson:"monthly_cap"` // whole units
	PausedStaking      bool   `bson:"paused_staking"`
	MonthlyDistributed uint64 `bson:"monthly_distributed"` // base units
	EpochStart         int64  `bson:"epoch_start"`
}

func NewGlobalConfigDocument(cfg *types.GlobalConfig) *GlobalConfigDocument {
	return &GlobalConfigDocument{
		ID:                 GlobalConfigID,
		Admin:              cfg.Admin.String(),
		AcceptedAsset:      cfg.AcceptedAsset.String(),
		MonthlyCap:         cfg.MonthlyCap,
		PausedStaking:      cfg.PausedStaking,
		MonthlyDistributed: cfg.MonthlyDistributed,
		EpochStart:         cfg.EpochStart,
	}
}

func (d *GlobalConfigDocument) ToGlobalConfig() (*types.GlobalConfig, error) {
	admin, err := types.ParsePubkey(d.Admin)
	if err != nil {
		return nil, err
	}
	asset, err := types.ParsePubkey(d.AcceptedAsset)
	if err != nil {
		return nil, err
	}
	return &types.GlobalConfig{
		Admin:              admin,
		AcceptedAsset:      asset,
		MonthlyCap:         d.MonthlyCap,
		PausedStaking:      d.PausedStaking,
		MonthlyDistributed: d.MonthlyDistributed,
		EpochStart:         d.EpochStart,
	}, nil
}
