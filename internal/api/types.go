package api

import (
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/services"
	"github.com/skorlabs/skorstaking/internal/types"
)

type InitializeRequest struct {
	AcceptedAsset types.Pubkey `json:"acceptedAsset"`
	MonthlyCap    uint64       `json:"monthlyCap"`
}

type StakeRequest struct {
	Amount           uint64                `json:"amount"`
	Duration         types.StakingDuration `json:"duration"`
	Mint             types.Pubkey          `json:"mint"`
	UserTokenAccount *types.Pubkey         `json:"userTokenAccount,omitempty"`
}

type ClaimRequest struct {
	UserTokenAccount *types.Pubkey `json:"userTokenAccount,omitempty"`
}

type PauseRequest struct {
	Paused bool `json:"paused"`
}

type MonthlyCapRequest struct {
	MonthlyCap uint64 `json:"monthlyCap"`
}

type FundRewardsRequest struct {
	FromTokenAccount *types.Pubkey `json:"fromTokenAccount,omitempty"`
	Amount           uint64        `json:"amount"`
}

type RegisterMintRequest struct {
	Address  types.Pubkey `json:"address"`
	Decimals uint8        `json:"decimals"`
}

type MintToRequest struct {
	Mint   types.Pubkey `json:"mint"`
	Owner  types.Pubkey `json:"owner"`
	Amount uint64       `json:"amount"`
}

type GlobalConfigResponse struct {
	Admin              types.Pubkey `json:"admin"`
	AcceptedAsset      types.Pubkey `json:"acceptedAsset"`
	MonthlyCap         uint64       `json:"monthlyCap"`
	PausedStaking      bool         `json:"pausedStaking"`
	MonthlyDistributed uint64       `json:"monthlyDistributed"`
	EpochStart         int64        `json:"epochStart"`
	Initialized        bool         `json:"initialized"`
	// Account is the derived address of the config record.
	Account types.Pubkey `json:"account"`
}

func newGlobalConfigResponse(cfg *types.GlobalConfig, account types.Pubkey) *GlobalConfigResponse {
	return &GlobalConfigResponse{
		Admin:              cfg.Admin,
		AcceptedAsset:      cfg.AcceptedAsset,
		MonthlyCap:         cfg.MonthlyCap,
		PausedStaking:      cfg.PausedStaking,
		MonthlyDistributed: cfg.MonthlyDistributed,
		EpochStart:         cfg.EpochStart,
		Initialized:        !cfg.Admin.IsZero(),
		Account:            account,
	}
}

type StakeResponse struct {
	// Account is the derived address of the stake record.
	Account         string     `json:"account"`
	Staker          string     `json:"staker"`
	Index           uint64     `json:"index"`
	DepositAmount   uint64     `json:"depositAmount"`
	RewardAmount    uint64     `json:"rewardAmount"`
	StartTime       int64      `json:"startTime"`
	DurationSeconds int64      `json:"durationSeconds"`
	UnlockTime      int64      `json:"unlockTime"`
	Claimed         bool       `json:"claimed"`
	ClaimedAt       int64      `json:"claimedAt,omitempty"`
	Tier            types.Tier `json:"tier"`
	ApyBasisPoints  uint64     `json:"apyBasisPoints"`
	Mint            string     `json:"mint"`
}

func newStakeResponse(doc *model.StakeDocument, account types.Pubkey) *StakeResponse {
	return &StakeResponse{
		Account:         account.String(),
		Staker:          doc.Staker,
		Index:           doc.Index,
		DepositAmount:   doc.DepositAmount,
		RewardAmount:    doc.RewardAmount,
		StartTime:       doc.StartTime,
		DurationSeconds: doc.DurationSeconds,
		UnlockTime:      doc.UnlockTime,
		Claimed:         doc.Claimed,
		ClaimedAt:       doc.ClaimedAt,
		Tier:            doc.Tier,
		ApyBasisPoints:  doc.ApyBasisPoints,
		Mint:            doc.Mint,
	}
}

// StakeLayoutResponse carries the persisted account bytes, base64 encoded.
type StakeLayoutResponse struct {
	Staker string `json:"staker"`
	Index  uint64 `json:"index"`
	Data   []byte `json:"data"`
}

type StakeListResponse struct {
	Stakes []*StakeResponse `json:"stakes"`
	// Next is the index to pass as from for the following page.
	Next *uint64 `json:"next,omitempty"`
}

type ClaimResponse struct {
	Staker             types.Pubkey `json:"staker"`
	Index              uint64       `json:"index"`
	Principal          uint64       `json:"principal"`
	Reward             uint64       `json:"reward"`
	ClaimedAt          int64        `json:"claimedAt"`
	MonthlyDistributed uint64       `json:"monthlyDistributed"`
	EpochStart         int64        `json:"epochStart"`
}

func newClaimResponse(r *services.ClaimResult) *ClaimResponse {
	return &ClaimResponse{
		Staker:             r.Staker,
		Index:              r.Index,
		Principal:          r.Principal,
		Reward:             r.Reward,
		ClaimedAt:          r.ClaimedAt,
		MonthlyDistributed: r.MonthlyDistributed,
		EpochStart:         r.EpochStart,
	}
}

type TokenAccountResponse struct {
	Address types.Pubkey `json:"address"`
	Mint    types.Pubkey `json:"mint"`
	Owner   types.Pubkey `json:"owner"`
	Amount  uint64       `json:"amount"`
}

func newTokenAccountResponse(a *types.TokenAccount) *TokenAccountResponse {
	return &TokenAccountResponse{Address: a.Address, Mint: a.Mint, Owner: a.Owner, Amount: a.Amount}
}

type MintResponse struct {
	Address       types.Pubkey `json:"address"`
	Decimals      uint8        `json:"decimals"`
	Supply        uint64       `json:"supply"`
	MintAuthority types.Pubkey `json:"mintAuthority"`
}

type StakerSummaryResponse struct {
	Staker         types.Pubkey `json:"staker"`
	StakeCount     uint64       `json:"stakeCount"`
	TotalStaked    uint64       `json:"totalStaked"`
	TotalClaimed   uint64       `json:"totalClaimed"`
	PendingRewards uint64       `json:"pendingRewards"`
	RewardsPaid    uint64       `json:"rewardsPaid"`
	ActiveStakes   uint64       `json:"activeStakes"`
	ClaimedStakes  uint64       `json:"claimedStakes"`
}

type VaultStatsResponse struct {
	VaultAuthority     types.Pubkey `json:"vaultAuthority"`
	Vault              types.Pubkey `json:"vault"`
	RewardsPool        types.Pubkey `json:"rewardsPool"`
	Mint               types.Pubkey `json:"mint"`
	Balance            uint64       `json:"balance"`
	RewardsBalance     uint64       `json:"rewardsBalance"`
	PrincipalLocked    uint64       `json:"principalLocked"`
	RewardsOwed        uint64       `json:"rewardsOwed"`
	Surplus            uint64       `json:"surplus"`
	MonthlyCap         uint64       `json:"monthlyCap"`
	MonthlyDistributed uint64       `json:"monthlyDistributed"`
	EpochStart         int64        `json:"epochStart"`
	EpochEnd           int64        `json:"epochEnd"`
	PausedStaking      bool         `json:"pausedStaking"`
}

type OverallStatsResponse struct {
	TotalStaked    uint64 `json:"totalStaked"`
	TotalClaimed   uint64 `json:"totalClaimed"`
	PendingRewards uint64 `json:"pendingRewards"`
	RewardsPaid    uint64 `json:"rewardsPaid"`
	ActiveStakes   uint64 `json:"activeStakes"`
	ClaimedStakes  uint64 `json:"claimedStakes"`
	Stakers        uint64 `json:"stakers"`
	LastUpdated    int64  `json:"lastUpdated"`
}
