package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/types"
	"github.com/skorlabs/skorstaking/internal/utils/poller"
)

// RunUnlockChecker announces stakes whose term elapsed. It blocks until ctx
// is cancelled.
func (s *Service) RunUnlockChecker(ctx context.Context) {
	unlockPoller := poller.NewPoller(
		"unlock_checker",
		s.cfg.Poller.UnlockCheckerPollingInterval,
		metrics.RecordPollerDuration("unlock_checker", s.checkUnlocked),
	)
	unlockPoller.Start(ctx)
}

func (s *Service) checkUnlocked(ctx context.Context) error {
	now := s.clock.Now()
	timeLocks, err := s.db.FindUnlockedStakes(ctx, now, s.cfg.Poller.UnlockedStakesLimit)
	if err != nil {
		return fmt.Errorf("failed to find unlocked stakes: %w", err)
	}

	claimable := 0
	for _, tlDoc := range timeLocks {
		staker, err := types.ParsePubkey(tlDoc.Staker)
		if err != nil {
			return fmt.Errorf("invalid staker in time lock %s: %w", tlDoc.StakeID, err)
		}
		stake, err := s.db.GetStake(ctx, staker, tlDoc.Index)
		if err != nil {
			return fmt.Errorf("failed to get stake %s: %w", tlDoc.StakeID, err)
		}

		log.Ctx(ctx).Debug().
			Str("stake_id", tlDoc.StakeID).
			Int64("unlock_time", tlDoc.UnlockTime).
			Bool("claimed", stake.Claimed).
			Msg("checking unlocked stake")

		// claimed through a race with the claim transaction
		if !stake.Claimed {
			claimable++
			if err := s.publisher.SendStakingEvent(ctx, &types.StakingEvent{
				EventType:     types.EventStakeClaimable,
				Staker:        stake.Staker,
				Index:         stake.Index,
				DepositAmount: stake.DepositAmount,
				RewardAmount:  stake.RewardAmount,
				Tier:          stake.Tier,
				UnlockTime:    stake.UnlockTime,
				Timestamp:     now,
			}); err != nil {
				return fmt.Errorf("failed to emit claimable event: %w", err)
			}
		}

		if err := s.db.DeleteTimeLock(ctx, tlDoc.StakeID); err != nil && !db.IsNotFoundError(err) {
			return fmt.Errorf("failed to delete time lock: %w", err)
		}
	}

	metrics.RecordClaimableStakesCount(claimable)
	return nil
}
