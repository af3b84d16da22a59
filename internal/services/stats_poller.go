package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/utils/poller"
)

// RunStatsPoller refreshes the stored stake statistics. It blocks until ctx
// is cancelled.
func (s *Service) RunStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
	)
	statsPoller.Start(ctx)
}

// calculateAndUpdateStats aggregates stake totals overall and per staker
// and stores them
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	startTime := time.Now()
	overall, err := s.db.CalculateStakeTotals(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to calculate stake totals: %w", err)
	}
	stakers, err := s.db.CalculateStakerTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to calculate staker totals: %w", err)
	}
	log.Debug().
		Dur("aggregation_duration_ms", time.Since(startTime)).
		Msg("Stats aggregation completed")

	now := s.clock.Now()
	if err := s.db.UpsertOverallStats(ctx, &model.OverallStatsDocument{
		ID:          model.OverallStatsID,
		StakeTotals: *overall,
		Stakers:     uint64(len(stakers)),
		LastUpdated: now,
	}); err != nil {
		return fmt.Errorf("failed to upsert overall stats: %w", err)
	}

	log.Info().
		Uint64("total_staked", overall.TotalStaked).
		Uint64("active_stakes", overall.ActiveStakes).
		Uint64("pending_rewards", overall.PendingRewards).
		Int("stakers", len(stakers)).
		Msg("Updated overall stats")

	for _, stakerStats := range stakers {
		stakerStats.LastUpdated = now
		if err := s.db.UpsertStakerStats(ctx, stakerStats); err != nil {
			log.Error().
				Err(err).
				Str("staker", stakerStats.Staker).
				Msg("Failed to upsert staker stats")
			return fmt.Errorf("failed to upsert staker stats for %s: %w", stakerStats.Staker, err)
		}
	}

	metrics.RecordTotalStaked(overall.TotalStaked)
	return nil
}
