package memdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

func addToTotals(t *model.StakeTotals, doc *model.StakeDocument) {
	if doc.Claimed {
		t.TotalClaimed += doc.DepositAmount
		t.ClaimedStakes++
		t.RewardsPaid += doc.RewardAmount
		return
	}
	t.TotalStaked += doc.DepositAmount
	t.ActiveStakes++
	t.PendingRewards += doc.RewardAmount
}

func (s *Store) CalculateStakeTotals(ctx context.Context, staker *types.Pubkey) (*model.StakeTotals, error) {
	defer s.lock(ctx)()
	var totals model.StakeTotals
	for _, doc := range s.state.stakes {
		if staker != nil && doc.Staker != staker.String() {
			continue
		}
		addToTotals(&totals, &doc)
	}
	return &totals, nil
}

func (s *Store) CalculateStakerTotals(ctx context.Context) ([]*model.StakerStatsDocument, error) {
	defer s.lock(ctx)()
	byStaker := map[string]*model.StakerStatsDocument{}
	for _, doc := range s.state.stakes {
		st, ok := byStaker[doc.Staker]
		if !ok {
			st = &model.StakerStatsDocument{Staker: doc.Staker}
			byStaker[doc.Staker] = st
		}
		addToTotals(&st.StakeTotals, &doc)
	}
	out := make([]*model.StakerStatsDocument, 0, len(byStaker))
	for _, st := range byStaker {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Staker < out[j].Staker })
	return out, nil
}

func (s *Store) UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error {
	defer s.lock(ctx)()
	stats := *doc
	stats.ID = model.OverallStatsID
	s.state.overall = &stats
	return nil
}

func (s *Store) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	defer s.lock(ctx)()
	if s.state.overall == nil {
		return nil, &db.NotFoundError{Key: model.OverallStatsID, Message: "overall stats not computed yet"}
	}
	stats := *s.state.overall
	return &stats, nil
}

func (s *Store) UpsertStakerStats(ctx context.Context, doc *model.StakerStatsDocument) error {
	defer s.lock(ctx)()
	s.state.stakerStats[doc.Staker] = *doc
	return nil
}

func (s *Store) GetStakerStats(ctx context.Context, staker types.Pubkey) (*model.StakerStatsDocument, error) {
	defer s.lock(ctx)()
	doc, ok := s.state.stakerStats[staker.String()]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     staker.String(),
			Message: fmt.Sprintf("no stats for staker %s", staker),
		}
	}
	return &doc, nil
}
