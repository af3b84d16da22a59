package api

import (
	"net/http"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) error {
	cfg, err := s.service.GetGlobalConfig(r.Context())
	if err != nil {
		return err
	}
	resp, err := s.configResponse(cfg)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (s *Server) handleStakerSummary(w http.ResponseWriter, r *http.Request) error {
	staker, err := pubkeyParam(r, "staker")
	if err != nil {
		return err
	}
	summary, err := s.service.GetStakerSummary(r.Context(), staker)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, &StakerSummaryResponse{
		Staker:         summary.Staker,
		StakeCount:     summary.StakeCount,
		TotalStaked:    summary.TotalStaked,
		TotalClaimed:   summary.TotalClaimed,
		PendingRewards: summary.PendingRewards,
		RewardsPaid:    summary.RewardsPaid,
		ActiveStakes:   summary.ActiveStakes,
		ClaimedStakes:  summary.ClaimedStakes,
	})
	return nil
}

func (s *Server) handleVaultStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := s.service.GetVaultStats(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, &VaultStatsResponse{
		VaultAuthority:     stats.VaultAuthority,
		Vault:              stats.Vault,
		RewardsPool:        stats.RewardsPool,
		Mint:               stats.Mint,
		Balance:            stats.Balance,
		RewardsBalance:     stats.RewardsBalance,
		PrincipalLocked:    stats.PrincipalLocked,
		RewardsOwed:        stats.RewardsOwed,
		Surplus:            stats.Surplus,
		MonthlyCap:         stats.MonthlyCap,
		MonthlyDistributed: stats.MonthlyDistributed,
		EpochStart:         stats.EpochStart,
		EpochEnd:           stats.EpochEnd,
		PausedStaking:      stats.PausedStaking,
	})
	return nil
}

func (s *Server) handleOverallStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := s.service.GetOverallStats(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, &OverallStatsResponse{
		TotalStaked:    stats.TotalStaked,
		TotalClaimed:   stats.TotalClaimed,
		PendingRewards: stats.PendingRewards,
		RewardsPaid:    stats.RewardsPaid,
		ActiveStakes:   stats.ActiveStakes,
		ClaimedStakes:  stats.ClaimedStakes,
		Stakers:        stats.Stakers,
		LastUpdated:    stats.LastUpdated,
	})
	return nil
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) error {
	if err := s.service.Healthcheck(r.Context()); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
