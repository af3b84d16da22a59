package api

import (
	"net/http"

	"github.com/skorlabs/skorstaking/internal/services"
)

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) error {
	caller, err := signer(r)
	if err != nil {
		return err
	}
	var req PauseRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	cfg, err := s.service.SetPauseStaking(r.Context(), caller, req.Paused)
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

func (s *Server) handleMonthlyCap(w http.ResponseWriter, r *http.Request) error {
	caller, err := signer(r)
	if err != nil {
		return err
	}
	var req MonthlyCapRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	cfg, err := s.service.SetMonthlyCap(r.Context(), caller, req.MonthlyCap)
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

func (s *Server) handleFundRewards(w http.ResponseWriter, r *http.Request) error {
	funder, err := signer(r)
	if err != nil {
		return err
	}
	var req FundRewardsRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	pool, err := s.service.FundRewards(r.Context(), &services.FundRewardsRequest{
		Funder:           funder,
		Amount:           req.Amount,
		FromTokenAccount: req.FromTokenAccount,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, newTokenAccountResponse(pool))
	return nil
}

// handleRegisterMint registers a mint with the signer as its authority.
func (s *Server) handleRegisterMint(w http.ResponseWriter, r *http.Request) error {
	authority, err := signer(r)
	if err != nil {
		return err
	}
	var req RegisterMintRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	mint, err := s.service.RegisterMint(r.Context(), req.Address, authority, req.Decimals)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, &MintResponse{
		Address:       mint.Address,
		Decimals:      mint.Decimals,
		Supply:        mint.Supply,
		MintAuthority: mint.MintAuthority,
	})
	return nil
}

func (s *Server) handleMintTo(w http.ResponseWriter, r *http.Request) error {
	authority, err := signer(r)
	if err != nil {
		return err
	}
	var req MintToRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	account, err := s.service.MintTo(r.Context(), authority, req.Mint, req.Owner, req.Amount)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, newTokenAccountResponse(account))
	return nil
}
