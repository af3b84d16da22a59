package api

import (
	"fmt"
	"net/http"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/services"
	"github.com/skorlabs/skorstaking/internal/types"
)

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) error {
	admin, err := signer(r)
	if err != nil {
		return err
	}
	var req InitializeRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	cfg, err := s.service.Initialize(r.Context(), admin, req.AcceptedAsset, req.MonthlyCap)
	if err != nil {
		return err
	}
	resp, err := s.configResponse(cfg)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, resp)
	return nil
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) error {
	staker, err := signer(r)
	if err != nil {
		return err
	}
	var req StakeRequest
	if err := parseJSON(r, &req, false); err != nil {
		return err
	}
	doc, err := s.service.Stake(r.Context(), &services.StakeRequest{
		Staker:           staker,
		Amount:           req.Amount,
		Duration:         req.Duration,
		Mint:             req.Mint,
		UserTokenAccount: req.UserTokenAccount,
	})
	if err != nil {
		return err
	}
	resp, err := s.stakeResponse(doc)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, resp)
	return nil
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) error {
	caller, err := signer(r)
	if err != nil {
		return err
	}
	staker, err := pubkeyParam(r, "staker")
	if err != nil {
		return err
	}
	index, err := uintParam(r, "index")
	if err != nil {
		return err
	}
	var req ClaimRequest
	if err := parseJSON(r, &req, true); err != nil {
		return err
	}
	result, err := s.service.Claim(r.Context(), &services.ClaimRequest{
		Caller:           caller,
		Staker:           staker,
		Index:            index,
		UserTokenAccount: req.UserTokenAccount,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, newClaimResponse(result))
	return nil
}

func (s *Server) handleGetStake(w http.ResponseWriter, r *http.Request) error {
	staker, err := pubkeyParam(r, "staker")
	if err != nil {
		return err
	}
	index, err := uintParam(r, "index")
	if err != nil {
		return err
	}

	if r.URL.Query().Get("encoding") == "base64" {
		data, err := s.service.GetStakeLayout(r.Context(), staker, index)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, &StakeLayoutResponse{Staker: staker.String(), Index: index, Data: data})
		return nil
	}

	doc, err := s.service.GetStake(r.Context(), staker, index)
	if err != nil {
		return err
	}
	resp, err := s.stakeResponse(doc)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// handleListStakes serves ?from=<index>&limit=<n>.
func (s *Server) handleListStakes(w http.ResponseWriter, r *http.Request) error {
	staker, err := pubkeyParam(r, "staker")
	if err != nil {
		return err
	}
	from, err := uintQuery(r, "from", 0)
	if err != nil {
		return err
	}
	limit, err := uintQuery(r, "limit", 0)
	if err != nil {
		return err
	}
	pageLimit := s.service.PageLimit(int64(min(limit, uint64(1<<31))))

	docs, err := s.service.ListStakes(r.Context(), staker, from, pageLimit)
	if err != nil {
		return err
	}
	resp := &StakeListResponse{Stakes: make([]*StakeResponse, 0, len(docs))}
	for _, doc := range docs {
		stake, err := s.stakeResponse(doc)
		if err != nil {
			return err
		}
		resp.Stakes = append(resp.Stakes, stake)
	}
	if n := len(docs); n > 0 && int64(n) == pageLimit {
		next := docs[n-1].Index + 1
		resp.Next = &next
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (s *Server) stakeResponse(doc *model.StakeDocument) (*StakeResponse, error) {
	staker, err := types.ParsePubkey(doc.Staker)
	if err != nil {
		return nil, fmt.Errorf("invalid staker in stake %s: %w", doc.ID, err)
	}
	account, err := s.service.Addresses().Stake(staker, doc.Index)
	if err != nil {
		return nil, err
	}
	return newStakeResponse(doc, account), nil
}

func (s *Server) configResponse(cfg *types.GlobalConfig) (*GlobalConfigResponse, error) {
	account, err := s.service.Addresses().Config()
	if err != nil {
		return nil, err
	}
	return newGlobalConfigResponse(cfg, account), nil
}
