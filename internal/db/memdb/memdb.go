// Package memdb is an in-process implementation of db.DbInterface for local
// runs and tests. Transactions are serialized by one mutex and roll back by
// restoring a snapshot.
package memdb

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sort"
	"sync"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

var _ db.DbInterface = (*Store)(nil)

// same bound as the mongo store so both behave alike
const maxStoredAmount = uint64(math.MaxInt64)

type state struct {
	config      *model.GlobalConfigDocument
	counters    map[string]uint64
	stakes      map[string]model.StakeDocument
	timelocks   map[string]model.TimeLockDocument
	mints       map[string]model.MintDocument
	accounts    map[string]model.TokenAccountDocument
	overall     *model.OverallStatsDocument
	stakerStats map[string]model.StakerStatsDocument
	signatures  map[string]model.RequestSignatureDocument
}

func newState() *state {
	return &state{
		counters:    map[string]uint64{},
		stakes:      map[string]model.StakeDocument{},
		timelocks:   map[string]model.TimeLockDocument{},
		mints:       map[string]model.MintDocument{},
		accounts:    map[string]model.TokenAccountDocument{},
		stakerStats: map[string]model.StakerStatsDocument{},
		signatures:  map[string]model.RequestSignatureDocument{},
	}
}

func (s *state) clone() *state {
	out := &state{
		counters:    maps.Clone(s.counters),
		stakes:      maps.Clone(s.stakes),
		timelocks:   maps.Clone(s.timelocks),
		mints:       maps.Clone(s.mints),
		accounts:    maps.Clone(s.accounts),
		stakerStats: maps.Clone(s.stakerStats),
		signatures:  maps.Clone(s.signatures),
	}
	if s.config != nil {
		cfg := *s.config
		out.config = &cfg
	}
	if s.overall != nil {
		overall := *s.overall
		out.overall = &overall
	}
	return out
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store mutex unless ctx already runs inside one of this
// store's transactions.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	committed := false
	defer func() {
		if !committed {
			s.state = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error) {
	defer s.lock(ctx)()
	if s.state.config == nil {
		return nil, &db.NotFoundError{
			Key:     model.GlobalConfigID,
			Message: "global config is not initialized",
		}
	}
	cfg := *s.state.config
	return &cfg, nil
}

func (s *Store) InsertGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	defer s.lock(ctx)()
	if s.state.config != nil {
		return &db.DuplicateKeyError{
			Key:     model.GlobalConfigID,
			Message: "global config already exists",
		}
	}
	cfg := *doc
	cfg.ID = model.GlobalConfigID
	s.state.config = &cfg
	return nil
}

func (s *Store) UpdateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	defer s.lock(ctx)()
	if s.state.config == nil {
		return &db.NotFoundError{
			Key:     model.GlobalConfigID,
			Message: "global config is not initialized",
		}
	}
	cfg := *doc
	cfg.ID = model.GlobalConfigID
	s.state.config = &cfg
	return nil
}

func (s *Store) GetStakeCounter(ctx context.Context, staker types.Pubkey) (uint64, error) {
	defer s.lock(ctx)()
	return s.state.counters[staker.String()], nil
}

func (s *Store) AllocateStakeIndex(ctx context.Context, staker types.Pubkey) (uint64, error) {
	defer s.lock(ctx)()
	key := staker.String()
	idx := s.state.counters[key]
	if idx == math.MaxUint64 {
		return 0, types.ErrOverflow
	}
	s.state.counters[key] = idx + 1
	return idx, nil
}

func (s *Store) SaveNewStake(ctx context.Context, doc *model.StakeDocument) error {
	defer s.lock(ctx)()
	if _, ok := s.state.stakes[doc.ID]; ok {
		return &db.DuplicateKeyError{Key: doc.ID, Message: "stake already exists"}
	}
	s.state.stakes[doc.ID] = *doc
	return nil
}

func (s *Store) GetStake(ctx context.Context, staker types.Pubkey, index uint64) (*model.StakeDocument, error) {
	defer s.lock(ctx)()
	id := model.StakeID(staker, index)
	doc, ok := s.state.stakes[id]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     id,
			Message: fmt.Sprintf("stake %d of %s not found", index, staker),
		}
	}
	return &doc, nil
}

func (s *Store) GetStakesByStaker(
	ctx context.Context, staker types.Pubkey, fromIndex uint64, limit int64,
) ([]*model.StakeDocument, error) {
	defer s.lock(ctx)()
	key := staker.String()
	var out []*model.StakeDocument
	for _, doc := range s.state.stakes {
		if doc.Staker == key && doc.Index >= fromIndex {
			d := doc
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkStakeClaimed(ctx context.Context, staker types.Pubkey, index uint64, claimedAt int64) error {
	defer s.lock(ctx)()
	id := model.StakeID(staker, index)
	doc, ok := s.state.stakes[id]
	if !ok || doc.Claimed {
		return &db.NotFoundError{
			Key:     id,
			Message: fmt.Sprintf("unclaimed stake %d of %s not found", index, staker),
		}
	}
	doc.Claimed = true
	doc.ClaimedAt = claimedAt
	s.state.stakes[id] = doc
	return nil
}

func (s *Store) SaveNewTimeLock(ctx context.Context, doc *model.TimeLockDocument) error {
	defer s.lock(ctx)()
	if _, ok := s.state.timelocks[doc.StakeID]; ok {
		return &db.DuplicateKeyError{Key: doc.StakeID, Message: "timelock already exists"}
	}
	s.state.timelocks[doc.StakeID] = *doc
	return nil
}

func (s *Store) FindUnlockedStakes(ctx context.Context, now int64, limit uint64) ([]model.TimeLockDocument, error) {
	defer s.lock(ctx)()
	var out []model.TimeLockDocument
	for _, tl := range s.state.timelocks {
		if tl.UnlockTime <= now {
			out = append(out, tl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnlockTime != out[j].UnlockTime {
			return out[i].UnlockTime < out[j].UnlockTime
		}
		return out[i].StakeID < out[j].StakeID
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DeleteTimeLock(ctx context.Context, stakeID string) error {
	defer s.lock(ctx)()
	if _, ok := s.state.timelocks[stakeID]; !ok {
		return &db.NotFoundError{
			Key:     stakeID,
			Message: fmt.Sprintf("no timelock found for stake %v", stakeID),
		}
	}
	delete(s.state.timelocks, stakeID)
	return nil
}
