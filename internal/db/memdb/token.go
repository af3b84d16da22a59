package memdb

import (
	"context"
	"fmt"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

func (s *Store) SaveNewMint(ctx context.Context, doc *model.MintDocument) error {
	defer s.lock(ctx)()
	if _, ok := s.state.mints[doc.Address]; ok {
		return &db.DuplicateKeyError{Key: doc.Address, Message: "mint already exists"}
	}
	s.state.mints[doc.Address] = *doc
	return nil
}

func (s *Store) GetMint(ctx context.Context, address types.Pubkey) (*types.Mint, error) {
	defer s.lock(ctx)()
	doc, ok := s.state.mints[address.String()]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     address.String(),
			Message: fmt.Sprintf("mint %s not found", address),
		}
	}
	return doc.ToMint()
}

func (s *Store) IncreaseMintSupply(ctx context.Context, address types.Pubkey, amount uint64) error {
	defer s.lock(ctx)()
	key := address.String()
	doc, ok := s.state.mints[key]
	if !ok {
		return &db.NotFoundError{Key: key, Message: fmt.Sprintf("mint %s not found", address)}
	}
	if amount > maxStoredAmount || doc.Supply > maxStoredAmount-amount {
		return types.ErrOverflow
	}
	doc.Supply += amount
	s.state.mints[key] = doc
	return nil
}

func (s *Store) SaveNewTokenAccount(ctx context.Context, doc *model.TokenAccountDocument) error {
	defer s.lock(ctx)()
	if _, ok := s.state.accounts[doc.Address]; ok {
		return &db.DuplicateKeyError{Key: doc.Address, Message: "token account already exists"}
	}
	s.state.accounts[doc.Address] = *doc
	return nil
}

func (s *Store) GetTokenAccount(ctx context.Context, address types.Pubkey) (*types.TokenAccount, error) {
	defer s.lock(ctx)()
	doc, ok := s.state.accounts[address.String()]
	if !ok {
		return nil, tokenAccountNotFound(address)
	}
	return doc.ToTokenAccount()
}

func (s *Store) DebitTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	defer s.lock(ctx)()
	key := address.String()
	doc, ok := s.state.accounts[key]
	if !ok {
		return tokenAccountNotFound(address)
	}
	if doc.Amount < amount {
		return custody.ErrInsufficientFunds
	}
	doc.Amount -= amount
	s.state.accounts[key] = doc
	return nil
}

func (s *Store) CreditTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	defer s.lock(ctx)()
	key := address.String()
	doc, ok := s.state.accounts[key]
	if !ok {
		return tokenAccountNotFound(address)
	}
	if amount > maxStoredAmount || doc.Amount > maxStoredAmount-amount {
		return types.ErrOverflow
	}
	doc.Amount += amount
	s.state.accounts[key] = doc
	return nil
}

func tokenAccountNotFound(address types.Pubkey) error {
	return &db.NotFoundError{
		Key:     address.String(),
		Message: fmt.Sprintf("token account %s not found", address),
	}
}
