package model

import "github.com/skorlabs/skorstaking/internal/types"

type MintDocument struct {
	Address       string `bson:"_id"`
	Decimals      uint8  `bson:"decimals"`
	Supply        uint64 `bson:"supply"`
	MintAuthority string `bson:"mint_authority"`
}

func NewMintDocument(m *types.Mint) *MintDocument {
	return &MintDocument{
		Address:       m.Address.String(),
		Decimals:      m.Decimals,
		Supply:        m.Supply,
		MintAuthority: m.MintAuthority.String(),
	}
}

func (d *MintDocument) ToMint() (*types.Mint, error) {
	addr, err := types.ParsePubkey(d.Address)
	if err != nil {
		return nil, err
	}
	authority, err := types.ParsePubkey(d.MintAuthority)
	if err != nil {
		return nil, err
	}
	return &types.Mint{
		Address:       addr,
		Decimals:      d.Decimals,
		Supply:        d.Supply,
		MintAuthority: authority,
	}, nil
}

type TokenAccountDocument struct {
	Address string `bson:"_id"`
	Mint    string `bson:"mint"`
	Owner   string `bson:"owner"`
	Amount  uint64 `bson:"amount"`
}

func NewTokenAccountDocument(a *types.TokenAccount) *TokenAccountDocument {
	return &TokenAccountDocument{
		Address: a.Address.String(),
		Mint:    a.Mint.String(),
		Owner:   a.Owner.String(),
		Amount:  a.Amount,
	}
}

func (d *TokenAccountDocument) ToTokenAccount() (*types.TokenAccount, error) {
	addr, err := types.ParsePubkey(d.Address)
	if err != nil {
		return nil, err
	}
	mint, err := types.ParsePubkey(d.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := types.ParsePubkey(d.Owner)
	if err != nil {
		return nil, err
	}
	return &types.TokenAccount{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
		Amount:  d.Amount,
	}, nil
}
