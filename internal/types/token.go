package types

// Mint describes a fungible asset known to the token ledger.
type Mint struct {
	Address       Pubkey
	Decimals      uint8
	Supply        uint64
	MintAuthority Pubkey
}

// TokenAccount is a balance of one mint held by one owner.
type TokenAccount struct {
	Address Pubkey
	Mint    Pubkey
	Owner   Pubkey
	Amount  uint64
}
