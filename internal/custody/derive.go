package custody

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/skorlabs/skorstaking/internal/types"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"

	ConfigSeed         = "config"
	VaultAuthoritySeed = "vault_authority"
	StakeCounterSeed   = "stake_counter"
	StakeSeed          = "stake"
	RewardsPoolSeed    = "rewards_pool"
)

var (
	TokenProgramID           = types.MustParsePubkey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = types.MustParsePubkey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

var (
	ErrOnCurve        = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump   = errors.New("unable to find a viable program address bump")
	ErrMaxSeedsExceed = fmt.Errorf("more than %d seeds", MaxSeeds)
	ErrSeedTooLong    = fmt.Errorf("seed longer than %d bytes", MaxSeedLength)
)

// CreateProgramAddress hashes the seeds with the program id. The result is
// only valid as a program address when it is not a curve point, so no
// private key can sign for it.
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return types.ZeroPubkey, ErrMaxSeedsExceed
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return types.ZeroPubkey, ErrSeedTooLong
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr types.Pubkey
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return types.ZeroPubkey, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 down and returns the first
// off-curve address.
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return types.ZeroPubkey, 0, err
		}
	}
	return types.ZeroPubkey, 0, ErrNoViableBump
}

func IsOnCurve(p types.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// AssociatedTokenAddress is the canonical token account of owner for mint.
func AssociatedTokenAddress(owner, mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := FindProgramAddress(
		[][]byte{owner[:], TokenProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
	return addr, err
}

// Addresses derives the program owned identities of one deployment.
type Addresses struct {
	programID types.Pubkey
}

func NewAddresses(programID types.Pubkey) *Addresses {
	return &Addresses{programID: programID}
}

func (a *Addresses) Config() (types.Pubkey, error) {
	addr, _, err := FindProgramAddress([][]byte{[]byte(ConfigSeed)}, a.programID)
	return addr, err
}

func (a *Addresses) VaultAuthority() (types.Pubkey, uint8, error) {
	return FindProgramAddress([][]byte{[]byte(VaultAuthoritySeed)}, a.programID)
}

// Vault is the token account holding staked principal of mint. Only
// deposits and principal returns move through it.
func (a *Addresses) Vault(mint types.Pubkey) (types.Pubkey, error) {
	authority, _, err := a.VaultAuthority()
	if err != nil {
		return types.ZeroPubkey, err
	}
	return AssociatedTokenAddress(authority, mint)
}

// RewardsPool is the token account rewards of mint are funded into and paid
// from. It shares the vault authority but never holds principal.
func (a *Addresses) RewardsPool(mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := FindProgramAddress([][]byte{[]byte(RewardsPoolSeed), mint[:]}, a.programID)
	return addr, err
}

func (a *Addresses) StakeCounter(staker types.Pubkey) (types.Pubkey, error) {
	addr, _, err := FindProgramAddress([][]byte{staker[:], []byte(StakeCounterSeed)}, a.programID)
	return addr, err
}

func (a *Addresses) Stake(staker types.Pubkey, index uint64) (types.Pubkey, error) {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)
	addr, _, err := FindProgramAddress([][]byte{staker[:], []byte(StakeSeed), idx[:]}, a.programID)
	return addr, err
}
