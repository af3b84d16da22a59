package types

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const PubkeyLength = 32

// Pubkey is a 32 byte account identity, rendered in base58.
type Pubkey [PubkeyLength]byte

var ZeroPubkey Pubkey

func ParsePubkey(s string) (Pubkey, error) {
	var pk Pubkey
	if s == "" {
		return pk, fmt.Errorf("empty public key")
	}
	raw := base58.Decode(s)
	if len(raw) != PubkeyLength {
		return pk, fmt.Errorf("invalid public key %q: expected %d bytes, got %d", s, PubkeyLength, len(raw))
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustParsePubkey panics on malformed input, used for compiled-in program ids.
func MustParsePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != PubkeyLength {
		return pk, fmt.Errorf("invalid public key length %d", len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

func (p Pubkey) Bytes() []byte {
	return p[:]
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(b []byte) error {
	pk, err := ParsePubkey(string(b))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}
