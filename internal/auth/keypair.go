package auth

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skorlabs/skorstaking/internal/types"
)

// Keypair is an ed25519 signing identity. On disk it is a JSON array of the
// 64 secret key bytes, seed followed by public key.
type Keypair struct {
	priv ed25519.PrivateKey
}

func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv}, nil
}

func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length %d", len(seed))
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func LoadKeypair(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file %s: %w", path, err)
	}
	kp, err := ParseKeypair(data)
	if err != nil {
		return nil, fmt.Errorf("invalid keypair file %s: %w", path, err)
	}
	return kp, nil
}

func ParseKeypair(data []byte) (*Keypair, error) {
	// decoding into []byte would expect base64
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, err
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("expected %d bytes, got %d", ed25519.PrivateKeySize, len(ints))
	}
	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte %d out of range: %d", i, v)
		}
		raw[i] = byte(v)
	}
	kp, err := KeypairFromSeed(raw[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(kp.priv.Public().(ed25519.PublicKey), raw[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("public key does not match secret key")
	}
	return kp, nil
}

func (k *Keypair) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(k.priv))
	for i, b := range k.priv {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func (k *Keypair) Save(path string) error {
	data, err := k.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (k *Keypair) Pubkey() types.Pubkey {
	var pk types.Pubkey
	copy(pk[:], k.priv.Public().(ed25519.PublicKey))
	return pk
}

func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}
