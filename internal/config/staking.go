package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/skorlabs/skorstaking/internal/types"
)

type StakingConfig struct {
	// ProgramID seeds every derived custody address of the deployment.
	ProgramID string `mapstructure:"program-id"`
	// AdminKeypair is the operator key the CLI signs admin operations with.
	AdminKeypair string `mapstructure:"admin-keypair"`
	// AllowDevMint enables minting test tokens through the API.
	AllowDevMint     bool          `mapstructure:"allow-dev-mint"`
	SignatureMaxSkew time.Duration `mapstructure:"signature-max-skew"`
}

const defaultSignatureMaxSkew = 5 * time.Minute

func (cfg *StakingConfig) Validate() error {
	if cfg.ProgramID == "" {
		return errors.New("program-id is required")
	}
	if _, err := types.ParsePubkey(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program-id: %w", err)
	}
	if cfg.SignatureMaxSkew <= 0 {
		cfg.SignatureMaxSkew = defaultSignatureMaxSkew
	}
	return nil
}

func (cfg *StakingConfig) ProgramPubkey() types.Pubkey {
	pk, _ := types.ParsePubkey(cfg.ProgramID)
	return pk
}
