package config

import (
	"errors"
	"fmt"
)

const (
	MongoBackend  = "mongo"
	MemoryBackend = "memory"
)

type DbConfig struct {
	// Backend selects the store. "memory" keeps everything in process and
	// is meant for local runs.
	Backend  string `mapstructure:"backend"`
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	// MaxPaginationLimit bounds list queries.
	MaxPaginationLimit int64 `mapstructure:"max-pagination-limit"`
}

const defaultMaxPaginationLimit = 100

func (cfg *DbConfig) Validate() error {
	if cfg.Backend == "" {
		cfg.Backend = MongoBackend
	}
	if cfg.MaxPaginationLimit <= 0 {
		cfg.MaxPaginationLimit = defaultMaxPaginationLimit
	}

	switch cfg.Backend {
	case MemoryBackend:
		return nil
	case MongoBackend:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.Address == "" {
		return errors.New("address is required")
	}
	if cfg.DbName == "" {
		return errors.New("db-name is required")
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return errors.New("username and password must be set together")
	}
	return nil
}
