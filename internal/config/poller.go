package config

import (
	"errors"
	"time"
)

type PollerConfig struct {
	UnlockCheckerPollingInterval time.Duration `mapstructure:"unlock-checker-polling-interval"`
	UnlockedStakesLimit          uint64        `mapstructure:"unlocked-stakes-limit"`
	StatsPollingInterval         time.Duration `mapstructure:"stats-polling-interval"`
	ClockSyncInterval            time.Duration `mapstructure:"clock-sync-interval"`
}

const (
	defaultStatsPollingInterval = 5 * time.Minute
	defaultClockSyncInterval    = 10 * time.Minute
)

func (cfg *PollerConfig) Validate() error {
	if cfg.UnlockCheckerPollingInterval <= 0 {
		return errors.New("unlock-checker-polling-interval must be positive")
	}

	if cfg.UnlockedStakesLimit <= 0 {
		return errors.New("unlocked-stakes-limit must be positive")
	}

	if cfg.StatsPollingInterval <= 0 {
		cfg.StatsPollingInterval = defaultStatsPollingInterval
	}

	if cfg.ClockSyncInterval <= 0 {
		cfg.ClockSyncInterval = defaultClockSyncInterval
	}

	return nil
}
