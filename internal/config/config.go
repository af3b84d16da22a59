package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "SKORSTAKING"

type Config struct {
	Db       DbConfig      `mapstructure:"db"`
	Staking  StakingConfig `mapstructure:"staking"`
	Server   ServerConfig  `mapstructure:"server"`
	Queue    QueueConfig   `mapstructure:"queue"`
	Poller   PollerConfig  `mapstructure:"poller"`
	Clock    ClockConfig   `mapstructure:"clock"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	LogLevel string        `mapstructure:"log-level"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := cfg.Staking.Validate(); err != nil {
		return fmt.Errorf("staking: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := cfg.Queue.Validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}
	if err := cfg.Clock.Validate(); err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid log-level %q: %w", cfg.LogLevel, err)
		}
	}
	return nil
}

// New reads the yaml config at cfgFile. Any key can be overridden from the
// environment, e.g. db.address as SKORSTAKING_DB_ADDRESS.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
