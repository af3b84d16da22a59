package config

import "time"

type ClockConfig struct {
	// NTPServer enables offset correction when set.
	NTPServer string        `mapstructure:"ntp-server"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

const defaultNTPTimeout = 5 * time.Second

func (cfg *ClockConfig) Validate() error {
	if cfg.NTPServer != "" && cfg.Timeout <= 0 {
		cfg.Timeout = defaultNTPTimeout
	}
	return nil
}
