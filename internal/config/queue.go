package config

import (
	"errors"
	"time"
)

type QueueConfig struct {
	// Enabled toggles event publishing; a disabled queue drops events.
	Enabled             bool          `mapstructure:"enabled"`
	QueueUser           string        `mapstructure:"queue-user"`
	QueuePassword       string        `mapstructure:"queue-password"`
	Url                 string        `mapstructure:"url"`
	QueueName           string        `mapstructure:"queue-name"`
	QueueType           string        `mapstructure:"queue-type"`
	PublishTimeout      time.Duration `mapstructure:"publish-timeout"`
	MsgMaxRetryAttempts uint          `mapstructure:"msg-max-retry-attempts"`
	RetryDelay          time.Duration `mapstructure:"retry-delay"`
}

const (
	defaultQueueName = "skorstaking_events"
	defaultQueueType = "quorum"
)

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Url == "" {
		return errors.New("url is required")
	}
	if cfg.QueueUser == "" || cfg.QueuePassword == "" {
		return errors.New("queue-user and queue-password are required")
	}
	if cfg.QueueName == "" {
		cfg.QueueName = defaultQueueName
	}
	switch cfg.QueueType {
	case "":
		cfg.QueueType = defaultQueueType
	case "quorum", "classic":
	default:
		return errors.New("queue-type must be quorum or classic")
	}
	if cfg.PublishTimeout <= 0 {
		return errors.New("publish-timeout must be positive")
	}
	if cfg.MsgMaxRetryAttempts == 0 {
		return errors.New("msg-max-retry-attempts must be positive")
	}
	if cfg.RetryDelay <= 0 {
		return errors.New("retry-delay must be positive")
	}
	return nil
}
