package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/config"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/types"
)

// Publisher delivers committed staking events to downstream consumers.
type Publisher interface {
	SendStakingEvent(ctx context.Context, ev *types.StakingEvent) error
	Shutdown()
}

var errNotConfirmed = errors.New("message was not confirmed by the broker")

type QueueManager struct {
	cfg *config.QueueConfig

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewQueueManager connects to the broker and declares the events queue. A
// disabled queue yields a manager that drops every event.
func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	qm := &QueueManager{cfg: cfg}
	if !cfg.Enabled {
		log.Info().Msg("Queue disabled, staking events will not be published")
		return qm, nil
	}
	if err := qm.connect(); err != nil {
		return nil, err
	}
	return qm, nil
}

func (qm *QueueManager) dialURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(qm.cfg.QueueUser, qm.cfg.QueuePassword),
		Host:   qm.cfg.Url,
	}
	return u.String()
}

// connect must be called with mu held or before the manager is shared.
func (qm *QueueManager) connect() error {
	conn, err := amqp.Dial(qm.dialURL())
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	_, err = ch.QueueDeclare(
		qm.cfg.QueueName,
		true,  // durable
		false, // auto delete
		false, // exclusive
		false, // no wait
		amqp.Table{"x-queue-type": qm.cfg.QueueType},
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", qm.cfg.QueueName, err)
	}
	qm.conn = conn
	qm.channel = ch
	return nil
}

func (qm *QueueManager) SendStakingEvent(ctx context.Context, ev *types.StakingEvent) error {
	if !qm.cfg.Enabled {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.EventType, err)
	}

	err = retry.Do(
		func() error {
			return qm.publish(ctx, ev.EventType, body)
		},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MsgMaxRetryAttempts),
		retry.Delay(qm.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().
				Err(err).
				Uint("attempt", n+1).
				Stringer("event_type", ev.EventType).
				Msg("failed to publish staking event, retrying")
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish %s event: %w", ev.EventType, err)
	}
	return nil
}

func (qm *QueueManager) publish(ctx context.Context, eventType types.EventType, body []byte) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.conn == nil || qm.conn.IsClosed() {
		if err := qm.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	confirmation, err := qm.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		"", // default exchange routes by queue name
		qm.cfg.QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.New().String(),
			Type:         eventType.String(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		// force a reconnect on the next attempt
		qm.conn.Close()
		return err
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errNotConfirmed
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	qm.mu.Lock()
	defer qm.mu.Unlock()
	if qm.conn == nil {
		return
	}
	if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		log.Error().Err(err).Msg("Failed to close queue connection")
	}
	qm.conn = nil
	qm.channel = nil
}
