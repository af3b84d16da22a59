package clock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/observability/metrics"
)

// Clock reports the current time as unix seconds.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

type queryFunc func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// NTPClock is the system clock corrected by the offset measured against an
// NTP server. Until the first successful Sync it behaves as the system clock.
type NTPClock struct {
	server  string
	timeout time.Duration
	offset  atomic.Int64
	query   queryFunc
}

func NewNTPClock(server string, timeout time.Duration) *NTPClock {
	return &NTPClock{
		server:  server,
		timeout: timeout,
		query:   ntp.QueryWithOptions,
	}
}

func (c *NTPClock) Now() int64 {
	return time.Now().Add(c.Offset()).Unix()
}

func (c *NTPClock) Offset() time.Duration {
	return time.Duration(c.offset.Load())
}

// Sync queries the server and stores the measured offset.
func (c *NTPClock) Sync(ctx context.Context) error {
	resp, err := c.query(c.server, ntp.QueryOptions{Timeout: c.timeout})
	if err != nil {
		return fmt.Errorf("failed to query ntp server %s: %w", c.server, err)
	}
	if err := resp.Validate(); err != nil {
		return fmt.Errorf("invalid ntp response from %s: %w", c.server, err)
	}
	c.offset.Store(int64(resp.ClockOffset))
	metrics.RecordClockOffset(resp.ClockOffset)
	log.Ctx(ctx).Debug().
		Str("server", c.server).
		Dur("offset", resp.ClockOffset).
		Msg("clock offset updated")
	return nil
}

// Monotonic never reports a time earlier than one it already returned.
type Monotonic struct {
	mu   sync.Mutex
	src  Clock
	last int64
}

func NewMonotonic(src Clock) *Monotonic {
	return &Monotonic{src: src}
}

func (m *Monotonic) Now() int64 {
	now := m.src.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if now < m.last {
		return m.last
	}
	m.last = now
	return now
}

// Manual is a settable clock for tests and tooling.
type Manual struct {
	now atomic.Int64
}

func NewManual(now int64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

func (m *Manual) Now() int64 {
	return m.now.Load()
}

func (m *Manual) Set(now int64) {
	m.now.Store(now)
}

func (m *Manual) Advance(d time.Duration) {
	m.now.Add(int64(d / time.Second))
}
