package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicNeverGoesBack(t *testing.T) {
	src := NewManual(1_000)
	m := NewMonotonic(src)

	assert.Equal(t, int64(1_000), m.Now())
	src.Set(900)
	assert.Equal(t, int64(1_000), m.Now())
	src.Set(1_200)
	assert.Equal(t, int64(1_200), m.Now())
}

func TestManualAdvance(t *testing.T) {
	m := NewManual(0)
	m.Advance(30 * 24 * time.Hour)
	assert.Equal(t, int64(2_592_000), m.Now())
}

func TestNTPClockAppliesOffset(t *testing.T) {
	c := NewNTPClock("pool.example", time.Second)
	c.query = func(host string, opt ntp.QueryOptions) (*ntp.Response, error) {
		assert.Equal(t, "pool.example", host)
		assert.Equal(t, time.Second, opt.Timeout)
		now := time.Now()
		return &ntp.Response{
			ClockOffset:   time.Hour,
			Stratum:       2,
			Leap:          ntp.LeapNoWarning,
			Time:          now,
			ReferenceTime: now.Add(-time.Minute),
		}, nil
	}

	before := time.Now().Unix()
	require.NoError(t, c.Sync(context.Background()))
	assert.Equal(t, time.Hour, c.Offset())
	assert.GreaterOrEqual(t, c.Now(), before+3600)
}

func TestNTPClockKeepsOffsetOnFailure(t *testing.T) {
	c := NewNTPClock("pool.example", time.Second)
	c.offset.Store(int64(time.Minute))
	c.query = func(string, ntp.QueryOptions) (*ntp.Response, error) {
		return nil, errors.New("timeout")
	}

	assert.Error(t, c.Sync(context.Background()))
	assert.Equal(t, time.Minute, c.Offset())
}
