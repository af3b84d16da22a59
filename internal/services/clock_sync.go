package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/utils/poller"
)

type clockSyncer interface {
	Sync(ctx context.Context) error
}

// RunClockSync keeps the offset of an NTP backed clock fresh. It blocks
// until ctx is cancelled.
func (s *Service) RunClockSync(ctx context.Context, syncer clockSyncer) {
	if err := syncer.Sync(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("initial clock sync failed, using local time")
	}
	syncPoller := poller.NewPoller(
		"clock_sync",
		s.cfg.Poller.ClockSyncInterval,
		metrics.RecordPollerDuration("clock_sync", syncer.Sync),
	)
	syncPoller.Start(ctx)
}
