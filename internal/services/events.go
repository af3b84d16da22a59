package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/types"
)

// emitEvent publishes an event of an operation that already committed. A
// failed publish can not undo the operation, so it is only logged.
func (s *Service) emitEvent(ctx context.Context, ev *types.StakingEvent) {
	if err := s.publisher.SendStakingEvent(ctx, ev); err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Stringer("event_type", ev.EventType).
			Str("staker", ev.Staker).
			Uint64("index", ev.Index).
			Msg("failed to publish staking event")
	}
}
