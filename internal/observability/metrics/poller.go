package metrics

import (
	"context"
	"time"
)

// pollerFunction alias is private and should be used only here
type pollerFunction = func(ctx context.Context) error

func RecordPollerDuration(typ string, f pollerFunction) pollerFunction {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)
		pollerDurationHistogram.
			WithLabelValues(typ, outcomeOf(err != nil).String()).
			Observe(time.Since(startTime).Seconds())
		return err
	}
}
