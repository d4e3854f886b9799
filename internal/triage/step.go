package triage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/pkg/util"
)

// RunStep executes one idempotent unit of work with a bounded retry
// budget. Retriable faults are retried until the budget is exhausted;
// non-retriable faults and context cancellation short-circuit
// immediately. The unit must be safe to re-run: a pure read or a
// full-field overwrite.
func RunStep(ctx context.Context, logger *zap.Logger, name string, attempts int, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !util.IsRetriable(err) {
			logger.Warn("step failed with non-retriable fault",
				zap.String("step", name),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		if attempt < attempts {
			logger.Warn("step failed, retrying",
				zap.String("step", name),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
	}
	logger.Warn("step exhausted retry budget",
		zap.String("step", name),
		zap.Int("attempts", attempts),
		zap.Error(err))
	return err
}
