package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/pkg/util"
)

func TestRunStep_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), zap.NewNop(), "noop", 2, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunStep_RetriesTransientFaults(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), zap.NewNop(), "flaky", 3, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunStep_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), zap.NewNop(), "always-fails", 2, func(context.Context) error {
		calls++
		return errors.New("timeout")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRunStep_NonRetriableShortCircuits(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), zap.NewNop(), "missing", 5, func(context.Context) error {
		calls++
		return util.NewNotFound("ticket", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-retriable faults must not consume remaining attempts")
}

func TestRunStep_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RunStep(ctx, zap.NewNop(), "cancelled", 2, func(context.Context) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRunStep_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = RunStep(context.Background(), zap.NewNop(), "once", 0, func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	assert.Equal(t, 1, calls)
}
