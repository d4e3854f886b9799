package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultTaxonomyRetriability(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retriable bool
	}{
		{"validation", NewValidationError("bad payload", nil), false},
		{"not found", NewNotFound("ticket", nil), false},
		{"classification", NewClassificationFault(errors.New("parse failed")), false},
		{"assignment", NewAssignmentFault("nobody eligible"), true},
		{"unknown errors assumed transient", errors.New("connection reset"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retriable, IsRetriable(tc.err))
		})
	}
}

func TestIsRetriable_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("step fetch-ticket: %w", NewNotFound("ticket", nil))
	assert.False(t, IsRetriable(wrapped))
}

func TestToDomainError_PreservesDomainErrors(t *testing.T) {
	original := NewNotFound("ticket", map[string]any{"ticket_id": "t1"})
	mapped := ToDomainError(original)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, "ticket not found", mapped.Message)
}

func TestToDomainError_WrapsUnknownErrors(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.True(t, mapped.Retriable)
	assert.ErrorContains(t, mapped, "internal server error")
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := errors.New("gemini api error 500")
	fault := NewClassificationFault(inner)
	assert.ErrorIs(t, fault, inner)
}
