package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GraphError
		want string
	}{
		{
			name: "without cause",
			err:  NewError(NOT_FOUND, "incident not found"),
			want: "[NOT_FOUND] incident not found",
		},
		{
			name: "with cause",
			err:  WrapError(DANGLING_REFERENCE, "target missing", fmt.Errorf("no node businessservice:9")),
			want: "[DANGLING_REFERENCE] target missing: no node businessservice:9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestGraphError_Unwrap(t *testing.T) {
	cause := errors.New("driver closed")
	err := WrapError(CONSTRAINT_VIOLATION, "upsert failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestGraphError_Is(t *testing.T) {
	err := NewError(NOT_FOUND, "node missing")

	assert.True(t, errors.Is(err, NewError(NOT_FOUND, "different message")))
	assert.False(t, errors.Is(err, NewError(DANGLING_REFERENCE, "node missing")))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(UNRESOLVED, "category unresolved"))

	assert.True(t, IsCode(err, UNRESOLVED))
	assert.False(t, IsCode(err, NOT_FOUND))
	assert.False(t, IsCode(errors.New("plain"), UNRESOLVED))
	assert.False(t, IsCode(nil, UNRESOLVED))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(MODEL_INVOCATION_FAILED, "timeout")))
	assert.False(t, IsRetryable(NewError(MODEL_INVOCATION_FAILED, "bad response")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
