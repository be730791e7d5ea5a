package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultUnwrapsErrorCause(t *testing.T) {
	cause := errors.New("underlying failure")
	f := newFault(cause)

	assert.Equal(t, cause, f.Unwrap())
	require.ErrorIs(t, f, cause)
}

func TestFaultUnwrapsNilForNonErrorCause(t *testing.T) {
	f := newFault("a string panic value")

	assert.Nil(t, f.Unwrap())
	assert.Equal(t, "a string panic value", f.Cause())
}

func TestFaultCapturesStack(t *testing.T) {
	f := newFault("boom")
	assert.NotEmpty(t, f.Stack())
}

func TestFaultErrorMessageMentionsCause(t *testing.T) {
	f := newFault("boom")
	assert.Contains(t, f.Error(), "boom")
}
