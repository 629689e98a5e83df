package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "beneficiary not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeWriteFailure, "commit failed"))
		assert.True(t, HasCode(err, CodeWriteFailure))
	})

	t.Run("matches nested coded errors", func(t *testing.T) {
		inner := New(CodeConflict, "stale version")
		err := Wrap(inner, CodeWriteFailure, "failed to commit audit")
		assert.True(t, HasCode(err, CodeWriteFailure))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestCodeOfAndRetryable(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeTimeout, CodeOf(New(CodeTimeout, "cancelled")))

	assert.True(t, IsRetryable(New(CodeWriteFailure, "commit failed")))
	assert.False(t, IsRetryable(New(CodeNotFound, "missing")))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeWriteFailure, "failed to commit audit")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to commit audit", MessageOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}
