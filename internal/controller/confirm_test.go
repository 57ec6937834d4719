package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmSingleAcquire(t *testing.T) {
	var c Confirm
	c.Begin("42", "B-TR 1234")
	require.True(t, c.Active())

	assert.True(t, c.TryAcquire())
	assert.False(t, c.TryAcquire(), "double confirm sends exactly one delete")
	assert.True(t, c.Busy())
}

func TestConfirmFinishFailureKeepsDialog(t *testing.T) {
	var c Confirm
	c.Begin("42", "B-TR 1234")
	require.True(t, c.TryAcquire())

	c.Finish(false)
	assert.True(t, c.Active(), "failed delete leaves the dialog armed")
	assert.False(t, c.Busy())
	assert.True(t, c.TryAcquire(), "retry is possible after a failure")
}

func TestConfirmFinishSuccessClears(t *testing.T) {
	var c Confirm
	c.Begin("42", "B-TR 1234")
	require.True(t, c.TryAcquire())

	c.Finish(true)
	assert.False(t, c.Active())
	assert.False(t, c.TryAcquire(), "nothing to acquire once the target is gone")
}

func TestConfirmCancel(t *testing.T) {
	var c Confirm
	c.Begin("42", "B-TR 1234")
	c.Cancel()
	assert.False(t, c.Active())
	assert.False(t, c.TryAcquire())
}
