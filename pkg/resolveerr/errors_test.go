package resolveerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	err := New(CodeValidation, "bad input")
	assert.True(t, Is(err, CodeValidation))
	assert.False(t, Is(err, CodeMatch))
	assert.False(t, Is(errors.New("plain"), CodeValidation))
}

func TestWith(t *testing.T) {
	err := New(CodeMergeConflict, "conflict").WithField("email").WithRecordID("r1").WithOperation("merge")
	assert.Equal(t, "email", err.Context["field"])
	assert.Equal(t, "r1", err.Context["record_id"])
	assert.Equal(t, "merge", err.Context["operation"])
}

func TestWrap(t *testing.T) {
	cause := errors.New("network reset")
	err := Wrap(CodeServiceNetwork, cause, "call failed")

	require.Error(t, err)
	assert.True(t, Is(err, CodeServiceNetwork))
	assert.ErrorIs(t, err, cause)
	assert.NotNil(t, err.Cause())
}

func TestError_MessageFormatting(t *testing.T) {
	plain := New(CodeValidation, "bad input")
	assert.Equal(t, "validation_error: bad input", plain.Error())

	withCtx := New(CodeValidation, "bad input").WithField("email")
	assert.Contains(t, withCtx.Error(), "bad input")
	assert.Contains(t, withCtx.Error(), "email")
}
