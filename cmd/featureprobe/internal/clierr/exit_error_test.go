package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("duplicate probe name")

	assert.Equal(t, ExitOK, ExitCodeOf(nil))
	assert.Equal(t, 1, ExitCodeOf(cause))
	assert.Equal(t, ExitSetup, ExitCodeOf(Wrap(ExitSetup, "cannot run probes", cause)))
	assert.Equal(t, ExitSetup, ExitCodeOf(fmt.Errorf("outer: %w", New(ExitSetup, "bad table"))))
	assert.Equal(t, 1, ExitCodeOf(New(0, "zero is not an error code")))
}

func TestExitError_Wrapping(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(ExitProbeFailed, cause, "probe %s", "async:fetch")

	assert.EqualError(t, err, "probe async:fetch: boom")
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, Wrap(ExitSetup, "plain", nil), "plain")
}
