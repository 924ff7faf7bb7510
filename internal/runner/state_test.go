package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_CleanState(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "run"))

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)

	failed, err := store.LoadFailedProbes()
	require.NoError(t, err)
	assert.Empty(t, failed)

	res, err := store.ReadProbeResult("generic:identity")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestStateStore_ProbeFileNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	require.NoError(t, store.WriteProbeResult(Result{Probe: "generic:identity", Status: StatusPass}))

	_, err := os.Stat(filepath.Join(dir, "probes", "generic_identity.json"))
	require.NoError(t, err)

	res, err := store.ReadProbeResult("generic:identity")
	require.NoError(t, err)
	assert.Equal(t, "generic:identity", res.Probe)
}

func TestStateStore_CorruptLastRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "last-run.json"), []byte("{"), 0o600))

	_, err := NewStateStore(dir).ReadLastRun()
	assert.Error(t, err)
}

func TestStateStore_Reset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	store := NewStateStore(dir)
	require.NoError(t, store.WriteLastRun(LastRun{Status: "pass"}))

	require.NoError(t, store.Reset())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
