package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/welschma/InclusiveKinematicFit/settings"
)

// TestSetGet_RoundTrip stores and reads back a value.
func TestSetGet_RoundTrip(t *testing.T) {
	settings.Set("roundtrip", []int{1, 2, 3})

	got, err := settings.Get("roundtrip")
	require.NoError(t, err, "set key must be readable")
	assert.Equal(t, []int{1, 2, 3}, got, "value survives the round trip")
}

// TestGet_MissingKey fails with the sentinel for unset keys.
func TestGet_MissingKey(t *testing.T) {
	_, err := settings.Get("never-set")
	assert.ErrorIs(t, err, settings.ErrNotFound, "missing key must error")
}

// TestSet_OverwriteWarns logs a warning through the global zap logger
// when an existing key is redefined.
func TestSet_OverwriteWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	settings.Set("overwrite", 1)
	assert.Zero(t, logs.Len(), "first set is silent")

	settings.Set("overwrite", 2)
	require.Equal(t, 1, logs.Len(), "overwrite must warn")
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "overwriting", "warning names the overwrite")

	got, err := settings.Get("overwrite")
	require.NoError(t, err)
	assert.Equal(t, 2, got, "overwrite still takes effect")
}
