package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFillsInDefaultSampleDataName(t *testing.T) {
	cfg := Config{SampleProfileEnabled: true}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultSampleDataName, cfg.SampleDataName)
}

func TestValidateKeepsExplicitSampleDataName(t *testing.T) {
	cfg := Config{SampleDataName: "custom.data"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "custom.data", cfg.SampleDataName)
}

func TestValidateDisablesSampleProfileOnConflict(t *testing.T) {
	cfg := Config{SampleProfileEnabled: true, BranchProbabilities: true}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.SampleProfileEnabled)
	assert.True(t, cfg.BranchProbabilities)
}

func TestValidateLeavesNonConflictingFlagsAlone(t *testing.T) {
	cfg := Config{SampleProfileEnabled: true, ProfileDump: true, DumpFile: "prof.compare.sample"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.SampleProfileEnabled)
	assert.True(t, cfg.ProfileDump)
	assert.Equal(t, "prof.compare.sample", cfg.DumpFile)
}
