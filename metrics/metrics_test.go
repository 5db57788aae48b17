package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIgnoresOutOfRangeID(t *testing.T) {
	assert.NotPanics(t, func() {
		Add(context.Background(), IDInvalid, 1)
		Add(context.Background(), IDMax, 1)
	})
}

func TestMetricIDStringNamesKnownIDs(t *testing.T) {
	assert.Equal(t, "sampleprofile.samples_loaded", IDSamplesLoaded.String())
}

func TestMetricIDStringFallsBackForUnknownID(t *testing.T) {
	assert.Equal(t, "MetricID(9999)", MetricID(9999).String())
}
