// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var definitions = []struct {
	id          MetricID
	name        string
	description string
}{
	{IDSamplesLoaded, "sampleprofile.samples_loaded",
		"flat and inline sample entries loaded from the sample data file"},
	{IDDuplicateFlatEntry, "sampleprofile.duplicate_flat_entry",
		"flat-entry key collisions at insertion, first entry kept"},
	{IDDuplicateInlineEntry, "sampleprofile.duplicate_inline_entry",
		"inline-entry key collisions at insertion, first entry kept"},
	{IDBlocksAnnotated, "sampleprofile.blocks_annotated",
		"basic blocks that annotation left with a nonzero count"},
	{IDProfileAdopted, "sampleprofile.profile_adopted",
		"functions whose smoothed profile was adopted"},
	{IDProfileRejected, "sampleprofile.profile_rejected",
		"functions whose counts were zeroed for too little annotation"},
}

var meter = otel.Meter("github.com/autofdo-go/sampleprofile")

var counters = make(map[MetricID]metric.Int64Counter, IDMax)

func init() {
	for _, d := range definitions {
		counter, err := meter.Int64Counter(d.name, metric.WithDescription(d.description))
		if err != nil {
			log.Errorf("creating Int64Counter %s: %v", d.name, err)
			continue
		}
		counters[d.id] = counter
	}
}

// Add reports a single metric value, incrementing its OTel counter. IDs
// outside the known range are logged and ignored rather than panicking,
// matching the pass's "warn, don't fail" policy for diagnostics.
func Add(ctx context.Context, id MetricID, value MetricValue) {
	if id <= IDInvalid || id >= IDMax {
		log.Errorf("metric id %d out of range [%d,%d)", id, IDInvalid+1, IDMax)
		return
	}
	counter, ok := counters[id]
	if !ok {
		log.Warnf("no counter registered for metric id %d, skipping", id)
		return
	}
	counter.Add(ctx, int64(value))
}

func (m MetricID) String() string {
	for _, d := range definitions {
		if d.id == m {
			return d.name
		}
	}
	return fmt.Sprintf("MetricID(%d)", uint16(m))
}
