// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

// MetricID is the type for metric IDs.
type MetricID uint16

// MetricValue is the type for metric values.
type MetricValue int64

const (
	IDInvalid MetricID = iota

	// IDSamplesLoaded counts flat + inline sample entries loaded by
	// profile.Load for the current compilation unit.
	IDSamplesLoaded

	// IDDuplicateFlatEntry counts flat-entry key collisions at insertion,
	// where the first-inserted entry is kept and the duplicate discarded.
	IDDuplicateFlatEntry

	// IDDuplicateInlineEntry is IDDuplicateFlatEntry's counterpart for the
	// inline store.
	IDDuplicateInlineEntry

	// IDBlocksAnnotated counts basic blocks that annotation left with a
	// nonzero count.
	IDBlocksAnnotated

	// IDProfileAdopted counts functions whose smoothed profile was
	// adopted (met the adoption criterion from the CFG Smoother).
	IDProfileAdopted

	// IDProfileRejected is IDProfileAdopted's counterpart: functions
	// whose counts were zeroed because too few blocks were annotated.
	IDProfileRejected

	IDMax
)
