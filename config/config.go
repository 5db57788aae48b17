// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the pass's configuration knobs: whether sample
// profiling is enabled, where its data file lives, and whether the
// diagnostic flow dump is active.
package config

import (
	log "github.com/sirupsen/logrus"
)

// defaultSampleDataName is the sample file name used when SampleDataName
// is left empty, matching the source's default `sp.data`.
const defaultSampleDataName = "sp.data"

// Config is the sample-profile pass's configuration, built once per
// compilation unit and passed explicitly rather than held in package
// globals.
type Config struct {
	// SampleProfileEnabled activates the pass. Requires SampleDataName to
	// exist and contain at least one record; see profile.Load.
	SampleProfileEnabled bool

	// BranchProbabilities is mutually exclusive with sample profiling and
	// takes precedence: if both are set, Validate disables
	// SampleProfileEnabled and logs a warning rather than failing.
	BranchProbabilities bool

	// SampleDataName is the path to the sample data file. Empty means the
	// default "sp.data" in the working directory.
	SampleDataName string

	// ProfileDump enables the CFG flow-analysis dumper.
	ProfileDump bool

	// DumpFile is the sink that receives the flow-analysis dump (one
	// header line and one record per edge, see package dump) when
	// ProfileDump is set; no per-block records are written to it. Empty
	// disables writing even if ProfileDump is true.
	DumpFile string
}

// Validate resolves the branch-probabilities/sample-profile conflict and
// fills in defaults. It never returns an error for the conflict case —
// that's a warn-and-disable, not a failure — matching the "disable on
// conflict" policy from scenario S4.
func (c *Config) Validate() error {
	if c.SampleDataName == "" {
		c.SampleDataName = defaultSampleDataName
	}

	if c.BranchProbabilities && c.SampleProfileEnabled {
		log.Warnf("branch-probabilities and sample-profile both enabled; " +
			"disabling sample-profile")
		c.SampleProfileEnabled = false
	}

	return nil
}
