// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics reports counters about the annotator's own operation
// (samples loaded, duplicate entries, blocks annotated, profiles
// adopted/rejected) via OTel metric instruments, for compiler-build
// observability dashboards rather than end-user output.
package metrics
