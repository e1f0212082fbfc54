// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output provides sorting, transformation, and emission utilities
// used by commands to present matched catalog entries as text tables, JSON,
// YAML or raw documents.
package output
