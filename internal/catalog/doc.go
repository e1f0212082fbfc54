// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package catalog loads product catalogs from JSON or YAML documents and
// scans their entries with property filters. Every entry becomes a
// propval.Set; nested objects and arrays flatten into dotted names so
// "dims.width" can be referenced from a filter.
package catalog
