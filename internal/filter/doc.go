// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filter implements the property filter language.
//
// A filter such as
//
//	length+15:meter>width&(kind="pump"|flow=1~5:literpersecond,10:literpersecond)
//
// is normalized, parsed into an Expr tree and compiled into a Predicate.
// The tree can also be walked directly with Evaluate, which supports a
// lenient mode where comparisons against missing properties are true.
// Both paths share the same operator semantics and agree on every input.
//
// The legacy forms "a=1;b=2;" and "{a=1;}{b=2;}" are rewritten to
// "a=1&b=2" and "(a=1)|(b=2)" before parsing.
package filter
