// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package propval holds the attribute values filters are evaluated against.
//
// A Value is an Integer, an Amount (see package quantity) or Text. Values of
// different kinds never combine: arithmetic and ordering are only defined
// within one kind, with the exceptions of scaling an Amount by an Integer and
// concatenating two Texts.
//
// The encoded literal form is shared with the filter language:
//
//   - 12         Integer
//   - 1.5        dimensionless Amount
//   - 1.5:Meter  Amount in meters (unit names are case-insensitive)
//   - "a b"      Text; a double quote inside is written %22
//   - abc:text   Text (legacy)
//   - 12:integer Integer (legacy)
//
// A Set maps property names to values. Names are compared with Unicode case
// folding, so "Width" and "width" address the same property.
package propval
