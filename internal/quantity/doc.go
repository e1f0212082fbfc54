// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package quantity models physical amounts: a magnitude paired with a unit.
//
// Units carry a dimension vector over the seven SI base quantities plus an
// affine mapping (offset, then factor) onto the SI base unit, which covers the
// temperature scales. The unit registry is built once on first use and is
// read-only afterwards, so lookups are safe from any goroutine. Names match
// case-insensitively: "meter", "Meter" and "METER" are the same unit.
//
// Amounts compare with a tolerance: both sides are converted to the base unit
// and the ten least significant mantissa bits are rounded away before
// ordering, so values that differ only by conversion noise are equal.
package quantity
