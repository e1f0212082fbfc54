// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"

	"github.com/pfctl/pfctl/internal/propval"
	"github.com/pfctl/pfctl/internal/quantity"
)

// Operator semantics shared by the evaluator and the compiler. A missing
// operand is carried as ok == false.

// LookupFunc returns the value of a property and whether it is present.
type LookupFunc func(name string) (propval.Value, bool)

// LookupWithUnitFunc returns the value of a property read in unit.
type LookupWithUnitFunc func(name, unit string) (propval.Value, bool, error)

// SetLookups returns the two lookup callbacks backed by set.
func SetLookups(set propval.Set) (LookupFunc, LookupWithUnitFunc) {
	lookup := func(name string) (propval.Value, bool) {
		return set.TryGet(name)
	}
	return lookup, UnitLookup(lookup)
}

// UnitLookup derives a LookupWithUnitFunc from lookup. The unit is only
// resolved for present properties.
func UnitLookup(lookup LookupFunc) LookupWithUnitFunc {
	return func(name, unit string) (propval.Value, bool, error) {
		v, ok := lookup(name)
		if !ok {
			return propval.Value{}, false, nil
		}
		out, err := inUnit(v, unit)
		return out, err == nil, err
	}
}

func noLookup(string) (propval.Value, bool) {
	return propval.Value{}, false
}

// normalizeLookups fills in missing callbacks.
func normalizeLookups(lookup LookupFunc, withUnit LookupWithUnitFunc) (LookupFunc, LookupWithUnitFunc) {
	if lookup == nil {
		lookup = noLookup
	}
	if withUnit == nil {
		withUnit = UnitLookup(lookup)
	}
	return lookup, withUnit
}

// inUnit reads v as an amount in the named unit. Integers take the unit;
// amounts are converted.
func inUnit(v propval.Value, unit string) (propval.Value, error) {
	u, err := quantity.Lookup(unit)
	if err != nil {
		return propval.Value{}, &UnknownUnitError{Unit: unit}
	}
	switch v.Kind() {
	case propval.KindInteger:
		return propval.FromAmount(quantity.New(float64(v.Int()), u)), nil
	case propval.KindAmount:
		a, err := v.Amount().In(u)
		if err != nil {
			return propval.Value{}, &TypeMismatchError{Op: ":" + unit, Left: v.Kind(), Right: propval.KindAmount, Err: fmt.Errorf("%w: %w", propval.ErrTypeMismatch, err)}
		}
		return propval.FromAmount(a), nil
	}
	return propval.Value{}, &TypeMismatchError{Op: ":" + unit, Left: v.Kind(), Right: propval.KindAmount}
}

// wrapOpError types errors coming back from propval arithmetic.
func wrapOpError(op string, l, r propval.Value, err error) error {
	switch {
	case errors.Is(err, propval.ErrDivideByZero):
		return fmt.Errorf("operator %s: %w", op, err)
	case errors.Is(err, propval.ErrTypeMismatch):
		return &TypeMismatchError{Op: op, Left: l.Kind(), Right: r.Kind(), Err: err}
	}
	return err
}

// arith applies a binary arithmetic operator.
func arith(op ArithOp, l propval.Value, lok bool, r propval.Value, rok bool) (propval.Value, bool, error) {
	if !lok || !rok {
		return propval.Value{}, false, nil
	}

	var (
		v   propval.Value
		err error
	)
	switch op {
	case OpPlus:
		v, err = l.Add(r)
	case OpMinus:
		v, err = l.Sub(r)
	case OpTimes:
		v, err = l.Mul(r)
	case OpDivide:
		v, err = l.Div(r)
	case OpModulo:
		v, err = l.Mod(r)
	default:
		return propval.Value{}, false, fmt.Errorf("unknown operator %q", op)
	}
	if err != nil {
		return propval.Value{}, false, wrapOpError(string(op), l, r, err)
	}
	return v, true, nil
}

// negate applies unary minus.
func negate(v propval.Value, ok bool) (propval.Value, bool, error) {
	if !ok {
		return propval.Value{}, false, nil
	}
	out, err := v.Neg()
	if err != nil {
		return propval.Value{}, false, &TypeMismatchError{Op: "-", Left: v.Kind(), Right: v.Kind(), Err: err}
	}
	return out, true, nil
}

// compare applies an ordering operator. A missing operand never matches.
func compare(op CompareOp, l propval.Value, lok bool, r propval.Value, rok bool) (bool, error) {
	if !lok || !rok {
		return false, nil
	}
	c, err := l.Compare(r)
	if err != nil {
		return false, wrapOpError(string(op), l, r, err)
	}
	switch op {
	case OpLess:
		return c < 0, nil
	case OpLessEqual:
		return c <= 0, nil
	case OpGreater:
		return c > 0, nil
	case OpGreaterEqual:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unknown operator %q", op)
}

// bound is an evaluated range endpoint.
type bound struct {
	val propval.Value
	ok  bool
}

// inRange tests left against one inclusive range. A missing left matches
// only a range whose bounds are both missing; a present left needs both
// bounds present.
func inRange(l propval.Value, lok bool, lo, hi bound) (bool, error) {
	if !lok {
		return !lo.ok && !hi.ok, nil
	}
	if !lo.ok || !hi.ok {
		return false, nil
	}
	c, err := l.Compare(lo.val)
	if err != nil {
		return false, wrapOpError("=", l, lo.val, err)
	}
	if c < 0 {
		return false, nil
	}
	c, err = l.Compare(hi.val)
	if err != nil {
		return false, wrapOpError("=", l, hi.val, err)
	}
	return c <= 0, nil
}

// applyEquals turns the disjunction result into the operator result.
func applyEquals(op EqualsOp, matched bool) bool {
	if op == OpNotEquals {
		return !matched
	}
	return matched
}
