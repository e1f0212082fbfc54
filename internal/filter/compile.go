// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"

	"github.com/pfctl/pfctl/internal/propval"
)

// Predicate is a compiled filter. It is safe for concurrent use.
type Predicate func(lookup LookupFunc, withUnit LookupWithUnitFunc) (bool, error)

// Matches runs p against set.
func (p Predicate) Matches(set propval.Set) (bool, error) {
	return p(SetLookups(set))
}

type env struct {
	lookup   LookupFunc
	withUnit LookupWithUnitFunc
}

type (
	boolFn  func(*env) (bool, error)
	valueFn func(*env) (propval.Value, bool, error)
)

// Compile walks e once and composes a closure per node. The result agrees
// with Evaluate without leniency.
func Compile(e Expr) (Predicate, error) {
	fn, err := compileBool(e)
	if err != nil {
		return nil, err
	}
	return func(lookup LookupFunc, withUnit LookupWithUnitFunc) (bool, error) {
		lookup, withUnit = normalizeLookups(lookup, withUnit)
		return fn(&env{lookup: lookup, withUnit: withUnit})
	}, nil
}

func compileBool(e Expr) (boolFn, error) {
	switch n := e.(type) {
	case *Or:
		children, err := compileBools(n.Children)
		if err != nil {
			return nil, err
		}
		return func(en *env) (bool, error) {
			for _, c := range children {
				b, err := c(en)
				if err != nil || b {
					return b, err
				}
			}
			return false, nil
		}, nil

	case *And:
		children, err := compileBools(n.Children)
		if err != nil {
			return nil, err
		}
		return func(en *env) (bool, error) {
			for _, c := range children {
				b, err := c(en)
				if err != nil || !b {
					return false, err
				}
			}
			return true, nil
		}, nil

	case *Comparison:
		left, err := compileValue(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileValue(n.Right)
		if err != nil {
			return nil, err
		}
		op := n.Op
		return func(en *env) (bool, error) {
			l, lok, err := left(en)
			if err != nil || !lok {
				return false, err
			}
			r, rok, err := right(en)
			if err != nil {
				return false, err
			}
			return compare(op, l, lok, r, rok)
		}, nil

	case *Equals:
		return compileEquals(n)

	case *Empty:
		return func(*env) (bool, error) { return true, nil }, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotBoolean, e)
}

func compileBools(exprs []Expr) ([]boolFn, error) {
	out := make([]boolFn, len(exprs))
	for i, e := range exprs {
		fn, err := compileBool(e)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

type rangeFn struct {
	lo, hi valueFn
	single bool
}

func compileEquals(n *Equals) (boolFn, error) {
	left, err := compileValue(n.Left)
	if err != nil {
		return nil, err
	}
	ranges := make([]rangeFn, len(n.Ranges))
	for i, r := range n.Ranges {
		lo, err := compileValue(r.Min)
		if err != nil {
			return nil, err
		}
		hi := lo
		if !r.IsSingle() {
			if hi, err = compileValue(r.Max); err != nil {
				return nil, err
			}
		}
		ranges[i] = rangeFn{lo: lo, hi: hi, single: r.IsSingle()}
	}
	op := n.Op

	return func(en *env) (bool, error) {
		l, lok, err := left(en)
		if err != nil {
			return false, err
		}
		for _, r := range ranges {
			lo, look, err := r.lo(en)
			if err != nil {
				return false, err
			}
			hi, hiok := lo, look
			if !r.single {
				if hi, hiok, err = r.hi(en); err != nil {
					return false, err
				}
			}
			m, err := inRange(l, lok, bound{lo, look}, bound{hi, hiok})
			if err != nil {
				return false, err
			}
			if m {
				return applyEquals(op, true), nil
			}
		}
		return applyEquals(op, false), nil
	}, nil
}

func compileValue(e Expr) (valueFn, error) {
	switch n := e.(type) {
	case *Add:
		return compileArith(n.Op, n.Left, n.Right)

	case *Multiply:
		return compileArith(n.Op, n.Left, n.Right)

	case *Unary:
		operand, err := compileValue(n.Operand)
		if err != nil {
			return nil, err
		}
		return func(en *env) (propval.Value, bool, error) {
			v, ok, err := operand(en)
			if err != nil {
				return propval.Value{}, false, err
			}
			return negate(v, ok)
		}, nil

	case *Identifier:
		name := n.Name
		return func(en *env) (propval.Value, bool, error) {
			v, ok := en.lookup(name)
			return v, ok, nil
		}, nil

	case *IdentifierWithUnit:
		name, unit := n.Name, n.Unit
		return func(en *env) (propval.Value, bool, error) {
			return en.withUnit(name, unit)
		}, nil

	case *Value:
		v := n.Value
		return func(*env) (propval.Value, bool, error) {
			return v, true, nil
		}, nil

	case *Null:
		return func(*env) (propval.Value, bool, error) {
			return propval.Value{}, false, nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %T", errNotValue, e)
}

func compileArith(op ArithOp, left, right Expr) (valueFn, error) {
	l, err := compileValue(left)
	if err != nil {
		return nil, err
	}
	r, err := compileValue(right)
	if err != nil {
		return nil, err
	}
	return func(en *env) (propval.Value, bool, error) {
		lv, lok, err := l(en)
		if err != nil {
			return propval.Value{}, false, err
		}
		rv, rok, err := r(en)
		if err != nil {
			return propval.Value{}, false, err
		}
		return arith(op, lv, lok, rv, rok)
	}, nil
}
