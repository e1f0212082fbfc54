// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"

	"github.com/pfctl/pfctl/internal/propval"
)

// EvalOption configures Evaluate.
type EvalOption func(*evalConfig)

type evalConfig struct {
	lenient bool
}

// Lenient makes every comparison that references a missing property true.
// It answers whether a filter could match a partially known record.
func Lenient(on bool) EvalOption {
	return func(c *evalConfig) {
		c.lenient = on
	}
}

// slot is one evaluation stack entry. Conditions set cond and truth;
// values set val and present.
type slot struct {
	val     propval.Value
	present bool
	cond    bool
	truth   bool
}

type evaluator struct {
	stack    []slot
	lookup   LookupFunc
	withUnit LookupWithUnitFunc
	lenient  bool
}

// Evaluate walks e against set and returns the filter result.
func Evaluate(e Expr, set propval.Set, opts ...EvalOption) (bool, error) {
	lookup, withUnit := SetLookups(set)
	return EvaluateWith(e, lookup, withUnit, opts...)
}

// EvaluateWith is Evaluate over lookup callbacks. A nil withUnit is derived
// from lookup.
func EvaluateWith(e Expr, lookup LookupFunc, withUnit LookupWithUnitFunc, opts ...EvalOption) (bool, error) {
	cfg := evalConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	lookup, withUnit = normalizeLookups(lookup, withUnit)

	ev := &evaluator{
		stack:    make([]slot, 0, 16),
		lookup:   lookup,
		withUnit: withUnit,
		lenient:  cfg.lenient,
	}
	if err := ev.visit(e); err != nil {
		return false, err
	}
	return ev.popBool()
}

func (ev *evaluator) pushBool(b bool) {
	ev.stack = append(ev.stack, slot{cond: true, truth: b})
}

func (ev *evaluator) pushValue(v propval.Value, present bool) {
	ev.stack = append(ev.stack, slot{val: v, present: present})
}

func (ev *evaluator) pop() slot {
	s := ev.stack[len(ev.stack)-1]
	ev.stack = ev.stack[:len(ev.stack)-1]
	return s
}

func (ev *evaluator) popBool() (bool, error) {
	s := ev.pop()
	if !s.cond {
		return false, ErrNotBoolean
	}
	return s.truth, nil
}

func (ev *evaluator) popValue() (propval.Value, bool, error) {
	s := ev.pop()
	if s.cond {
		return propval.Value{}, false, errNotValue
	}
	return s.val, s.present, nil
}

// evalValue visits e and pops the value it leaves.
func (ev *evaluator) evalValue(e Expr) (propval.Value, bool, error) {
	if err := ev.visit(e); err != nil {
		return propval.Value{}, false, err
	}
	return ev.popValue()
}

// refsMissing reports whether any property referenced under e is absent.
func (ev *evaluator) refsMissing(exprs ...Expr) bool {
	missing := false
	for _, e := range exprs {
		Walk(e, func(n Expr) bool {
			switch n := n.(type) {
			case *Identifier:
				_, ok := ev.lookup(n.Name)
				missing = missing || !ok
			case *IdentifierWithUnit:
				_, ok := ev.lookup(n.Name)
				missing = missing || !ok
			}
			return !missing
		})
	}
	return missing
}

func (ev *evaluator) visit(e Expr) error {
	switch n := e.(type) {
	case *Or:
		for _, c := range n.Children {
			if err := ev.visit(c); err != nil {
				return err
			}
			b, err := ev.popBool()
			if err != nil {
				return err
			}
			if b {
				ev.pushBool(true)
				return nil
			}
		}
		ev.pushBool(false)

	case *And:
		for _, c := range n.Children {
			if err := ev.visit(c); err != nil {
				return err
			}
			b, err := ev.popBool()
			if err != nil {
				return err
			}
			if !b {
				ev.pushBool(false)
				return nil
			}
		}
		ev.pushBool(true)

	case *Comparison:
		if ev.lenient && ev.refsMissing(n.Left, n.Right) {
			ev.pushBool(true)
			return nil
		}
		l, lok, err := ev.evalValue(n.Left)
		if err != nil {
			return err
		}
		if !lok {
			ev.pushBool(false)
			return nil
		}
		r, rok, err := ev.evalValue(n.Right)
		if err != nil {
			return err
		}
		b, err := compare(n.Op, l, lok, r, rok)
		if err != nil {
			return err
		}
		ev.pushBool(b)

	case *Equals:
		if ev.lenient {
			exprs := []Expr{n.Left}
			for _, r := range n.Ranges {
				exprs = append(exprs, r.Min, r.Max)
			}
			if ev.refsMissing(exprs...) {
				ev.pushBool(true)
				return nil
			}
		}
		l, lok, err := ev.evalValue(n.Left)
		if err != nil {
			return err
		}
		for _, r := range n.Ranges {
			if err := ev.visit(r); err != nil {
				return err
			}
			hi, hiok, err := ev.popValue()
			if err != nil {
				return err
			}
			lo, look, err := ev.popValue()
			if err != nil {
				return err
			}
			m, err := inRange(l, lok, bound{lo, look}, bound{hi, hiok})
			if err != nil {
				return err
			}
			if m {
				ev.pushBool(applyEquals(n.Op, true))
				return nil
			}
		}
		ev.pushBool(applyEquals(n.Op, false))

	case *ValueRange:
		// Pushes min then max.
		if err := ev.visit(n.Min); err != nil {
			return err
		}
		if n.IsSingle() {
			ev.stack = append(ev.stack, ev.stack[len(ev.stack)-1])
			return nil
		}
		return ev.visit(n.Max)

	case *Add:
		return ev.visitArith(n.Op, n.Left, n.Right)

	case *Multiply:
		return ev.visitArith(n.Op, n.Left, n.Right)

	case *Unary:
		v, ok, err := ev.evalValue(n.Operand)
		if err != nil {
			return err
		}
		v, ok, err = negate(v, ok)
		if err != nil {
			return err
		}
		ev.pushValue(v, ok)

	case *Identifier:
		v, ok := ev.lookup(n.Name)
		ev.pushValue(v, ok)

	case *IdentifierWithUnit:
		v, ok, err := ev.withUnit(n.Name, n.Unit)
		if err != nil {
			return err
		}
		ev.pushValue(v, ok)

	case *Value:
		ev.pushValue(n.Value, true)

	case *Null:
		ev.pushValue(propval.Value{}, false)

	case *Empty:
		ev.pushBool(true)

	default:
		return fmt.Errorf("unexpected node %T", e)
	}
	return nil
}

func (ev *evaluator) visitArith(op ArithOp, left, right Expr) error {
	l, lok, err := ev.evalValue(left)
	if err != nil {
		return err
	}
	r, rok, err := ev.evalValue(right)
	if err != nil {
		return err
	}
	v, ok, err := arith(op, l, lok, r, rok)
	if err != nil {
		return err
	}
	ev.pushValue(v, ok)
	return nil
}
