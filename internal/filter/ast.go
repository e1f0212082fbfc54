// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import "github.com/pfctl/pfctl/internal/propval"

// Expr is a node of a parsed filter. The set of node types is closed; every
// pass over the tree switches on the concrete type.
type Expr interface {
	Position() Pos
	expr()
}

// CompareOp is an ordering operator.
type CompareOp string

const (
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
)

// EqualsOp is a membership operator.
type EqualsOp string

const (
	OpEquals    EqualsOp = "="
	OpNotEquals EqualsOp = "!="
)

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	OpPlus   ArithOp = "+"
	OpMinus  ArithOp = "-"
	OpTimes  ArithOp = "*"
	OpDivide ArithOp = "/"
	OpModulo ArithOp = "%"
)

type (
	// Or is true when any child is true.
	Or struct {
		Pos      Pos
		Children []Expr
	}

	// And is true when every child is true.
	And struct {
		Pos      Pos
		Children []Expr
	}

	// Comparison orders two values.
	Comparison struct {
		Pos   Pos
		Left  Expr
		Op    CompareOp
		Right Expr
	}

	// Equals tests Left against a disjunction of inclusive ranges.
	Equals struct {
		Pos    Pos
		Left   Expr
		Op     EqualsOp
		Ranges []*ValueRange
	}

	// ValueRange is min~max. A single value shares one node for both bounds.
	ValueRange struct {
		Pos Pos
		Min Expr
		Max Expr
	}

	// Add is Left + Right or Left - Right.
	Add struct {
		Pos   Pos
		Left  Expr
		Op    ArithOp
		Right Expr
	}

	// Multiply is Left * Right, Left / Right or Left % Right.
	Multiply struct {
		Pos   Pos
		Left  Expr
		Op    ArithOp
		Right Expr
	}

	// Unary negates Operand.
	Unary struct {
		Pos     Pos
		Operand Expr
	}

	// Identifier references a property.
	Identifier struct {
		Pos  Pos
		Name string
	}

	// IdentifierWithUnit references an integer property and reads it as an
	// amount in Unit.
	IdentifierWithUnit struct {
		Pos  Pos
		Name string
		Unit string
	}

	// Value is a literal parsed when the tree is built.
	Value struct {
		Pos     Pos
		Literal string
		Value   propval.Value
	}

	// Null is the missing marker.
	Null struct {
		Pos Pos
	}

	// Empty is the filter with no conditions. It is always true.
	Empty struct {
		Pos Pos
	}
)

func (e *Or) Position() Pos                 { return e.Pos }
func (e *And) Position() Pos                { return e.Pos }
func (e *Comparison) Position() Pos         { return e.Pos }
func (e *Equals) Position() Pos             { return e.Pos }
func (e *ValueRange) Position() Pos         { return e.Pos }
func (e *Add) Position() Pos                { return e.Pos }
func (e *Multiply) Position() Pos           { return e.Pos }
func (e *Unary) Position() Pos              { return e.Pos }
func (e *Identifier) Position() Pos         { return e.Pos }
func (e *IdentifierWithUnit) Position() Pos { return e.Pos }
func (e *Value) Position() Pos              { return e.Pos }
func (e *Null) Position() Pos               { return e.Pos }
func (e *Empty) Position() Pos              { return e.Pos }

func (*Or) expr()                 {}
func (*And) expr()                {}
func (*Comparison) expr()         {}
func (*Equals) expr()             {}
func (*ValueRange) expr()         {}
func (*Add) expr()                {}
func (*Multiply) expr()           {}
func (*Unary) expr()              {}
func (*Identifier) expr()         {}
func (*IdentifierWithUnit) expr() {}
func (*Value) expr()              {}
func (*Null) expr()               {}
func (*Empty) expr()              {}

// IsSingle reports whether the range holds one value.
func (r *ValueRange) IsSingle() bool {
	return r.Min == r.Max
}

// Walk calls fn for e and then, depth first, for every descendant. Shared
// range bounds are visited once. Returning false from fn skips the node's
// children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Or:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *And:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Comparison:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Equals:
		Walk(n.Left, fn)
		for _, r := range n.Ranges {
			Walk(r, fn)
		}
	case *ValueRange:
		Walk(n.Min, fn)
		if !n.IsSingle() {
			Walk(n.Max, fn)
		}
	case *Add:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Multiply:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Unary:
		Walk(n.Operand, fn)
	case *Identifier, *IdentifierWithUnit, *Value, *Null, *Empty:
	}
}
