// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"

	"github.com/pfctl/pfctl/internal/propval"
)

// TypeKind classifies a node for tooling.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeBool
	TypeAmount
	TypeProperty
	TypeText
	TypeRange
)

func (k TypeKind) String() string {
	switch k {
	case TypeBool:
		return "bool"
	case TypeAmount:
		return "amount"
	case TypeProperty:
		return "property"
	case TypeText:
		return "text"
	case TypeRange:
		return "range"
	}
	return "unknown"
}

// ExprType is an inferred node type. Property carries the property name
// for TypeProperty.
type ExprType struct {
	Kind     TypeKind
	Property string
}

func (t ExprType) String() string {
	if t.Kind == TypeProperty {
		return fmt.Sprintf("property(%s)", t.Property)
	}
	return t.Kind.String()
}

// InferTypes assigns a type to every node under e. Integer literals and
// null take the type of the last property seen, so in "a=1" the literal is
// typed as property a. Comparisons visit their operands twice so a literal
// on the left picks up a property on the right.
func InferTypes(e Expr) map[Expr]ExprType {
	ti := &typeInferrer{types: make(map[Expr]ExprType)}
	ti.visit(e)
	return ti.types
}

type typeInferrer struct {
	types        map[Expr]ExprType
	lastProperty ExprType
}

func (ti *typeInferrer) visit(e Expr) {
	switch n := e.(type) {
	case *Or:
		for _, c := range n.Children {
			ti.visit(c)
		}
		ti.types[e] = ExprType{Kind: TypeBool}

	case *And:
		for _, c := range n.Children {
			ti.visit(c)
		}
		ti.types[e] = ExprType{Kind: TypeBool}

	case *Comparison:
		ti.lastProperty = ExprType{}
		for range 2 {
			ti.visit(n.Left)
			ti.visit(n.Right)
		}
		ti.types[e] = ExprType{Kind: TypeBool}

	case *Equals:
		ti.lastProperty = ExprType{}
		for range 2 {
			ti.visit(n.Left)
			for _, r := range n.Ranges {
				ti.visit(r)
			}
		}
		ti.types[e] = ExprType{Kind: TypeBool}

	case *ValueRange:
		for range 2 {
			ti.visit(n.Min)
			ti.visit(n.Max)
		}
		ti.types[e] = ExprType{Kind: TypeRange}

	case *Add:
		ti.visit(n.Left)
		ti.visit(n.Right)
		ti.types[e] = ExprType{}

	case *Multiply:
		ti.visit(n.Left)
		ti.visit(n.Right)
		ti.types[e] = ExprType{}

	case *Unary:
		ti.visit(n.Operand)
		ti.types[e] = ExprType{}

	case *Identifier:
		t := ExprType{Kind: TypeProperty, Property: n.Name}
		ti.types[e] = t
		ti.lastProperty = t

	case *IdentifierWithUnit:
		ti.types[e] = ExprType{Kind: TypeAmount}

	case *Value:
		switch n.Value.Kind() {
		case propval.KindInteger:
			ti.types[e] = ti.lastProperty
		case propval.KindAmount:
			ti.types[e] = ExprType{Kind: TypeAmount}
		case propval.KindText:
			ti.types[e] = ExprType{Kind: TypeText}
		}

	case *Null:
		ti.types[e] = ti.lastProperty

	case *Empty:
		ti.types[e] = ExprType{}
	}
}
