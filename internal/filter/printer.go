// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"strings"

	"github.com/pfctl/pfctl/internal/propval"
)

// Print renders e in canonical form. Parsing the output yields an equivalent
// tree; nested Or and And nodes come back flattened.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Or:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('|')
			}
			printExpr(b, c)
		}

	case *And:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('&')
			}
			if _, ok := c.(*Or); ok {
				b.WriteByte('(')
				printExpr(b, c)
				b.WriteByte(')')
				continue
			}
			printExpr(b, c)
		}

	case *Comparison:
		printExpr(b, n.Left)
		b.WriteString(string(n.Op))
		printExpr(b, n.Right)

	case *Equals:
		printExpr(b, n.Left)
		b.WriteString(string(n.Op))
		for i, r := range n.Ranges {
			if i > 0 {
				b.WriteByte(',')
			}
			printExpr(b, r)
		}

	case *ValueRange:
		printExpr(b, n.Min)
		if !n.IsSingle() {
			b.WriteByte('~')
			printExpr(b, n.Max)
		}

	case *Add:
		printExpr(b, n.Left)
		printMinus(b, string(n.Op), n.Right)

	case *Multiply:
		printExpr(b, n.Left)
		b.WriteString(string(n.Op))
		printExpr(b, n.Right)

	case *Unary:
		printMinus(b, "-", n.Operand)

	case *Identifier:
		b.WriteString(n.Name)

	case *IdentifierWithUnit:
		b.WriteString(n.Name)
		b.WriteByte(':')
		b.WriteString(n.Unit)

	case *Value:
		b.WriteString(literal(n.Value))

	case *Null:
		b.WriteString("null")

	case *Empty:
	}
}

// printMinus writes op and then operand. A "-" directly before a digit
// would scan as a negative literal, so it gets a space.
func printMinus(b *strings.Builder, op string, operand Expr) {
	var rhs strings.Builder
	printExpr(&rhs, operand)
	b.WriteString(op)
	if op == "-" && rhs.Len() > 0 && isDigit(rune(rhs.String()[0])) {
		b.WriteByte(' ')
	}
	b.WriteString(rhs.String())
}

// literal is the encoded form of v. Unit names are lower-cased to match
// normalized filter text.
func literal(v propval.Value) string {
	if v.Kind() == propval.KindAmount {
		return strings.ToLower(v.String())
	}
	return v.String()
}
