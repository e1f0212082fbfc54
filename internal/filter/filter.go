// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"

	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/propval"
)

// Filter is a parsed and compiled filter. It is immutable and safe for
// concurrent use.
type Filter struct {
	text string
	ast  Expr
	pred Predicate
}

// EmptyFilter matches every set.
var EmptyFilter = MustCreate("")

// Create normalizes and parses text and compiles the result. The first
// syntax error stops the parse and is returned as a *SyntaxError; a bad
// literal is returned as a *LiteralParseError.
func Create(text string) (*Filter, error) {
	normalized := Normalize(text)
	ast, _, err := parse(normalized, true)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", text, err)
	}
	pred, err := Compile(ast)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", text, err)
	}
	log.Tracef("created filter %q from %q", normalized, text)
	return &Filter{text: normalized, ast: ast, pred: pred}, nil
}

// MustCreate is Create for filters known to be valid.
func MustCreate(text string) *Filter {
	f, err := Create(text)
	if err != nil {
		panic(err)
	}
	return f
}

// IsSyntaxValid reports whether text parses without errors. It never fails.
func IsSyntaxValid(text string) bool {
	return Diagnose(text) == nil
}

// Diagnose parses text tolerantly and returns every syntax and literal
// error found, or nil.
func Diagnose(text string) error {
	_, p, err := parse(Normalize(text), false)
	if err != nil {
		log.Debugf("filter %q has %d errors", text, p.count)
	}
	return err
}

// IsValid reports whether set satisfies the filter. With lenient set,
// comparisons that reference properties missing from set are true.
func (f *Filter) IsValid(set propval.Set, lenient bool) (bool, error) {
	if lenient {
		return Evaluate(f.ast, set, Lenient(true))
	}
	return f.pred.Matches(set)
}

// Ast returns the root of the parsed tree.
func (f *Filter) Ast() Expr {
	return f.ast
}

// Text returns the normalized filter text.
func (f *Filter) Text() string {
	return f.text
}

// String returns the canonical form.
func (f *Filter) String() string {
	return Print(f.ast)
}

// IsEmpty reports whether the filter has no conditions.
func (f *Filter) IsEmpty() bool {
	_, ok := f.ast.(*Empty)
	return ok
}

// References returns the property names the filter reads.
func (f *Filter) References() []string {
	return References(f.ast)
}

// Types returns the inferred type of every node.
func (f *Filter) Types() map[Expr]ExprType {
	return InferTypes(f.ast)
}

// Predicate returns the compiled form.
func (f *Filter) Predicate() Predicate {
	return f.pred
}
