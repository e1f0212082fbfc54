// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"

	"github.com/pfctl/pfctl/internal/propval"
	"github.com/pfctl/pfctl/internal/quantity"
)

var (
	// ErrDivideByZero is wrapped when a divisor evaluates to zero.
	ErrDivideByZero = propval.ErrDivideByZero
	// ErrNotBoolean is returned when a value expression sits where a
	// condition is required.
	ErrNotBoolean = errors.New("expression is not a condition")

	errNotValue = errors.New("condition used as a value")
)

// SyntaxError is a single parse error at a position in the normalized text.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("-- line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// LiteralParseError reports a literal that does not decode to a value.
type LiteralParseError struct {
	Literal string
	Line    int
	Col     int
	Err     error
}

func (e *LiteralParseError) Error() string {
	return fmt.Sprintf("-- line %d col %d: invalid literal %s: %v", e.Line, e.Col, e.Literal, e.Err)
}

func (e *LiteralParseError) Unwrap() error { return e.Err }

// UnknownUnitError names a unit missing from the registry.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

func (e *UnknownUnitError) Unwrap() error { return quantity.ErrUnknownUnit }

// TypeMismatchError reports an operator applied to values it does not accept.
type TypeMismatchError struct {
	Op    string
	Left  propval.Kind
	Right propval.Kind
	Err   error
}

func (e *TypeMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("type mismatch in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("type mismatch: %s %s %s", e.Left, e.Op, e.Right)
}

func (e *TypeMismatchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return propval.ErrTypeMismatch
}
