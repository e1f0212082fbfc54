// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package propval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pfctl/pfctl/internal/quantity"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindInteger Kind = iota
	KindAmount
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindAmount:
		return "amount"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	// ErrTypeMismatch is wrapped when an operation mixes incompatible kinds.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrDivideByZero is wrapped when a divisor is zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrInvalidLiteral is wrapped when encoded text is not a value.
	ErrInvalidLiteral = errors.New("invalid literal")
)

// Value is an immutable Integer, Amount or Text.
type Value struct {
	kind Kind
	i    int64
	a    quantity.Amount
	s    string
}

// Integer returns an Integer value.
func Integer(n int64) Value {
	return Value{kind: KindInteger, i: n}
}

// FromAmount returns an Amount value.
func FromAmount(a quantity.Amount) Value {
	return Value{kind: KindAmount, a: a}
}

// Text returns a Text value holding s verbatim.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload; zero for other kinds.
func (v Value) Int() int64 { return v.i }

// Amount returns the amount payload; zero for other kinds.
func (v Value) Amount() quantity.Amount { return v.a }

// Text returns the text payload; empty for other kinds.
func (v Value) Text() string { return v.s }

// String returns the encoded literal form.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindAmount:
		return v.a.String()
	default:
		return encodeText(v.s)
	}
}

// Native returns the payload as a plain Go value for JSON and YAML output.
func (v Value) Native() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindAmount:
		return v.a.String()
	default:
		return v.s
	}
}

func mismatch(op string, l, r Value) error {
	return fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, l.kind, op, r.kind)
}

// Add returns v+o. Two Texts concatenate.
func (v Value) Add(o Value) (Value, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		return Integer(v.i + o.i), nil
	case v.kind == KindAmount && o.kind == KindAmount:
		a, err := v.a.Add(o.a)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return FromAmount(a), nil
	case v.kind == KindText && o.kind == KindText:
		return Text(v.s + o.s), nil
	}
	return Value{}, mismatch("+", v, o)
}

// Sub returns v-o.
func (v Value) Sub(o Value) (Value, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		return Integer(v.i - o.i), nil
	case v.kind == KindAmount && o.kind == KindAmount:
		a, err := v.a.Sub(o.a)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return FromAmount(a), nil
	}
	return Value{}, mismatch("-", v, o)
}

// Mul returns v*o. An Integer scales an Amount.
func (v Value) Mul(o Value) (Value, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		return Integer(v.i * o.i), nil
	case v.kind == KindInteger && o.kind == KindAmount:
		return FromAmount(o.a.Scale(float64(v.i))), nil
	case v.kind == KindAmount && o.kind == KindInteger:
		return FromAmount(v.a.Scale(float64(o.i))), nil
	case v.kind == KindAmount && o.kind == KindAmount:
		a, err := v.a.Mul(o.a)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return FromAmount(a), nil
	}
	return Value{}, mismatch("*", v, o)
}

// Div returns v/o. Integer division truncates toward zero.
func (v Value) Div(o Value) (Value, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		if o.i == 0 {
			return Value{}, ErrDivideByZero
		}
		return Integer(v.i / o.i), nil
	case v.kind == KindAmount && o.kind == KindInteger:
		if o.i == 0 {
			return Value{}, ErrDivideByZero
		}
		return FromAmount(quantity.New(v.a.Value/float64(o.i), v.a.Unit)), nil
	case v.kind == KindAmount && o.kind == KindAmount:
		if o.a.IsZero() {
			return Value{}, ErrDivideByZero
		}
		a, err := v.a.Div(o.a)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return FromAmount(a), nil
	}
	return Value{}, mismatch("/", v, o)
}

// Mod returns the remainder of v/o.
func (v Value) Mod(o Value) (Value, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		if o.i == 0 {
			return Value{}, ErrDivideByZero
		}
		return Integer(v.i % o.i), nil
	case v.kind == KindAmount && o.kind == KindInteger:
		if o.i == 0 {
			return Value{}, ErrDivideByZero
		}
		return FromAmount(v.a.Mod(float64(o.i))), nil
	case v.kind == KindInteger && o.kind == KindAmount:
		if o.a.IsZero() {
			return Value{}, ErrDivideByZero
		}
		return FromAmount(quantity.New(math.Mod(float64(v.i), o.a.Value), o.a.Unit)), nil
	}
	return Value{}, mismatch("%", v, o)
}

// Neg returns -v.
func (v Value) Neg() (Value, error) {
	switch v.kind {
	case KindInteger:
		return Integer(-v.i), nil
	case KindAmount:
		return FromAmount(v.a.Neg()), nil
	}
	return Value{}, fmt.Errorf("%w: -%s", ErrTypeMismatch, v.kind)
}

// Compare orders v and o. Texts compare case-insensitively.
func (v Value) Compare(o Value) (int, error) {
	if v.kind != o.kind {
		return 0, mismatch("<>", v, o)
	}
	switch v.kind {
	case KindInteger:
		switch {
		case v.i < o.i:
			return -1, nil
		case v.i > o.i:
			return 1, nil
		}
		return 0, nil
	case KindAmount:
		c, err := v.a.Compare(o.a)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return c, nil
	default:
		return strings.Compare(fold(v.s), fold(o.s)), nil
	}
}

// Equal reports whether v and o are the same kind and compare equal.
func (v Value) Equal(o Value) bool {
	c, err := v.Compare(o)
	return err == nil && c == 0
}

// fold applies Unicode case folding. A Caser is not safe for concurrent use,
// so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Parse decodes the literal form of a value.
func Parse(encoded string) (Value, error) {
	if len(encoded) >= 2 && strings.HasPrefix(encoded, `"`) && strings.HasSuffix(encoded, `"`) {
		return Text(decodeText(encoded)), nil
	}

	if number, unit, ok := strings.Cut(encoded, ":"); ok {
		switch strings.ToLower(unit) {
		case "text":
			return Text(decodeText(number)), nil
		case "integer":
			n, err := strconv.ParseInt(number, 10, 64)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidLiteral, encoded)
			}
			return Integer(n), nil
		}

		f, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q has no numeric magnitude", ErrInvalidLiteral, encoded)
		}
		u, err := quantity.Lookup(unit)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrInvalidLiteral, err)
		}
		return FromAmount(quantity.New(f, u)), nil
	}

	n, err := strconv.ParseInt(encoded, 10, 64)
	if err == nil {
		return Integer(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return Value{}, fmt.Errorf("%w: %q is out of integer range", ErrInvalidLiteral, encoded)
	}
	if f, err := strconv.ParseFloat(encoded, 64); err == nil {
		return FromAmount(quantity.New(f, quantity.One())), nil
	}
	return Text(encoded), nil
}

// TryParse is Parse reporting failure as a bool.
func TryParse(encoded string) (Value, bool) {
	v, err := Parse(encoded)
	return v, err == nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(encoded string) Value {
	v, err := Parse(encoded)
	if err != nil {
		panic(err)
	}
	return v
}

func encodeText(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "%22") + `"`
}

var textDecoder = strings.NewReplacer("%22", `"`, "%3B", ";", "%3D", "=", "%3A", ":")

func decodeText(s string) string {
	return textDecoder.Replace(strings.Trim(s, `"`))
}
