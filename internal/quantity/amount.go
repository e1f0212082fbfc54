// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package quantity

import (
	"fmt"
	"math"
	"strconv"
)

// insignificantBits are rounded off the mantissa before comparing.
const insignificantBits = 10

// Amount is a magnitude expressed in a unit.
type Amount struct {
	Value float64
	Unit  *Unit
}

// New returns an Amount; a nil unit means One.
func New(value float64, unit *Unit) Amount {
	if unit == nil {
		unit = One()
	}
	return Amount{Value: value, Unit: unit}
}

func (a Amount) unit() *Unit {
	if a.Unit == nil {
		return One()
	}
	return a.Unit
}

// Base returns the value expressed in the SI base unit of its dimension.
func (a Amount) Base() float64 {
	return a.unit().toBase(a.Value)
}

// Dimensionless reports whether the amount has no dimension.
func (a Amount) Dimensionless() bool {
	return a.unit().Dimensionless()
}

// In converts a to unit u.
func (a Amount) In(u *Unit) (Amount, error) {
	from := a.unit()
	if from == u {
		return a, nil
	}
	if !from.Compatible(u) {
		return Amount{}, fmt.Errorf("%w: %s to %s", ErrIncompatible, from.Name, u.Name)
	}
	return Amount{Value: u.fromBase(from.toBase(a.Value)), Unit: u}, nil
}

// Compare orders a and b after conversion to the base unit, ignoring noise
// in the least significant bits.
func (a Amount) Compare(b Amount) (int, error) {
	if !a.unit().Compatible(b.unit()) {
		return 0, fmt.Errorf("%w: %s and %s", ErrIncompatible, a.unit().Name, b.unit().Name)
	}
	return CompareFloat(a.Base(), b.Base()), nil
}

// Add returns a+b in a's unit.
func (a Amount) Add(b Amount) (Amount, error) {
	bb, err := b.In(a.unit())
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: a.Value + bb.Value, Unit: a.unit()}, nil
}

// Sub returns a-b in a's unit.
func (a Amount) Sub(b Amount) (Amount, error) {
	bb, err := b.In(a.unit())
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: a.Value - bb.Value, Unit: a.unit()}, nil
}

// Scale multiplies the magnitude by k.
func (a Amount) Scale(k float64) Amount {
	return Amount{Value: a.Value * k, Unit: a.unit()}
}

// Mul multiplies two amounts when at least one side is dimensionless.
func (a Amount) Mul(b Amount) (Amount, error) {
	switch {
	case b.Dimensionless():
		return a.Scale(b.Base()), nil
	case a.Dimensionless():
		return b.Scale(a.Base()), nil
	}
	return Amount{}, fmt.Errorf("%w: %s * %s", ErrIncompatible, a.unit().Name, b.unit().Name)
}

// Div divides a by b. A dimensionless divisor scales a; a divisor of the same
// dimension yields a dimensionless ratio.
func (a Amount) Div(b Amount) (Amount, error) {
	switch {
	case b.Dimensionless():
		return a.Scale(1 / b.Base()), nil
	case a.unit().Compatible(b.unit()):
		return New(a.Base()/b.Base(), One()), nil
	}
	return Amount{}, fmt.Errorf("%w: %s / %s", ErrIncompatible, a.unit().Name, b.unit().Name)
}

// Mod returns the remainder of the magnitude divided by k.
func (a Amount) Mod(k float64) Amount {
	return Amount{Value: math.Mod(a.Value, k), Unit: a.unit()}
}

// Neg flips the sign of the magnitude.
func (a Amount) Neg() Amount {
	return Amount{Value: -a.Value, Unit: a.unit()}
}

// IsZero reports whether the magnitude is zero within tolerance.
func (a Amount) IsZero() bool {
	return CompareFloat(a.Value, 0) == 0
}

// String renders the literal form "value:Unit".
func (a Amount) String() string {
	return strconv.FormatFloat(a.Value, 'f', -1, 64) + ":" + a.unit().Name
}

// CompareFloat orders x and y with the insignificant mantissa bits rounded
// away. NaN sorts before every number.
func CompareFloat(x, y float64) int {
	rx, ry := round(x), round(y)
	switch {
	case math.IsNaN(rx) && math.IsNaN(ry):
		return 0
	case math.IsNaN(rx):
		return -1
	case math.IsNaN(ry):
		return 1
	case rx < ry:
		return -1
	case rx > ry:
		return 1
	}
	return 0
}

func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	const (
		half = uint64(1) << (insignificantBits - 1)
		mask = uint64(1)<<insignificantBits - 1
	)
	return math.Float64frombits((math.Float64bits(f) + half) &^ mask)
}
