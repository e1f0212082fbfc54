// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package quantity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Base dimension indexes.
const (
	Length = iota
	Mass
	Time
	Current
	Temperature
	Substance
	Luminosity
)

// Dimension is the exponent of each base quantity.
type Dimension [7]int8

// IsZero reports whether d describes a dimensionless quantity.
func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// Unit maps values onto the SI base unit of its dimension as
// base = (value + Offset) * Factor.
type Unit struct {
	Name   string
	Label  string
	Dim    Dimension
	Factor float64
	Offset float64
}

func (u *Unit) String() string {
	return u.Name
}

// Dimensionless reports whether the unit has no dimension (One, Percent).
func (u *Unit) Dimensionless() bool {
	return u.Dim.IsZero()
}

// Compatible reports whether values in u and o can be converted.
func (u *Unit) Compatible(o *Unit) bool {
	return u.Dim == o.Dim
}

func (u *Unit) toBase(v float64) float64 {
	return (v + u.Offset) * u.Factor
}

func (u *Unit) fromBase(b float64) float64 {
	return b/u.Factor - u.Offset
}

var (
	// ErrUnknownUnit is wrapped by Lookup when a name is not registered.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrIncompatible is returned when dimensions do not line up.
	ErrIncompatible = errors.New("incompatible units")
)

var (
	registryOnce sync.Once
	registry     map[string]*Unit
	registryList []*Unit
)

func dim(pairs ...int) Dimension {
	var d Dimension
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i]] = int8(pairs[i+1])
	}
	return d
}

// The unit table. Factors are exact where a definition exists.
func buildRegistry() {
	var (
		none        = Dimension{}
		length      = dim(Length, 1)
		area        = dim(Length, 2)
		volume      = dim(Length, 3)
		mass        = dim(Mass, 1)
		duration    = dim(Time, 1)
		frequency   = dim(Time, -1)
		velocity    = dim(Length, 1, Time, -1)
		flow        = dim(Length, 3, Time, -1)
		massFlow    = dim(Mass, 1, Time, -1)
		force       = dim(Length, 1, Mass, 1, Time, -2)
		pressure    = dim(Length, -1, Mass, 1, Time, -2)
		energy      = dim(Length, 2, Mass, 1, Time, -2)
		power       = dim(Length, 2, Mass, 1, Time, -3)
		potential   = dim(Length, 2, Mass, 1, Time, -3, Current, -1)
		charge      = dim(Time, 1, Current, 1)
		temperature = dim(Temperature, 1)
		density     = dim(Length, -3, Mass, 1)
		foot        = 0.3048
	)

	table := []Unit{
		{Name: "One", Label: "", Dim: none, Factor: 1},
		{Name: "Percent", Label: "%", Dim: none, Factor: 0.01},
		{Name: "Radian", Label: "rad", Dim: none, Factor: 1},
		{Name: "Degrees", Label: "°", Dim: none, Factor: math.Pi / 180},

		{Name: "Meter", Label: "m", Dim: length, Factor: 1},
		{Name: "Kilometer", Label: "km", Dim: length, Factor: 1000},
		{Name: "Decimeter", Label: "dm", Dim: length, Factor: 0.1},
		{Name: "CentiMeter", Label: "cm", Dim: length, Factor: 0.01},
		{Name: "Millimeter", Label: "mm", Dim: length, Factor: 0.001},
		{Name: "Foot", Label: "ft", Dim: length, Factor: foot},
		{Name: "Inch", Label: "in", Dim: length, Factor: foot / 12},
		{Name: "Yard", Label: "yd", Dim: length, Factor: foot * 3},
		{Name: "Mile", Label: "mi", Dim: length, Factor: foot * 5280},

		{Name: "SquareMeter", Label: "m²", Dim: area, Factor: 1},
		{Name: "SquareDecimeter", Label: "dm²", Dim: area, Factor: 0.01},
		{Name: "SquareCentimeter", Label: "cm²", Dim: area, Factor: 1e-4},
		{Name: "SquareMillimeter", Label: "mm²", Dim: area, Factor: 1e-6},
		{Name: "SquareInch", Label: "in²", Dim: area, Factor: (foot / 12) * (foot / 12)},
		{Name: "SquareFeet", Label: "ft²", Dim: area, Factor: foot * foot},

		{Name: "CubicMeter", Label: "m³", Dim: volume, Factor: 1},
		{Name: "Liter", Label: "L", Dim: volume, Factor: 0.001},
		{Name: "MilliLiter", Label: "ml", Dim: volume, Factor: 1e-6},
		{Name: "CubicCentiMeter", Label: "cm³", Dim: volume, Factor: 1e-6},
		{Name: "CubicFeet", Label: "ft³", Dim: volume, Factor: foot * foot * foot},
		{Name: "Gallon", Label: "gal", Dim: volume, Factor: 0.003785},

		{Name: "Kilogram", Label: "kg", Dim: mass, Factor: 1},
		{Name: "Gram", Label: "g", Dim: mass, Factor: 0.001},
		{Name: "MilliGram", Label: "mg", Dim: mass, Factor: 1e-6},
		{Name: "Tonne", Label: "t", Dim: mass, Factor: 1000},
		{Name: "PoundLb", Label: "lb", Dim: mass, Factor: 0.45359237},

		{Name: "Second", Label: "s", Dim: duration, Factor: 1},
		{Name: "MilliSecond", Label: "ms", Dim: duration, Factor: 0.001},
		{Name: "Minute", Label: "min", Dim: duration, Factor: 60},
		{Name: "Hour", Label: "h", Dim: duration, Factor: 3600},
		{Name: "Day", Label: "days", Dim: duration, Factor: 86400},
		{Name: "Week", Label: "weeks", Dim: duration, Factor: 7 * 86400},
		{Name: "Year", Label: "year", Dim: duration, Factor: 8760 * 3600},

		{Name: "Hertz", Label: "Hz", Dim: frequency, Factor: 1},
		{Name: "RevolutionsPerMinute", Label: "rpm", Dim: frequency, Factor: 1.0 / 60},
		{Name: "RevolutionsPerHour", Label: "rph", Dim: frequency, Factor: 1.0 / 3600},

		{Name: "MeterPerSecond", Label: "m/s", Dim: velocity, Factor: 1},
		{Name: "MeterPerHour", Label: "m/h", Dim: velocity, Factor: 1.0 / 3600},
		{Name: "KilometerPerHour", Label: "km/h", Dim: velocity, Factor: 1000.0 / 3600},
		{Name: "FeetPerSecond", Label: "ft/s", Dim: velocity, Factor: foot},
		{Name: "FeetPerMinute", Label: "ft/min", Dim: velocity, Factor: foot / 60},

		{Name: "CubicMeterPerSecond", Label: "m³/s", Dim: flow, Factor: 1},
		{Name: "CubicMeterPerHour", Label: "m³/h", Dim: flow, Factor: 1.0 / 3600},
		{Name: "LiterPerSecond", Label: "l/s", Dim: flow, Factor: 0.001},
		{Name: "LiterPerMinute", Label: "l/min", Dim: flow, Factor: 0.001 / 60},
		{Name: "LiterPerHour", Label: "l/h", Dim: flow, Factor: 0.001 / 3600},
		{Name: "CubicFeetPerMinute", Label: "cfm", Dim: flow, Factor: foot * foot * foot / 60},

		{Name: "KilogramPerSecond", Label: "kg/s", Dim: massFlow, Factor: 1},
		{Name: "KilogramPerHour", Label: "kg/h", Dim: massFlow, Factor: 1.0 / 3600},

		{Name: "Newton", Label: "N", Dim: force, Factor: 1},
		{Name: "PoundForce", Label: "lbf", Dim: force, Factor: 8896443230521.0 / 2000000000000.0},

		{Name: "Pascal", Label: "Pa", Dim: pressure, Factor: 1},
		{Name: "HectoPascal", Label: "hPa", Dim: pressure, Factor: 100},
		{Name: "KiloPascal", Label: "kPa", Dim: pressure, Factor: 1000},
		{Name: "Bar", Label: "bar", Dim: pressure, Factor: 100000},
		{Name: "MilliBar", Label: "mbar", Dim: pressure, Factor: 100},
		{Name: "PoundForcePerSquareInch", Label: "psi", Dim: pressure, Factor: 8896443230521.0 / 1290320000.0},
		{Name: "InchOfWaterColumn", Label: "in WC", Dim: pressure, Factor: 249.0889},
		{Name: "InchOfMercury", Label: "in HG", Dim: pressure, Factor: 514731.0 / 152.0},

		{Name: "Joule", Label: "J", Dim: energy, Factor: 1},
		{Name: "KiloJoule", Label: "kJ", Dim: energy, Factor: 1000},
		{Name: "KiloWattHour", Label: "kWh", Dim: energy, Factor: 3.6e6},

		{Name: "Watt", Label: "W", Dim: power, Factor: 1},
		{Name: "KiloWatt", Label: "kW", Dim: power, Factor: 1000},
		{Name: "MegaWatt", Label: "MW", Dim: power, Factor: 1e6},

		{Name: "Ampere", Label: "A", Dim: dim(Current, 1), Factor: 1},
		{Name: "MilliAmpere", Label: "mA", Dim: dim(Current, 1), Factor: 0.001},
		{Name: "Volt", Label: "V", Dim: potential, Factor: 1},
		{Name: "Coulomb", Label: "C", Dim: charge, Factor: 1},

		{Name: "Kelvin", Label: "K", Dim: temperature, Factor: 1},
		{Name: "Celsius", Label: "°C", Dim: temperature, Factor: 1, Offset: 273.15},
		{Name: "Fahrenheit", Label: "°F", Dim: temperature, Factor: 5.0 / 9.0, Offset: 459.67},
		{Name: "Rankine", Label: "°R", Dim: temperature, Factor: 5.0 / 9.0},

		{Name: "Mole", Label: "mol", Dim: dim(Substance, 1), Factor: 1},
		{Name: "Candela", Label: "cd", Dim: dim(Luminosity, 1), Factor: 1},

		{Name: "KilogramPerCubicMeter", Label: "kg/m³", Dim: density, Factor: 1},
		{Name: "GramPerCubicCentiMeter", Label: "g/cm³", Dim: density, Factor: 1000},
	}

	registry = make(map[string]*Unit, len(table))
	registryList = make([]*Unit, 0, len(table))
	for i := range table {
		u := &table[i]
		registry[strings.ToLower(u.Name)] = u
		registryList = append(registryList, u)
	}
	sort.Slice(registryList, func(i, j int) bool {
		return registryList[i].Name < registryList[j].Name
	})
}

// Lookup resolves a unit by case-insensitive name.
func Lookup(name string) (*Unit, error) {
	registryOnce.Do(buildRegistry)
	if u, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// IsKnown reports whether name resolves to a unit.
func IsKnown(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *Unit {
	u, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return u
}

// One is the dimensionless unit.
func One() *Unit {
	return MustLookup("one")
}

// Units returns every registered unit ordered by name.
func Units() []*Unit {
	registryOnce.Do(buildRegistry)
	out := make([]*Unit, len(registryList))
	copy(out, registryList)
	return out
}

// Names returns every registered unit name ordered alphabetically.
func Names() []string {
	units := Units()
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	return names
}
