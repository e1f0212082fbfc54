// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package propval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfctl/pfctl/internal/quantity"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		kind     Kind
		str      string
		wantErr  bool
		wantText string
	}{
		{name: "integer", encoded: "123", kind: KindInteger, str: "123"},
		{name: "negative integer", encoded: "-1", kind: KindInteger, str: "-1"},
		{name: "amount", encoded: "1.5:meter", kind: KindAmount, str: "1.5:Meter"},
		{name: "amount upper unit", encoded: "20:CELSIUS", kind: KindAmount, str: "20:Celsius"},
		{name: "decimal is dimensionless", encoded: "2.5", kind: KindAmount, str: "2.5:One"},
		{name: "quoted text", encoded: `"hello"`, kind: KindText, str: `"hello"`, wantText: "hello"},
		{name: "escaped quote", encoded: `"say %22hi%22"`, kind: KindText, str: `"say %22hi%22"`, wantText: `say "hi"`},
		{name: "legacy escapes", encoded: `"a%3Bb%3Dc%3Ad"`, kind: KindText, wantText: "a;b=c:d", str: `"a;b=c:d"`},
		{name: "legacy text", encoded: "test:text", kind: KindText, str: `"test"`, wantText: "test"},
		{name: "legacy integer", encoded: "42:integer", kind: KindInteger, str: "42"},
		{name: "bare word", encoded: "abc", kind: KindText, str: `"abc"`, wantText: "abc"},
		{name: "unknown unit", encoded: "1:celcius", wantErr: true},
		{name: "bad magnitude", encoded: "x:meter", wantErr: true},
		{name: "bad legacy integer", encoded: "1.5:integer", wantErr: true},
		{name: "integer out of range", encoded: "9223372036854775808", wantErr: true},
		{name: "negative integer out of range", encoded: "-9223372036854775809", wantErr: true},
		{name: "int64 max", encoded: "9223372036854775807", kind: KindInteger, str: "9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.encoded)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLiteral)
				_, ok := TryParse(tt.encoded)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, v.Text())
			}
		})
	}
}

func TestParseUnknownUnitKeepsCause(t *testing.T) {
	_, err := Parse("1:furlong")
	assert.ErrorIs(t, err, quantity.ErrUnknownUnit)
}

func TestArithmetic(t *testing.T) {
	m := quantity.MustLookup("meter")

	tests := []struct {
		name    string
		op      func(a, b Value) (Value, error)
		a, b    Value
		want    string
		wantErr error
	}{
		{name: "int add", op: Value.Add, a: Integer(2), b: Integer(3), want: "5"},
		{name: "amount add", op: Value.Add, a: MustParse("20:meter"), b: MustParse("15:meter"), want: "35:Meter"},
		{name: "amount add converts", op: Value.Add, a: MustParse("1:meter"), b: MustParse("500:millimeter"), want: "1.5:Meter"},
		{name: "text concat", op: Value.Add, a: Text("test"), b: Text("ing"), want: `"testing"`},
		{name: "int plus amount", op: Value.Add, a: Integer(1), b: MustParse("1:meter"), wantErr: ErrTypeMismatch},
		{name: "amount plus other dimension", op: Value.Add, a: MustParse("1:meter"), b: MustParse("1:second"), wantErr: ErrTypeMismatch},
		{name: "int sub", op: Value.Sub, a: Integer(20), b: Integer(2), want: "18"},
		{name: "text sub", op: Value.Sub, a: Text("a"), b: Text("b"), wantErr: ErrTypeMismatch},
		{name: "int mul", op: Value.Mul, a: Integer(2), b: Integer(5), want: "10"},
		{name: "amount scaled by int", op: Value.Mul, a: FromAmount(quantity.New(2, m)), b: Integer(5), want: "10:Meter"},
		{name: "int scales amount", op: Value.Mul, a: Integer(5), b: FromAmount(quantity.New(2, m)), want: "10:Meter"},
		{name: "amount by percent", op: Value.Mul, a: MustParse("10:meter"), b: MustParse("50:percent"), want: "5:Meter"},
		{name: "text mul", op: Value.Mul, a: Text("a"), b: Integer(2), wantErr: ErrTypeMismatch},
		{name: "int div truncates", op: Value.Div, a: Integer(7), b: Integer(2), want: "3"},
		{name: "int div zero", op: Value.Div, a: Integer(7), b: Integer(0), wantErr: ErrDivideByZero},
		{name: "amount div int", op: Value.Div, a: MustParse("9:meter"), b: Integer(3), want: "3:Meter"},
		{name: "amount div zero int", op: Value.Div, a: MustParse("9:meter"), b: Integer(0), wantErr: ErrDivideByZero},
		{name: "amount div zero amount", op: Value.Div, a: MustParse("9:meter"), b: MustParse("0:meter"), wantErr: ErrDivideByZero},
		{name: "amount ratio", op: Value.Div, a: MustParse("4:meter"), b: MustParse("2:meter"), want: "2:One"},
		{name: "int mod", op: Value.Mod, a: Integer(7), b: Integer(3), want: "1"},
		{name: "int mod zero", op: Value.Mod, a: Integer(7), b: Integer(0), wantErr: ErrDivideByZero},
		{name: "amount mod int", op: Value.Mod, a: MustParse("7:meter"), b: Integer(4), want: "3:Meter"},
		{name: "int mod amount", op: Value.Mod, a: Integer(7), b: MustParse("4:meter"), want: "3:Meter"},
		{name: "int mod zero amount", op: Value.Mod, a: Integer(7), b: MustParse("0:meter"), wantErr: ErrDivideByZero},
		{name: "text mod", op: Value.Mod, a: Text("a"), b: Integer(2), wantErr: ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNeg(t *testing.T) {
	v, err := Integer(4).Neg()
	require.NoError(t, err)
	assert.Equal(t, "-4", v.String())

	v, err = MustParse("2:meter").Neg()
	require.NoError(t, err)
	assert.Equal(t, "-2:Meter", v.String())

	_, err = Text("x").Neg()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Value
		want    int
		wantErr bool
	}{
		{name: "int less", a: Integer(1), b: Integer(2), want: -1},
		{name: "int equal", a: Integer(2), b: Integer(2), want: 0},
		{name: "amount across units", a: MustParse("1:meter"), b: MustParse("1000:millimeter"), want: 0},
		{name: "amount greater", a: MustParse("5:celsius"), b: MustParse("2:celsius"), want: 1},
		{name: "text ignores case", a: Text("Test"), b: Text("tEST"), want: 0},
		{name: "text order", a: Text("alpha"), b: Text("Beta"), want: -1},
		{name: "kinds differ", a: Integer(1), b: Text("1"), wantErr: true},
		{name: "dimensions differ", a: MustParse("1:meter"), b: MustParse("1:kilogram"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Compare(tt.b)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTypeMismatch)
				assert.False(t, tt.a.Equal(tt.b))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == 0, tt.a.Equal(tt.b))
		})
	}
}

func TestSet(t *testing.T) {
	s, err := ParseSet(`Width=2:meter; length=20:meter;name="Fan %22X%22";legacy=abc:text;count=3;`)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Len())
	assert.True(t, s.Has("WIDTH"))
	assert.False(t, s.Has("height"))

	v, err := s.Get("width")
	require.NoError(t, err)
	assert.Equal(t, KindAmount, v.Kind())

	_, err = s.Get("height")
	assert.ErrorIs(t, err, ErrNotFound)

	v, ok := s.TryGet("NAME")
	require.True(t, ok)
	assert.Equal(t, `Fan "X"`, v.Text())

	assert.Equal(t, []string{"count", "legacy", "length", "name", "Width"}, s.Names())
	assert.Equal(t, `count=3;legacy="abc";length=20:Meter;name="Fan %22X%22";Width=2:Meter;`, s.String())

	s2 := s.With("height", Integer(7))
	assert.True(t, s2.Has("height"))
	assert.False(t, s.Has("height"), "With must not modify the receiver")
}

func TestParseSetErrors(t *testing.T) {
	_, err := ParseSet("a=1;=2;b=1:furlong;c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 errors occurred")
	assert.ErrorIs(t, err, ErrInvalidLiteral)

	s, err := ParseSet("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	var zero Set
	assert.False(t, zero.Has("a"))
	assert.Empty(t, zero.String())
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{name: "json integer", in: float64(12), want: "12"},
		{name: "json decimal", in: 1.25, want: "1.25:One"},
		{name: "yaml int", in: 7, want: "7"},
		{name: "bool", in: true, want: "1"},
		{name: "encoded amount", in: "2:meter", want: "2:Meter"},
		{name: "word", in: "steel", want: `"steel"`},
		{name: "null", in: nil, wantErr: true},
		{name: "object", in: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromNative(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
