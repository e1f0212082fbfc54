// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a=1;b=2;", "a=1&b=2"},
		{"{a=1;}{b=1;}", "a=1|b=1"},
		{"(A=1|b=2)&c>3", "(a=1|b=2)&c>3"},
		{"a = 1 ~ 5 , 10", "a=1~5,10"},
		{"x>1.5:Meter", "x>1.5:meter"},
		{"length - 15 > width", "length- 15>width"},
		{"- width < 0", "-width<0"},
		{"- 1 < a", "- 1<a"},
		{`name="Pump"`, `name="pump"`},
		{"a=null", "a=null"},
		{"t:Celsius>=20.5:celsius", "t:celsius>=20.5:celsius"},
		{"a*2%3=1", "a*2%3=1"},
		{"5:integer=a", "5=a"},
		{"a=1.0", "a=1:one"},
		{"a=-1~-0.5", "a=-1~-0.5:one"},
		{"a-b-c>0", "a-b-c>0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := Create(tt.in)
			require.NoError(t, err)

			got := f.String()
			assert.Equal(t, tt.want, got)

			again, err := Create(got)
			require.NoError(t, err, "reparse %q", got)
			assert.Equal(t, got, again.String(), "stable")
		})
	}
}

func TestInferTypes(t *testing.T) {
	tests := []struct {
		golden string
		filter string
	}{
		{"types_mixed", "a=1&b>2:meter|-c<d+1"},
		{"types_literal_first", "1<a"},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			f, err := Create(tt.filter)
			require.NoError(t, err)

			types := f.Types()
			var b strings.Builder
			Walk(f.Ast(), func(n Expr) bool {
				fmt.Fprintf(&b, "%s => %s\n", Print(n), types[n])
				return true
			})
			g.Assert(t, tt.golden, []byte(b.String()))
		})
	}
}

func TestInferTypes_Nodes(t *testing.T) {
	f := MustCreate(`a:meter=null&b="x"&c=1~2`)
	types := f.Types()

	and := f.Ast().(*And)
	eq := and.Children[0].(*Equals)
	assert.Equal(t, ExprType{Kind: TypeAmount}, types[eq.Left])
	assert.Equal(t, ExprType{}, types[eq.Ranges[0].Min], "null after a unit read is unknown")

	text := and.Children[1].(*Equals)
	assert.Equal(t, ExprType{Kind: TypeText}, types[text.Ranges[0].Min])

	rng := and.Children[2].(*Equals).Ranges[0]
	assert.Equal(t, ExprType{Kind: TypeRange}, types[rng])
	assert.Equal(t, ExprType{Kind: TypeProperty, Property: "c"}, types[rng.Max])
	assert.Equal(t, "property(c)", types[rng.Max].String())

	assert.Equal(t, ExprType{}, EmptyFilter.Types()[EmptyFilter.Ast()])
}

func TestReferences(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"a>b&c=1|d<2", []string{"a", "b", "c", "d"}},
		{"B:meter>1&b=2&a=x~y", []string{"a", "b", "x", "y"}},
		{"1<2", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, MustCreate(tt.filter).References())
		})
	}
}
