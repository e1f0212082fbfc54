// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfctl/pfctl/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"pfctl", "scan"},
			expected: []string{"pfctl", "scan"},
		},
		{
			name:     "no duplicates",
			args:     []string{"pfctl", "scan", "--output", "text", "--titles"},
			expected: []string{"pfctl", "scan", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"pfctl", "scan", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"pfctl", "scan", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"pfctl", "scan", "--titles", "--count", "--titles"},
			expected: []string{"pfctl", "scan", "--count", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"pfctl", "scan", "--output=json", "--titles", "--output=text"},
			expected: []string{"pfctl", "scan", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"pfctl", "scan", "--output=json", "--output", "text"},
			expected: []string{"pfctl", "scan", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"pfctl", "eval", "--root", "a.b", "--props", "x=1;", "--root", "c.d", "--props", "y=2;"},
			expected: []string{"pfctl", "eval", "--root", "c.d", "--props", "y=2;"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"pfctl", "scan", "products.json", "--output", "json", "--output", "text"},
			expected: []string{"pfctl", "scan", "products.json", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"pfctl", "scan", "-o", "json", "-o", "text"},
			expected: []string{"pfctl", "scan", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"pfctl", "scan", "--color", "--count"},
			expected: []string{"pfctl", "scan", "--color", "--count"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"pfctl", "scan", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"pfctl", "scan", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"pfctl", "scan", "--titles", "--count", "--titles"},
			expected: []string{"pfctl", "scan", "--count", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsKeepsPositionalAfterSwitch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "filter after dropped switch",
			args:     []string{"pfctl", "eval", "--lenient", "a>1", "--lenient", "--props", "a=2;"},
			expected: []string{"pfctl", "eval", "a>1", "--lenient", "--props", "a=2;"},
		},
		{
			name:     "catalog after dropped switch",
			args:     []string{"pfctl", "scan", "--count", "products.json", "--count"},
			expected: []string{"pfctl", "scan", "products.json", "--count"},
		},
		{
			name:     "alias and name are one flag",
			args:     []string{"pfctl", "scan", "-l", "products.json", "--lenient"},
			expected: []string{"pfctl", "scan", "products.json", "--lenient"},
		},
		{
			name:     "value alias and name are one flag",
			args:     []string{"pfctl", "scan", "-f", "a>1", "products.json", "--filter", "b>2"},
			expected: []string{"pfctl", "scan", "products.json", "--filter", "b>2"},
		},
		{
			name:     "single switch keeps following positional",
			args:     []string{"pfctl", "check", "--titles", "a=1"},
			expected: []string{"pfctl", "check", "--titles", "a=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deduplicateFlags(tt.args))
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"pfctl", "scan", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"pfctl", "scan", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"pfctl", "scan", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"pfctl", "scan", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

// withSets points the config at a temp file holding argument sets.
func withSets(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pfctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scan:
  defaults: ["--output json"]
  wide: ["--attrs *", "--titles"]
  stocked: ["--filter 'stock > 0'"]
  bad: [1, 2]
eval:
  lenient: --lenient
  defaults: ["--lenient"]
`), 0o600))

	t.Setenv(config.EnvFile, path)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

func TestProcessSetOnly(t *testing.T) {
	withSets(t)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "defaults injected after command",
			args:     []string{"pfctl", "scan", "products.json"},
			expected: []string{"pfctl", "scan", "--output", "json", "products.json"},
		},
		{
			name:     "named set replaces marker",
			args:     []string{"pfctl", "scan", "products.json", "@wide"},
			expected: []string{"pfctl", "scan", "products.json", "--attrs", "*", "--titles"},
		},
		{
			name:     "quoted filter stays together",
			args:     []string{"pfctl", "scan", "@stocked", "products.json"},
			expected: []string{"pfctl", "scan", "--filter", "stock > 0", "products.json"},
		},
		{
			name:     "scalar set",
			args:     []string{"pfctl", "eval", "@lenient", "a=1"},
			expected: []string{"pfctl", "eval", "--lenient", "a=1"},
		},
		{
			name:     "unknown set",
			args:     []string{"pfctl", "scan", "@nope", "products.json"},
			expected: []string{"pfctl", "scan", "products.json"},
		},
		{
			name:     "malformed set",
			args:     []string{"pfctl", "scan", "@bad"},
			expected: []string{"pfctl", "scan"},
		},
		{
			name:     "command without defaults",
			args:     []string{"pfctl", "fmt", "a=1"},
			expected: []string{"pfctl", "fmt", "a=1"},
		},
		{
			name:     "no command",
			args:     []string{"pfctl"},
			expected: []string{"pfctl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}

func TestProcessCommandArgs(t *testing.T) {
	withSets(t)

	// Flags typed on the command line override the injected defaults.
	got := processCommandArgs([]string{"pfctl", "scan", "--output", "yaml", "products.json"})
	assert.Equal(t, []string{"pfctl", "scan", "--output", "yaml", "products.json"}, got)

	// A default switch repeated on the command line keeps the filter.
	got = processCommandArgs([]string{"pfctl", "eval", "a>1", "--lenient"})
	assert.Equal(t, []string{"pfctl", "eval", "a>1", "--lenient"}, got)

	got = processCommandArgs([]string{"pfctl", "completion", "@wide"})
	assert.Equal(t, []string{"pfctl", "completion", "@wide"}, got)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "--titles", want: []string{"--titles"}},
		{in: "  --output   text ", want: []string{"--output", "text"}},
		{in: `--filter "a = 1"`, want: []string{"--filter", "a = 1"}},
		{in: `--filter 'name="x y"'`, want: []string{"--filter", `name="x y"`}},
		{in: `--attrs ""`, want: []string{"--attrs", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitFields(tt.in))
		})
	}
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"pfctl", "--help"}, handleNakedCommand([]string{"pfctl"}))
	assert.Equal(t, []string{"pfctl", "scan"}, handleNakedCommand([]string{"pfctl", "scan"}))
}

func TestHandleVersion(t *testing.T) {
	assert.False(t, handleVersion([]string{"pfctl", "scan"}))
	assert.True(t, handleVersion([]string{"pfctl", "--version"}))
	assert.True(t, handleVersion([]string{"pfctl", "-v"}))
}
