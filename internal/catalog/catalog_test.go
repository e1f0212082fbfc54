// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/propval"
)

//go:embed testdata/*.yaml testdata/*.json
var testDataFS embed.FS

func loadTestData(t *testing.T, filename string, v any) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

func loadProducts(t *testing.T) *Catalog {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/products.json")
	require.NoError(t, err)
	cat, err := Load(data, Options{Root: "catalog.products"})
	require.NoError(t, err)
	return cat
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestDrill(t *testing.T) {
	var cases []struct {
		Name string `yaml:"name"`
		Path string `yaml:"path"`
		Want string `yaml:"want"`
	}
	loadTestData(t, "drill.yaml", &cases)

	doc := gjson.Parse(`{"a":{"b":[1,2,3]},"one":[{"x":9}],"many":[{"x":1},{"x":2}]}`)
	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, Drill(doc, tt.Path).Raw)
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	cat := loadProducts(t)
	require.Len(t, cat.Entries, 3)
	assert.NoError(t, cat.Warnings)
	assert.Equal(t, []string{"d-100", "d-200", "r-300"}, ids(cat.Entries))

	props := cat.Entries[0].Props
	stock, err := props.Get("stock")
	require.NoError(t, err)
	assert.Equal(t, propval.KindInteger, stock.Kind())
	assert.Equal(t, int64(12), stock.Int())

	width, ok := props.TryGet("DIMS.WIDTH")
	require.True(t, ok)
	assert.Equal(t, propval.KindAmount, width.Kind())

	active, _ := props.TryGet("active")
	assert.Equal(t, int64(1), active.Int())

	tag, ok := cat.Entries[1].Props.TryGet("tags.0")
	require.True(t, ok)
	assert.Equal(t, "insulated", tag.Text())

	assert.False(t, cat.Entries[2].Props.Has("note"))
	assert.Equal(t, "rect 300", cat.Entries[2].Raw.Get("name").String())
}

func TestLoad_YAML(t *testing.T) {
	data, err := testDataFS.ReadFile("testdata/products.yaml")
	require.NoError(t, err)

	cat, err := Load(data, Options{Root: "products", Format: FormatYAML})
	require.NoError(t, err)
	assert.Equal(t, []string{"d-100", "d-200", "#2"}, ids(cat.Entries))

	d, ok := cat.Entries[1].Props.TryGet("diameter")
	require.True(t, ok)
	assert.Equal(t, propval.KindAmount, d.Kind())

	// Numeric mapping keys become part of the dotted name.
	small, ok := cat.Entries[1].Props.TryGet("sizes.100")
	require.True(t, ok)
	assert.Equal(t, "small", small.Text())
	large, ok := cat.Entries[1].Props.TryGet("sizes.250")
	require.True(t, ok)
	assert.Equal(t, propval.KindAmount, large.Kind())
	assert.Equal(t, "small", Drill(cat.Entries[1].Raw, "sizes.100").String())
}

func TestLoad_YAMLNonStringKeys(t *testing.T) {
	doc := []byte("- id: a\n  sizes:\n    100: small\n    true: yes\n  nested:\n    - 1: one\n")

	cat, err := Load(doc, Options{Format: FormatYAML})
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)

	props := cat.Entries[0].Props
	assert.True(t, props.Has("sizes.100"))
	assert.True(t, props.Has("sizes.true"))
	assert.True(t, props.Has("nested.0.1"))
}

func TestLoad_Options(t *testing.T) {
	doc := []byte(`[{"sku":"a1","n":1},{"sku":"b2","n":2.5},"stray",{"n":"3:furlong"}]`)

	cat, err := Load(doc, Options{IDKey: "sku"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2", "#3"}, ids(cat.Entries))
	assert.Equal(t, 3, cat.Entries[2].Index)

	n, _ := cat.Entries[1].Props.TryGet("n")
	assert.Equal(t, propval.KindAmount, n.Kind())

	// The stray scalar and the unknown unit are both reported.
	var merr interface{ WrappedErrors() []error }
	require.ErrorAs(t, cat.Warnings, &merr)
	assert.Len(t, merr.WrappedErrors(), 2)
	assert.ErrorContains(t, cat.Warnings, "entry 2: not an object")

	furlong, ok := cat.Entries[2].Props.TryGet("n")
	require.True(t, ok)
	assert.Equal(t, propval.KindText, furlong.Kind())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte(`{"a":[1}`), Options{Format: FormatJSON})
	assert.Error(t, err)

	_, err = Load([]byte("a: [1"), Options{Format: FormatYAML})
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = Load([]byte(`{"a":[]}`), Options{Root: "b"})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	data, err := testDataFS.ReadFile("testdata/products.yaml")
	require.NoError(t, err)

	// No extension, so the format comes from content.
	path := filepath.Join(dir, "products")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cat, err := LoadFile(path, Options{Root: "products"})
	require.NoError(t, err)
	assert.Equal(t, path, cat.Source)
	assert.Len(t, cat.Entries, 3)

	_, err = LoadFile(filepath.Join(dir, "missing.json"), Options{})
	assert.ErrorContains(t, err, "failed to read catalog")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("x.JSON", nil))
	assert.Equal(t, FormatYAML, DetectFormat("x.yml", nil))
	assert.Equal(t, FormatJSON, DetectFormat("-", []byte(`[{"a":1}]`)))
	assert.Equal(t, FormatYAML, DetectFormat("-", []byte("- a: 1\n")))

	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	var cases []struct {
		Name    string   `yaml:"name"`
		Filter  string   `yaml:"filter"`
		Lenient bool     `yaml:"lenient"`
		Want    []string `yaml:"want"`
	}
	loadTestData(t, "scan.yaml", &cases)

	cat := loadProducts(t)
	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			s := NewScanner(Workers(2), Lenient(tt.Lenient))
			res, err := s.Scan(context.Background(), cat, tt.Filter)
			require.NoError(t, err)
			assert.NoError(t, res.Errors)
			assert.Equal(t, 3, res.Scanned)
			assert.Equal(t, tt.Want, ids(res.Matches))
		})
	}
}

func TestScan_EntryErrors(t *testing.T) {
	cat := loadProducts(t)
	s := NewScanner()

	// name is text on every entry, so ordering it against an integer fails.
	res, err := s.Scan(context.Background(), cat, "name>1|stock=12")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	require.Error(t, res.Errors)
	assert.True(t, errors.Is(res.Errors, propval.ErrTypeMismatch))
	assert.ErrorContains(t, res.Errors, "entry d-100")
}

func TestScan_InvalidFilter(t *testing.T) {
	s := NewScanner()
	_, err := s.Scan(context.Background(), loadProducts(t), "a=")

	var syn *filter.SyntaxError
	assert.ErrorAs(t, err, &syn)
	assert.Equal(t, 0, s.Cached())
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner().Scan(ctx, loadProducts(t), "stock>0")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_FilterCache(t *testing.T) {
	s := NewScanner(Workers(0))
	assert.Positive(t, s.workers)

	cat := loadProducts(t)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := fmt.Sprintf("stock>%d", i%4)
			_, err := s.Scan(context.Background(), cat, text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, s.Cached())

	a, err := s.Filter("stock>1")
	require.NoError(t, err)
	b, err := s.Filter("stock>1")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
