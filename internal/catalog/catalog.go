// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/propval"
	"github.com/pfctl/pfctl/internal/quantity"
)

// ErrNoEntries is returned when the root path selects nothing.
var ErrNoEntries = errors.New("no catalog entries")

// Format identifies the encoding of a catalog document.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// ParseFormat maps a --format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("unknown catalog format %q", s)
}

// Options controls how a document becomes a Catalog.
type Options struct {
	// Root is a Drill path selecting the entry array. Empty means the
	// document itself.
	Root string
	// IDKey names the field used as entry id. Entries without it are
	// identified by their position.
	IDKey  string
	Format Format
}

// Entry is one catalog item.
type Entry struct {
	Index int
	ID    string
	Props propval.Set
	Raw   gjson.Result
}

// Catalog is a loaded set of entries. Warnings collects skipped items and
// amounts with unknown units; the latter are kept as text.
type Catalog struct {
	Source   string
	Entries  []Entry
	Warnings error
}

// LoadFile reads and decodes the catalog at path.
func LoadFile(path string, opts Options) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if opts.Format == FormatAuto {
		opts.Format = DetectFormat(path, data)
	}

	cat, err := Load(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cat.Source = path
	return cat, nil
}

// DetectFormat picks a format from the file extension, then from content.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	if gjson.ValidBytes(data) {
		return FormatJSON
	}
	return FormatYAML
}

// Load decodes data into a Catalog.
func Load(data []byte, opts Options) (*Catalog, error) {
	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat("", data)
	}

	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON document")
	}

	root := Drill(gjson.ParseBytes(data), opts.Root)
	if !root.Exists() {
		return nil, fmt.Errorf("%w at root %q", ErrNoEntries, opts.Root)
	}

	idKey := opts.IDKey
	if idKey == "" {
		idKey = "id"
	}

	var warnings *multierror.Error
	cat := &Catalog{}
	for i, item := range root.Array() {
		if !item.IsObject() {
			warnings = multierror.Append(warnings, fmt.Errorf("entry %d: not an object", i))
			continue
		}

		m := map[string]propval.Value{}
		flatten("", item, m, func(name string, err error) {
			warnings = multierror.Append(warnings, fmt.Errorf("entry %d property %s: %w", i, name, err))
		})

		id := item.Get(idKey).String()
		if id == "" {
			id = "#" + strconv.Itoa(i)
		}

		cat.Entries = append(cat.Entries, Entry{
			Index: i,
			ID:    id,
			Props: propval.NewSet(m),
			Raw:   item,
		})
	}

	cat.Warnings = warnings.ErrorOrNil()
	log.Debugf("catalog loaded: entries=%d root=%q", len(cat.Entries), opts.Root)
	return cat, nil
}

// flatten converts every scalar under r into a property. Nested objects and
// arrays extend the name with ".key" and ".index". Nulls are left out so they
// read as missing.
func flatten(prefix string, r gjson.Result, m map[string]propval.Value, warn func(string, error)) {
	switch {
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			flatten(join(prefix, k.String()), v, m, warn)
			return true
		})
		return
	case r.IsArray():
		for i, v := range r.Array() {
			flatten(join(prefix, strconv.Itoa(i)), v, m, warn)
		}
		return
	}

	var (
		v   propval.Value
		err error
	)
	switch r.Type {
	case gjson.Null:
		return
	case gjson.True, gjson.False:
		v, err = propval.FromNative(r.Bool())
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			v, err = propval.FromNative(r.Float())
		} else {
			v, err = propval.FromNative(r.Int())
		}
	default:
		v, err = propval.FromNative(r.String())
		if err != nil {
			// Text with a colon, like a URL or a timestamp, stays text. Only an
			// unknown unit is reported.
			v = propval.Text(r.String())
			if !errors.Is(err, quantity.ErrUnknownUnit) {
				err = nil
			}
		}
	}
	if err != nil {
		warn(prefix, err)
	}
	m[prefix] = v
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// yamlToJSON decodes a YAML document and re-encodes it as JSON so both
// formats share the gjson path handling.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	out, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML: %w", err)
	}
	return out, nil
}

// stringKeys rewrites mappings with non-string keys, such as `100: small`, so
// the tree can be encoded as JSON.
func stringKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = stringKeys(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = stringKeys(e)
		}
		return x
	}
	return v
}
