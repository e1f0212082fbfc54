// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package propval

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrNotFound is wrapped by Set.Get when a property is absent.
var ErrNotFound = errors.New("property not found")

type entry struct {
	name  string
	value Value
}

// Set is an immutable, case-insensitive collection of named values. The zero
// Set is empty and usable.
type Set struct {
	entries map[string]entry
}

// NewSet builds a Set from m. When two keys fold to the same name the one
// that sorts last wins.
func NewSet(m map[string]Value) Set {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := Set{entries: make(map[string]entry, len(m))}
	for _, k := range keys {
		s.entries[fold(k)] = entry{name: k, value: m[k]}
	}
	return s
}

// With returns a copy of s with name set to v.
func (s Set) With(name string, v Value) Set {
	out := Set{entries: make(map[string]entry, len(s.entries)+1)}
	for k, e := range s.entries {
		out.entries[k] = e
	}
	out.entries[fold(name)] = entry{name: name, value: v}
	return out
}

// Has reports whether name is present.
func (s Set) Has(name string) bool {
	_, ok := s.entries[fold(name)]
	return ok
}

// Get returns the value of name or an error wrapping ErrNotFound.
func (s Set) Get(name string) (Value, error) {
	if e, ok := s.entries[fold(name)]; ok {
		return e.value, nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// TryGet returns the value of name and whether it was present.
func (s Set) TryGet(name string) (Value, bool) {
	e, ok := s.entries[fold(name)]
	return e.value, ok
}

// Len returns the number of properties.
func (s Set) Len() int {
	return len(s.entries)
}

// Names returns the property names as given, ordered case-insensitively.
func (s Set) Names() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s.entries[k].name
	}
	return names
}

// String renders the set in its encoded form, e.g. `a=1;b=2:Meter;`.
func (s Set) String() string {
	var sb strings.Builder
	for _, name := range s.Names() {
		v, _ := s.TryGet(name)
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(v.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// ParseSet decodes the `name=value;name=value;` form. Every malformed entry is
// reported, not just the first.
func ParseSet(text string) (Set, error) {
	var errs *multierror.Error
	m := map[string]Value{}

	for i, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, encoded, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			errs = multierror.Append(errs, fmt.Errorf("entry %d %q: expected name=value", i+1, part))
			continue
		}

		v, err := Parse(strings.TrimSpace(encoded))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("entry %d %q: %w", i+1, part, err))
			continue
		}
		m[name] = v
	}

	if err := errs.ErrorOrNil(); err != nil {
		return Set{}, err
	}
	return NewSet(m), nil
}

// FromNative converts a decoded JSON or YAML scalar into a Value. Strings go
// through Parse, so "2:meter" becomes an Amount and plain words become Text.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case int:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows an integer", ErrInvalidLiteral, x)
		}
		return Integer(int64(x)), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return Integer(int64(x)), nil
		}
		return Parse(fmt.Sprintf("%v", x))
	case bool:
		if x {
			return Integer(1), nil
		}
		return Integer(0), nil
	case string:
		return Parse(x)
	case nil:
		return Value{}, fmt.Errorf("%w: null", ErrInvalidLiteral)
	}
	return Value{}, fmt.Errorf("%w: unsupported %T", ErrInvalidLiteral, v)
}
