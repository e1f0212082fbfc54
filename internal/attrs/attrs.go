// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pfctl/pfctl/internal/catalog"
	"github.com/pfctl/pfctl/internal/log"
)

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr represents each of the columns to be included in the output. A key
// names an entry property, or a path into the raw entry document when it
// starts with '.'.
type Attr struct {
	// The property name or raw document path.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. This is also used as the column title when
	// output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Value extracts the attribute from e. Properties come back in their native
// form (integers as int64, amounts and text as strings). The key "id" falls
// back to the entry id when no such property exists. Missing values are nil.
func (a *Attr) Value(e catalog.Entry) interface{} {
	if strings.HasPrefix(a.Key, ".") {
		r := catalog.Drill(e.Raw, a.Key)
		if !r.Exists() {
			return nil
		}
		return r.Value()
	}

	if v, ok := e.Props.TryGet(a.Key); ok {
		return v.Native()
	}
	if strings.EqualFold(a.Key, "id") {
		return e.ID
	}
	return nil
}

// Transform applies the attribute's transform spec to a value and returns the
// transformed result.
func (a *Attr) Transform(value interface{}) interface{} {
	// Thousands separators apply to numbers only.
	if strings.Contains(a.TransformSpec, "c") {
		switch n := value.(type) {
		case int64:
			return humanize.Comma(n)
		case int:
			return humanize.Comma(int64(n))
		case float64:
			if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
				return humanize.Comma(int64(n))
			}
			return humanize.Commaf(n)
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	// Convert UTC time to local or time ago.
	if strings.ContainsAny(a.TransformSpec, "tT") {
		if t, err := time.Parse(time.RFC3339, result); err == nil {
			local := t.In(time.Now().Location())
			if strings.Contains(a.TransformSpec, "T") {
				result = humanize.Time(local)
				log.Tracef("time ago: result=%s", result)
			} else {
				result = local.Format("2006-01-02T15:04:05MST")
				log.Tracef("time local: result=%s", result)
			}
		}
	}

	// We need to know which case transformation appears last. This covers the
	// case where there has been a global case transformation prepended to the
	// attrs transformation and allows the attr's to carry more weight.
	// IOW... --attrs '*::U,name::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
		log.Tracef("case lower: result=%s", result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
		log.Tracef("case upper: result=%s", result)
	}

	// Same logic as above re: case. The last length wins so a specific
	// length overrides a global one.
	match := lengthRegex.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			if l < 0 {
				lr := max(abs/2-1, 0)
				result = result[:lr] + ".." + result[len(result)-lr:]
				log.Tracef("length middle: result=%s", result)
			} else {
				result = result[:l]
				log.Tracef("length trunc: result=%s", result)
			}
		}
	}

	return result
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses each spec from --attrs and adds it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec. The first is the key to
	// extract. The second is the key to use in the output. The third is the
	// transformation spec to apply to the output value. The latter two are
	// optional. The output key defaults to the last section of the key.
	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		// The first field is the key. If it begins with a !, it is excluded
		// from the output.
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" || attr.Key == "." {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		log.Tracef("key parsed: key=%s, include=%v", attr.Key, attr.Include)

		// Fix up the output field. If there is only one field, the output key
		// becomes the last segment of the . notation.
		if len(fields) == 1 || strings.TrimSpace(fields[outputIdx]) == "" {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		log.Tracef("output set: outputKey=%s", attr.OutputKey)

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("transform set: spec=%s", attr.TransformSpec)

		// If the attr already exists in the list (because it is a default for
		// a command or the user double-entered it), apply the OutputKey, Include
		// and TransformSpec to the existing Attr.
		for i := range *a {
			if strings.EqualFold((*a)[i].Key, attr.Key) || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
		log.Tracef("attr appended: len=%d", len(*a))
	}

	return nil
}

// SetGlobalTransformSpec inserts the "*" transform spec at the front of all
// attrs in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// Find the global transform spec. If there is more than one, take the first.
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}
	log.Debugf("global spec: spec=%s", spec)

	if spec == "" {
		return nil
	}

	for i := range *a {
		if (*a)[i].Key == "*" {
			continue
		}
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("specs prepended")

	return nil
}

// Expand replaces a "*" attr with one attr per property found in entries,
// skipping properties that are already listed. Expanded attrs inherit the
// "*" transform spec and sort by name. An excluded "*" expands to nothing.
func (a AttrList) Expand(entries []catalog.Entry) AttrList {
	listed := map[string]bool{}
	for _, attr := range a {
		listed[strings.ToLower(attr.Key)] = true
	}

	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Key != "*" {
			out = append(out, attr)
			continue
		}
		if !attr.Include {
			continue
		}

		seen := map[string]string{}
		for _, e := range entries {
			for _, name := range e.Props.Names() {
				folded := strings.ToLower(name)
				if _, ok := seen[folded]; !ok && !listed[folded] {
					seen[folded] = name
				}
			}
		}

		keys := make([]string, 0, len(seen))
		for k := range seen {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			out = append(out, Attr{
				Key:           seen[k],
				Include:       true,
				OutputKey:     seen[k],
				TransformSpec: attr.TransformSpec,
			})
		}
	}

	log.Debugf("attrs expanded: len=%d", len(out))
	return out
}

// String returns a string representation of the AttrList. This matches the
// format of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}

	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
