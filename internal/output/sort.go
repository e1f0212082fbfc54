// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/pfctl/pfctl/internal/propval"
)

// SortDataset orders rows by the comma separated fields in spec. A leading
// '-' sorts a field descending and a leading '!' compares text case
// sensitively. Numbers compare numerically and amounts of compatible units
// compare by magnitude. Everything else falls back to text.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			c := compareValues(resultSet[one][field], resultSet[two][field], caseSensitive)
			if c != 0 {
				if ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return false
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	if x, ok := toFloat64(a); ok {
		if y, ok := toFloat64(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	// Amount strings such as "2:Meter" order by magnitude when their units
	// are compatible.
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			av, aok := propval.TryParse(as)
			bv, bok := propval.TryParse(bs)
			if aok && bok && av.Kind() == propval.KindAmount && bv.Kind() == propval.KindAmount {
				if c, err := av.Compare(bv); err == nil {
					return c
				}
			}
		}
	}

	// Fall back to string comparison which can also handle bools.
	oneStr := InterfaceToString(a)
	twoStr := InterfaceToString(b)
	if !caseSensitive {
		oneStr = strings.ToLower(oneStr)
		twoStr = strings.ToLower(twoStr)
	}
	return strings.Compare(oneStr, twoStr)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
