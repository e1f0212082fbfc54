// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"sort"
	"strings"
)

// References returns the sorted, lower-cased names of every property e
// reads, each once.
func References(e Expr) []string {
	seen := make(map[string]struct{})
	Walk(e, func(n Expr) bool {
		switch n := n.(type) {
		case *Identifier:
			seen[strings.ToLower(n.Name)] = struct{}{}
		case *IdentifierWithUnit:
			seen[strings.ToLower(n.Name)] = struct{}{}
		}
		return true
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
