// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// Drill navigates doc using a dot path. A segment may carry an index, as in
// "items[2]". A bare array segment with a single element steps into it; with
// more elements, or with "[]" or "[*]", the whole array is kept. An empty path
// returns doc.
func Drill(doc gjson.Result, path string) gjson.Result {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return doc
	}

	current := doc
	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		index := -1
		if matches[3] != "" && matches[3] != "*" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}
		whole := matches[2] != "" && index == -1

		val := current.Get(matches[1])
		if val.IsArray() {
			arr := val.Array()
			switch {
			case index >= 0 && index < len(arr):
				val = arr[index]
			case index >= 0:
				return gjson.Result{}
			case !whole && len(arr) == 1:
				val = arr[0]
			}
		} else if index >= 0 {
			return gjson.Result{}
		}

		current = val
	}

	return current
}
