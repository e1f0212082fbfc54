// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import "strings"

var legacyReplacer = strings.NewReplacer(";}", "}", ";)", ")", ";", "&")
var braceReplacer = strings.NewReplacer("}{", ")|(", "{", "(", "}", ")")

// Normalize trims and lower-cases text and rewrites the legacy
// "a=1;b=2;" and "{a=1;}{b=2;}" forms into "&" and "|" expressions. Text
// that does not end with ";" or ";}" passes through untouched.
func Normalize(text string) string {
	f := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasSuffix(f, ";") && !strings.HasSuffix(f, ";}") {
		return f
	}
	f = strings.TrimRight(f, ";")
	f = legacyReplacer.Replace(f)
	return braceReplacer.Replace(f)
}
