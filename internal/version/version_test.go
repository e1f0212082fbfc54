// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLong(t *testing.T) {
	assert.NotEmpty(t, Version)
	long := Long()
	assert.True(t, strings.HasPrefix(long, "pfctl "+Version))
	assert.Contains(t, long, runtime.GOOS)
}
