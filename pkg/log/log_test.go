// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaching(t *testing.T) {
	prependTime = false
	EnableLogCaching(4, 1<<10)
	Logf(0, "line %v", 1)
	Logf(1, "line %v", 2)
	Logf(2, "this line is not cached")
	assert.Equal(t, "line 1\nline 2\n", CachedLogOutput())
	for i := 3; i < 10; i++ {
		Logf(0, "line %v", i)
	}
	// Only the last maxLines survive in the cache.
	assert.Equal(t, "line 6\nline 7\nline 8\nline 9\n", CachedLogOutput())
}

func TestV(t *testing.T) {
	oldV := *flagV
	defer func() { *flagV = oldV }()
	*flagV = 1
	assert.True(t, V(0))
	assert.True(t, V(1))
	assert.False(t, V(2))
}
