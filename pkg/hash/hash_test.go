// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	sig1 := Hash([]byte("foo"), []byte("bar"))
	sig2 := Hash([]byte("foobar"))
	assert.Equal(t, sig1, sig2, "hash must depend on concatenated contents only")
	assert.NotEqual(t, sig1, Hash([]byte("foobaz")))
	assert.Len(t, sig1.String(), 40)
	assert.Equal(t, sig1.Truncate64(), sig2.Truncate64())
}
