// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestRawInvoke(t *testing.T) {
	ret, errno := rawInvoke(uint64(unix.SYS_GETPID), [6]uint64{})
	assert.Zero(t, errno)
	assert.Equal(t, os.Getpid(), int(ret))

	_, errno = rawInvoke(uint64(unix.SYS_CLOSE), [6]uint64{^uint64(0)})
	assert.Equal(t, unix.EBADF, errno)
}
