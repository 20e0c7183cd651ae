// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package trial

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/kstress/sysinval/pkg/osutil"
)

func TestMapResources(t *testing.T) {
	res, err := MapResources(t.TempDir())
	require.NoError(t, err)
	defer res.Release()

	pages := []uint64{res.PageNone, res.PageEdge, res.PageRO, res.PageWr, res.PageSac}
	seen := make(map[uint64]bool)
	for _, p := range pages {
		assert.NotZero(t, p)
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.True(t, osutil.IsExist(res.ScratchPath))
	assert.True(t, osutil.IsExist(res.DirPath))
	assert.NotZero(t, res.ScratchFD)
	assert.NotZero(t, res.DirFD)

	// The read-only page holds the scratch path and "." back to back,
	// both NUL-terminated.
	ro := res.mappings[2]
	n := bytes.IndexByte(ro, 0)
	require.Greater(t, n, 0)
	assert.Equal(t, res.ScratchPath, string(ro[:n]))
	assert.Equal(t, res.PagePath, res.PageRO)
	assert.Equal(t, res.PageRO+uint64(n)+1, res.PageDot)
	assert.Equal(t, byte('.'), ro[n+1])
	assert.Equal(t, byte(0), ro[n+2])

	// The edge pointer leaves 16 accessible bytes before the protected page.
	edge := res.mappings[1]
	pageSize := uint64(os.Getpagesize())
	assert.Equal(t, pageAddr(edge)+pageSize-16, res.PageEdge)

	// The scratch page can be re-zeroed between trials.
	res.wrMem[0] = 1
	res.wrMem[len(res.wrMem)-1] = 2
	res.ZeroScratch()
	assert.Zero(t, res.wrMem[0])
	assert.Zero(t, res.wrMem[len(res.wrMem)-1])
}

func TestReviveFDs(t *testing.T) {
	res, err := MapResources(t.TempDir())
	require.NoError(t, err)
	defer res.Release()

	// No-op while both fds are alive.
	res.ReviveFDs()

	require.NoError(t, unix.Close(int(res.ScratchFD)))
	require.NoError(t, unix.Close(int(res.DirFD)))
	res.ReviveFDs()

	// The original descriptor numbers refer to the scratch file/dir again.
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(int(res.ScratchFD), &st))
	assert.Equal(t, uint32(unix.S_IFREG), uint32(st.Mode)&unix.S_IFMT)
	require.NoError(t, unix.Fstat(int(res.DirFD), &st))
	assert.Equal(t, uint32(unix.S_IFDIR), uint32(st.Mode)&unix.S_IFMT)
}

func TestReleaseIdempotent(t *testing.T) {
	res, err := MapResources(t.TempDir())
	require.NoError(t, err)
	res.Release()
	res.Release()
	assert.False(t, osutil.IsExist(res.ScratchPath))
}
