// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package trial

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCatalogValues(t *testing.T) {
	cat := MakeCatalog(map[Kind][]uint64{
		KindFD:     {1, 2, 3},
		KindLen:    {3, 4},
		MiscWhence: {7, 8},
		KindPtr:    {0},
	})
	assert.Equal(t, []uint64{1, 2, 3}, cat.Values(KindFD))
	assert.Equal(t, []uint64{7, 8}, cat.Values(MiscWhence))
	// Union of OR-combined kinds keeps declaration order of the lower bit
	// first and drops duplicates.
	if diff := cmp.Diff([]uint64{1, 2, 3, 4}, cat.Values(KindFD|KindLen)); diff != "" {
		t.Fatal(diff)
	}
	// The union is computed once and reused.
	v1 := cat.Values(KindFD | KindLen)
	v2 := cat.Values(KindFD | KindLen)
	assert.Same(t, &v1[0], &v2[0])
}

func TestCatalogMissingRow(t *testing.T) {
	cat := MakeCatalog(map[Kind][]uint64{
		KindFD: {1},
	})
	assert.Panics(t, func() { cat.Values(KindLen) })
	assert.Panics(t, func() { cat.Values(KindFD | KindLen) })
	assert.Panics(t, func() { cat.Values(KindRandom) })
	assert.Panics(t, func() { cat.Values(KindNone) })
}

func TestProductionCatalog(t *testing.T) {
	// A catalog built from placeholder resources must have a row for every
	// kind the descriptor tables can reference.
	cat := NewCatalog(&Resources{})
	kinds := []Kind{
		KindFD, KindDirFD, KindPtr, KindPtrWr, KindFilename, KindLen,
		KindMode, KindFlags, KindSockFD, KindSockAddr, KindSockLen,
		KindClockID, KindPID, KindUID, KindGID, KindSignum, KindOffset,
		KindProt, KindInt, KindMapPtr, KindMapLen,
		MiscBPFCmd, MiscPrctlOp, MiscIoctlReq, MiscFutexOp, MiscMadvise,
		MiscWhence, MiscSeccompOp, MiscSchedPolicy, MiscSockDomain, MiscSockType,
	}
	for _, kind := range kinds {
		assert.NotEmpty(t, cat.Values(kind), "kind %#x", uint64(kind))
	}
}

func TestMapKindsAvoidLivePages(t *testing.T) {
	// The sacrificial-mapping kinds feed munmap/mprotect. Their value lists
	// must never contain the guard pages or the scratch fds: one successful
	// munmap on a live page would break every later trial that uses it.
	res := &Resources{
		PageNone:  0x1000,
		PageEdge:  0x2ff0,
		PageRO:    0x3000,
		PageWr:    0x4000,
		PagePath:  0x3000,
		PageDot:   0x3020,
		PageSac:   0x5000,
		ScratchFD: 10,
		DirFD:     11,
	}
	cat := NewCatalog(res)
	live := map[uint64]string{
		res.PageNone:  "PageNone",
		res.PageEdge:  "PageEdge",
		res.PageRO:    "PageRO",
		res.PageWr:    "PageWr",
		res.PageDot:   "PageDot",
		res.ScratchFD: "ScratchFD",
		res.DirFD:     "DirFD",
	}
	for _, kind := range []Kind{KindMapPtr, KindMapLen} {
		for _, v := range cat.Values(kind) {
			assert.NotContains(t, live, v, "kind %#x", uint64(kind))
		}
	}
	assert.Contains(t, cat.Values(KindMapPtr), res.PageSac)
}

func TestKindIsMisc(t *testing.T) {
	assert.True(t, MiscWhence.IsMisc())
	assert.True(t, MiscSockType.IsMisc())
	assert.False(t, KindFD.IsMisc())
	assert.False(t, (KindFD | KindLen).IsMisc())
	assert.False(t, KindRandom.IsMisc())
}
