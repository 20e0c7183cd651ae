// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package trial

import (
	"fmt"
	"math/bits"
)

// Catalog maps argument kinds to the ordered list of boundary/invalid values
// to try for that kind. It is built once at start of run (values that depend
// on live process state, e.g. guard page addresses and scratch fds, come from
// Resources) and is immutable afterwards.
//
// The catalog is not safe for concurrent use; one engine owns it.
type Catalog struct {
	rows   map[Kind][]uint64
	merged map[Kind][]uint64 // lazily computed unions for OR-combined kinds
}

// MakeCatalog builds a catalog from explicit rows. Mostly useful in tests;
// production code uses NewCatalog.
func MakeCatalog(rows map[Kind][]uint64) *Catalog {
	return &Catalog{
		rows:   rows,
		merged: make(map[Kind][]uint64),
	}
}

// NewCatalog builds the production value catalog. Runtime-dependent values
// (guard page addresses, scratch fds) are taken from res.
func NewCatalog(res *Resources) *Catalog {
	const (
		minusOne = ^uint64(0)
		intMax   = uint64(0x7fffffff)
	)
	// Linux AT_FDCWD (-100) as it appears in a sign-extended register.
	atFdcwd := uint64(0xffffffffffffff9c)
	return MakeCatalog(map[Kind][]uint64{
		KindFD:       {minusOne, intMax, 0x80000000, 1 << 20, res.ScratchFD},
		KindDirFD:    {atFdcwd, minusOne, res.DirFD, res.ScratchFD},
		KindPtr:      {0, res.PageNone, res.PageEdge, res.PageRO, res.PageWr, minusOne, 1},
		KindPtrWr:    {0, res.PageNone, res.PageEdge, res.PageWr, minusOne},
		KindFilename: {0, res.PagePath, res.PageDot, res.PageNone, res.PageEdge},
		KindLen:      {0, 1, intMax, 0x80000000, 1 << 48, minusOne},
		KindMode:     {0, 0777, 07777, 0xffff, minusOne},
		KindFlags:    {0, 0xffffffff, 1 << 31, 0xdeadbeef, minusOne},
		KindSockFD:   {minusOne, intMax, res.ScratchFD},
		KindSockAddr: {0, res.PageNone, res.PageEdge, res.PageRO},
		KindSockLen:  {0, 1, 16, 128, minusOne},
		KindClockID:  {0, 14, 0x1000, intMax, minusOne},
		KindPID:      {0, 99999999, 1 << 22, intMax},
		KindUID:      {0xfffe, 1 << 20, intMax, minusOne},
		KindGID:      {0xfffe, 1 << 20, intMax, minusOne},
		KindSignum:   {0, 0x8000, 1 << 20, intMax, minusOne},
		KindOffset:   {0, 1, 1 << 40, minusOne, uint64(1) << 63},
		KindProt:     {0xffffffff, 1 << 20, minusOne},
		KindInt:      {0, 1, intMax, 0x80000000, minusOne},
		KindMapPtr:   {0, res.PageSac, minusOne, 1},
		KindMapLen:   {0, 1, minusOne, 1 << 48},

		MiscBPFCmd:      {minusOne, 0x7fff, 100, 0xffffff},
		MiscPrctlOp:     {minusOne, 0, 0xbadc0de, intMax},
		MiscIoctlReq:    {minusOne, 0, 0xdeadbeef, 0xffffffff},
		MiscFutexOp:     {minusOne, 0x7ff, 0xffff, intMax},
		MiscMadvise:     {minusOne, 0xff, 1 << 16, intMax},
		MiscWhence:      {minusOne, 7, 0xffff, intMax},
		MiscSeccompOp:   {minusOne, 0xff, intMax},
		MiscSchedPolicy: {minusOne, 0xff, 1 << 20, intMax},
		MiscSockDomain:  {minusOne, 0xff, 1 << 16, intMax},
		MiscSockType:    {minusOne, 0xff, 1 << 16, intMax},
	})
}

// Values returns the list of values to try for the given slot kind.
// For OR-combined kinds it is the deduplicated union of the per-kind lists,
// in catalog declaration order. A kind with no catalog row is a
// catalog-construction bug and panics: silently under-testing a slot is
// worse than failing at startup.
func (cat *Catalog) Values(kind Kind) []uint64 {
	if kind == KindNone || kind == KindRandom {
		panic(fmt.Sprintf("no catalog values for kind %#x", uint64(kind)))
	}
	if kind.IsMisc() || bits.OnesCount64(uint64(kind)) == 1 {
		row, ok := cat.rows[kind]
		if !ok {
			panic(fmt.Sprintf("no catalog row for kind %#x", uint64(kind)))
		}
		return row
	}
	if vals, ok := cat.merged[kind]; ok {
		return vals
	}
	var vals []uint64
	seen := make(map[uint64]bool)
	for bit := Kind(1); bit < kindMiscFlag; bit <<= 1 {
		if kind&bit == 0 {
			continue
		}
		row, ok := cat.rows[bit]
		if !ok {
			panic(fmt.Sprintf("no catalog row for kind %#x (part of %#x)", uint64(bit), uint64(kind)))
		}
		for _, v := range row {
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
	}
	cat.merged[kind] = vals
	return vals
}
