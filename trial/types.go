// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package trial contains the data model of syscall argument fuzzing:
// argument kinds, the catalog of boundary values per kind, syscall cases
// (a syscall paired with per-slot argument kinds) and trial keys
// (a syscall paired with the exact argument tuple of one invocation).
package trial

import (
	"encoding/binary"
	"fmt"
)

// Kind is a bitmask tag describing the semantic category of one syscall
// argument slot. Multiple kinds can be OR-ed on a single slot, meaning
// "try the union of all matching value lists". The upper bits hold
// special markers (random draw, enumerated misc values).
type Kind uint64

const (
	KindNone     Kind = 0
	KindFD       Kind = 1 << 0 // file descriptor
	KindDirFD    Kind = 1 << 1 // directory file descriptor (openat and friends)
	KindPtr      Kind = 1 << 2 // pointer the callee may read through
	KindPtrWr    Kind = 1 << 3 // pointer the callee may write through
	KindFilename Kind = 1 << 4 // pointer to a NUL-terminated path
	KindLen      Kind = 1 << 5 // buffer length / count
	KindMode     Kind = 1 << 6 // file mode
	KindFlags    Kind = 1 << 7 // generic flag bitmask
	KindSockFD   Kind = 1 << 8
	KindSockAddr Kind = 1 << 9 // pointer to a socket address
	KindSockLen  Kind = 1 << 10
	KindClockID  Kind = 1 << 11
	KindPID      Kind = 1 << 12
	KindUID      Kind = 1 << 13
	KindGID      Kind = 1 << 14
	KindSignum   Kind = 1 << 15
	KindOffset   Kind = 1 << 16 // file offset
	KindProt     Kind = 1 << 17 // mmap/mprotect protection bits
	KindInt      Kind = 1 << 18 // plain integer boundary values

	// Address/length of the disposable sacrificial mapping. Used by cases
	// that can destroy the mapping they are pointed at (munmap, mprotect);
	// feeding those the live guard pages would let one successful trial
	// tear down values every later trial depends on.
	KindMapPtr Kind = 1 << 19
	KindMapLen Kind = 1 << 20

	// KindRandom makes the engine draw fresh pseudo-random 64-bit values
	// for the slot on every visit instead of consulting the catalog.
	// Such tuples are never deduplicated.
	KindRandom Kind = 1 << 62
)

// Enumerated "miscellaneous" kinds: an id embedded in spare bits above the
// OR-able kind space. A misc kind is always exact, never OR-combined.
const (
	kindMiscFlag      Kind = 1 << 32
	kindMiscShift          = 33
	MiscBPFCmd             = kindMiscFlag | 0<<kindMiscShift
	MiscPrctlOp            = kindMiscFlag | 1<<kindMiscShift
	MiscIoctlReq           = kindMiscFlag | 2<<kindMiscShift
	MiscFutexOp            = kindMiscFlag | 3<<kindMiscShift
	MiscMadvise            = kindMiscFlag | 4<<kindMiscShift
	MiscWhence             = kindMiscFlag | 5<<kindMiscShift
	MiscSeccompOp          = kindMiscFlag | 6<<kindMiscShift
	MiscSchedPolicy        = kindMiscFlag | 7<<kindMiscShift
	MiscSockDomain         = kindMiscFlag | 8<<kindMiscShift
	MiscSockType           = kindMiscFlag | 9<<kindMiscShift
)

// IsMisc says if the kind is an enumerated misc kind rather than a bitmask.
func (kind Kind) IsMisc() bool {
	return kind&kindMiscFlag != 0
}

// Attr holds non-argument properties of a syscall case.
type Attr uint32

const (
	// AttrNeedsRoot cases are exercised only when the process has enough
	// privilege; otherwise they are excluded from the run entirely.
	AttrNeedsRoot Attr = 1 << iota
	// AttrMutatesCwd marks operations that can change mode/owner of the
	// working directory as a side effect (chmod/chown family). After such
	// a trial the engine restores the snapshot taken at start of run.
	AttrMutatesCwd
)

// SyscallCase is one row of the syscall descriptor table. Several cases may
// target the same syscall number with different argument kind combinations.
type SyscallCase struct {
	ID    int    // index in the enabled case list
	NR    uint64 // kernel syscall number
	Name  string // display name, call$variant for alternative rows
	NArgs int
	Kinds [6]Kind
	Attrs Attr
}

func (c *SyscallCase) String() string {
	return fmt.Sprintf("%v [nr=%v args=%v]", c.Name, c.NR, c.NArgs)
}

// Key identifies one concrete trial: a syscall number plus the exact
// argument tuple used. Equality is exact tuple match.
type Key struct {
	NR   uint64
	Args [6]uint64
}

// Bytes returns a fixed 56-byte little-endian encoding of the key,
// suitable for hashing and stable reporting.
func (k Key) Bytes() []byte {
	buf := make([]byte, 8*7)
	binary.LittleEndian.PutUint64(buf, k.NR)
	for i, arg := range k.Args {
		binary.LittleEndian.PutUint64(buf[8*(i+1):], arg)
	}
	return buf
}
