// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package dedup implements the fixed-capacity trial outcome table that lives
// in the memory region shared between the supervisor and its worker children.
// The table records which exact syscall/argument tuples already crashed or
// timed out, so that a re-spawned worker skips them instead of dying on the
// same tuple forever.
//
// The table is an open-chained hash table laid out as a flat struct overlaid
// on the shared mapping. All-zero memory is a valid empty table: bucket heads
// and chain links store record index plus one, with zero meaning "no record".
// Nothing is ever removed. Writers do not overlap by construction (the worker
// inserts while it is the only live writer, the supervisor inserts crash
// entries only after reaping the worker), so no locking is needed; the
// record count is accessed atomically because the supervisor heartbeat reads
// it while a worker runs.
package dedup

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/kstress/sysinval/pkg/hash"
	"github.com/kstress/sysinval/trial"
)

// Class says how a recorded trial ended.
type Class uint32

const (
	ClassCrash   Class = iota + 1 // worker killed by a signal
	ClassTimeout                  // trial exceeded the per-call deadline
)

func (c Class) String() string {
	switch c {
	case ClassCrash:
		return "crash"
	case ClassTimeout:
		return "timeout"
	}
	return fmt.Sprintf("class %v", uint32(c))
}

const (
	numBuckets = 1 << 13
	poolCap    = 1 << 15
)

type record struct {
	nr    uint64
	args  [6]uint64
	class uint32
	next  uint32 // record index + 1, 0 terminates the chain
}

type tableMem struct {
	count   uint32
	dropped uint32
	buckets [numBuckets]uint32 // record index + 1, 0 means empty
	pool    [poolCap]record
}

// MemSize is the number of bytes of shared memory one table occupies.
const MemSize = int(unsafe.Sizeof(tableMem{}))

// Table is a view over a shared memory region. Multiple Table values in
// different processes may overlay the same region.
type Table struct {
	mem *tableMem
}

// Attach overlays a table on the given memory. The memory must be at least
// MemSize bytes; a zeroed region is a valid empty table.
func Attach(mem []byte) (*Table, error) {
	if len(mem) < MemSize {
		return nil, fmt.Errorf("dedup table needs %v bytes of shared memory, got %v", MemSize, len(mem))
	}
	return &Table{mem: (*tableMem)(unsafe.Pointer(&mem[0]))}, nil
}

func bucketOf(key trial.Key) uint32 {
	sig := hash.Hash(key.Bytes())
	return uint32(uint64(sig.Truncate64()) & (numBuckets - 1))
}

// Lookup reports whether the key was recorded, and with what class.
func (t *Table) Lookup(key trial.Key) (Class, bool) {
	for ref := t.mem.buckets[bucketOf(key)]; ref != 0; {
		rec := &t.mem.pool[ref-1]
		if rec.nr == key.NR && rec.args == key.Args {
			return Class(rec.class), true
		}
		ref = rec.next
	}
	return 0, false
}

// Insert records the key with the given class. It returns false if the key
// was already present or if the record pool is exhausted; exhaustion is
// counted and the key is silently dropped, the engine keeps running without
// dedup for the overflow.
func (t *Table) Insert(key trial.Key, class Class) bool {
	if _, ok := t.Lookup(key); ok {
		return false
	}
	idx := atomic.LoadUint32(&t.mem.count)
	if idx >= poolCap {
		atomic.AddUint32(&t.mem.dropped, 1)
		return false
	}
	rec := &t.mem.pool[idx]
	rec.nr = key.NR
	rec.args = key.Args
	rec.class = uint32(class)
	b := bucketOf(key)
	rec.next = t.mem.buckets[b]
	t.mem.buckets[b] = idx + 1
	atomic.AddUint32(&t.mem.count, 1)
	return true
}

// Len returns the number of recorded keys.
func (t *Table) Len() int {
	return int(atomic.LoadUint32(&t.mem.count))
}

// Dropped returns the number of keys dropped due to pool exhaustion.
func (t *Table) Dropped() int {
	return int(atomic.LoadUint32(&t.mem.dropped))
}

// Records returns all recorded keys of the given class, in insertion order.
func (t *Table) Records(class Class) []trial.Key {
	var keys []trial.Key
	count := atomic.LoadUint32(&t.mem.count)
	for i := uint32(0); i < count; i++ {
		rec := &t.mem.pool[i]
		if Class(rec.class) != class {
			continue
		}
		keys = append(keys, trial.Key{NR: rec.nr, Args: rec.args})
	}
	return keys
}
