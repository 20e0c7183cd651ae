// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package ipc provides the shared memory region and the worker process
// management used to isolate syscall trials from the supervisor.
//
// The supervisor creates the region, passes its fd to every worker child it
// spawns, and reads counters/outcomes back out of it regardless of how the
// child died. The region consists of a small header (run counters, the
// in-flight trial slot, per-case bookkeeping) followed by the dedup table.
package ipc

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/kstress/sysinval/dedup"
	"github.com/kstress/sysinval/pkg/osutil"
	"github.com/kstress/sysinval/trial"
)

// MaxCases bounds the number of enabled syscall cases; the per-case arrays
// in the shared header are sized statically so that zeroed memory is valid.
const MaxCases = 512

const regionMagic = uint64(0x73797376616c3031) // "sysval01"

// Counter indexes one shared run counter.
type Counter int

const (
	StatAttempted   Counter = iota // trials actually invoked
	StatCrashes                   // trials that killed a worker
	StatTimeouts                  // trials that exceeded the per-call deadline
	StatFails                     // trials that returned an error (the expected outcome)
	StatSucceeds                  // trials that returned success despite invalid args
	StatSkipCrash                 // trials skipped: tuple crashed before
	StatSkipSucceed               // trials skipped: tuple succeeded before
	StatSkipTimeout               // trials skipped: tuple timed out before
	numCounters
)

type inflightSlot struct {
	pending uint32
	caseIdx uint32
	nr      uint64
	args    [6]uint64
}

type regionMem struct {
	magic         uint64
	counters      [numCounters]uint64
	inflight      inflightSlot
	caseCrashes   [MaxCases]uint32
	caseExercised [MaxCases]uint32
}

const headerSize = int(unsafe.Sizeof(regionMem{}))

// RegionSize is the total size of the shared mapping.
const RegionSize = headerSize + dedup.MemSize

// Region is one process view of the shared mapping. The supervisor and every
// worker child each hold their own Region over the same file.
type Region struct {
	f     *os.File
	mem   []byte
	hdr   *regionMem
	Table *dedup.Table
	owner bool
}

// CreateRegion creates a fresh shared region. Supervisor side.
func CreateRegion() (*Region, error) {
	f, mem, err := osutil.CreateMemMappedFile(RegionSize)
	if err != nil {
		return nil, err
	}
	r, err := overlay(f, mem, true)
	if err != nil {
		osutil.CloseMemMappedFile(f, mem)
		return nil, err
	}
	r.hdr.magic = regionMagic
	return r, nil
}

// AttachRegion maps an existing region from an inherited fd. Worker side.
func AttachRegion(f *os.File) (*Region, error) {
	mem, err := osutil.MapFile(f, RegionSize)
	if err != nil {
		return nil, err
	}
	r, err := overlay(f, mem, false)
	if err != nil {
		return nil, err
	}
	if r.hdr.magic != regionMagic {
		return nil, fmt.Errorf("shared region has bad magic %#x", r.hdr.magic)
	}
	return r, nil
}

func overlay(f *os.File, mem []byte, owner bool) (*Region, error) {
	if len(mem) < RegionSize {
		return nil, fmt.Errorf("shared region too small: %v < %v", len(mem), RegionSize)
	}
	table, err := dedup.Attach(mem[headerSize:])
	if err != nil {
		return nil, err
	}
	return &Region{
		f:     f,
		mem:   mem,
		hdr:   (*regionMem)(unsafe.Pointer(&mem[0])),
		Table: table,
		owner: owner,
	}, nil
}

// File returns the backing file, for passing to children via ExtraFiles.
func (r *Region) File() *os.File {
	return r.f
}

func (r *Region) Close() error {
	return osutil.CloseMemMappedFile(r.f, r.mem)
}

// Inc bumps a shared run counter.
func (r *Region) Inc(c Counter) {
	atomic.AddUint64(&r.hdr.counters[c], 1)
}

// Stat reads a shared run counter.
func (r *Region) Stat(c Counter) uint64 {
	return atomic.LoadUint64(&r.hdr.counters[c])
}

// Progress returns a value that grows whenever the worker does anything
// (invokes or skips a trial). The supervisor watchdog uses it to detect a
// wedged worker.
func (r *Region) Progress() uint64 {
	var sum uint64
	for c := Counter(0); c < numCounters; c++ {
		sum += r.Stat(c)
	}
	return sum
}

// SetInflight publishes the trial the worker is about to invoke. If the
// worker dies, the supervisor reads the slot to attribute the crash.
// The order matters: the tuple must be fully written before pending is set.
func (r *Region) SetInflight(caseIdx int, key trial.Key) {
	r.hdr.inflight.caseIdx = uint32(caseIdx)
	r.hdr.inflight.nr = key.NR
	r.hdr.inflight.args = key.Args
	atomic.StoreUint32(&r.hdr.inflight.pending, 1)
}

// ClearInflight marks the in-flight trial as returned.
func (r *Region) ClearInflight() {
	atomic.StoreUint32(&r.hdr.inflight.pending, 0)
}

// Inflight returns the published in-flight trial, if any. Only meaningful
// on the supervisor side after the worker has been reaped.
func (r *Region) Inflight() (caseIdx int, key trial.Key, ok bool) {
	if atomic.LoadUint32(&r.hdr.inflight.pending) == 0 {
		return 0, trial.Key{}, false
	}
	return int(r.hdr.inflight.caseIdx), trial.Key{
		NR:   r.hdr.inflight.nr,
		Args: r.hdr.inflight.args,
	}, true
}

// AddCaseCrash bumps the crash count of the given case and returns the
// new value.
func (r *Region) AddCaseCrash(caseIdx int) int {
	return int(atomic.AddUint32(&r.hdr.caseCrashes[caseIdx], 1))
}

// CaseCrashes returns how many times the given case crashed a worker.
func (r *Region) CaseCrashes(caseIdx int) int {
	return int(atomic.LoadUint32(&r.hdr.caseCrashes[caseIdx]))
}

// MarkExercised records that at least one trial of the case was invoked.
func (r *Region) MarkExercised(caseIdx int) {
	atomic.StoreUint32(&r.hdr.caseExercised[caseIdx], 1)
}

// Exercised says if at least one trial of the case was invoked.
func (r *Region) Exercised(caseIdx int) bool {
	return atomic.LoadUint32(&r.hdr.caseExercised[caseIdx]) != 0
}
