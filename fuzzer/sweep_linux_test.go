// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/kstress/sysinval/ipc"
	"github.com/kstress/sysinval/trial"
)

// A full munmap sweep with the real invoker must leave the guard pages and
// the scratch page usable: the only mapping a trial may take down is the
// sacrificial one.
func TestMunmapSweepKeepsPages(t *testing.T) {
	res, err := trial.MapResources(t.TempDir())
	require.NoError(t, err)
	defer res.Release()
	region := newTestRegion(t)

	c := &trial.SyscallCase{
		NR:    uint64(unix.SYS_MUNMAP),
		Name:  "munmap",
		NArgs: 2,
		Kinds: [6]trial.Kind{trial.KindMapPtr, trial.KindMapLen},
	}
	cat := trial.NewCatalog(res)
	budget := uint64(len(cat.Values(trial.KindMapPtr)) * len(cat.Values(trial.KindMapLen)))
	run(t, Config{
		Cases:     []*trial.SyscallCase{c},
		Catalog:   cat,
		Resources: res,
		Region:    region,
		MaxTrials: budget,
	})

	// The sweep did tear a mapping down somewhere.
	assert.NotZero(t, region.Stat(ipc.StatSucceeds))
	// The scratch page is still writable and the path page still intact.
	res.ZeroScratch()
	got := unsafe.String((*byte)(unsafe.Pointer(uintptr(res.PagePath))), len(res.ScratchPath))
	assert.Equal(t, res.ScratchPath, got)
}

// A full sweep of close over the fd catalog closes the scratch fd once; the
// engine must re-open it so later trials still see a live descriptor.
func TestCloseSweepKeepsScratchFD(t *testing.T) {
	res, err := trial.MapResources(t.TempDir())
	require.NoError(t, err)
	defer res.Release()
	region := newTestRegion(t)

	c := &trial.SyscallCase{
		NR:    uint64(unix.SYS_CLOSE),
		Name:  "close",
		NArgs: 1,
		Kinds: [6]trial.Kind{trial.KindFD},
	}
	cat := trial.NewCatalog(res)
	run(t, Config{
		Cases:     []*trial.SyscallCase{c},
		Catalog:   cat,
		Resources: res,
		Region:    region,
		MaxTrials: uint64(len(cat.Values(trial.KindFD))),
	})

	// Exactly one tuple (the scratch fd) was accepted by the kernel.
	assert.Equal(t, uint64(1), region.Stat(ipc.StatSucceeds))
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(int(res.ScratchFD), &st))
	assert.Equal(t, uint32(unix.S_IFREG), uint32(st.Mode)&unix.S_IFMT)
}
