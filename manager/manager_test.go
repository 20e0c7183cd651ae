// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package manager

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstress/sysinval/dedup"
	"github.com/kstress/sysinval/ipc"
	"github.com/kstress/sysinval/trial"
)

func newTestManager(t *testing.T) *Manager {
	region, err := ipc.CreateRegion()
	require.NoError(t, err)
	t.Cleanup(func() { region.Close() })
	return &Manager{
		cfg: DefaultConfig(),
		cases: []*trial.SyscallCase{
			{ID: 0, NR: 90, Name: "chmod", NArgs: 2},
			{ID: 1, NR: 202, Name: "futex", NArgs: 6},
		},
		region: region,
	}
}

func TestHandleCrash(t *testing.T) {
	m := newTestManager(t)
	key := trial.Key{NR: 90, Args: [6]uint64{1, 2}}
	m.region.SetInflight(0, key)
	m.handleCrash(ipc.Result{Status: ipc.ExitCrash, Signal: syscall.SIGSEGV})

	class, ok := m.region.Table.Lookup(key)
	assert.True(t, ok)
	assert.Equal(t, dedup.ClassCrash, class)
	assert.Equal(t, uint64(1), m.region.Stat(ipc.StatCrashes))
	assert.Equal(t, 1, m.region.CaseCrashes(0))
	_, _, ok = m.region.Inflight()
	assert.False(t, ok, "inflight slot was not cleared")
}

func TestHandleCrashOutsideTrial(t *testing.T) {
	m := newTestManager(t)
	m.handleCrash(ipc.Result{Status: ipc.ExitCrash, Signal: syscall.SIGBUS})
	assert.Zero(t, m.region.Stat(ipc.StatCrashes))
	assert.Zero(t, m.region.Table.Len())
}

func TestHandleHang(t *testing.T) {
	m := newTestManager(t)
	key := trial.Key{NR: 202, Args: [6]uint64{5, 4, 3, 2, 1, 0}}
	m.region.SetInflight(1, key)
	m.handleHang()

	class, ok := m.region.Table.Lookup(key)
	assert.True(t, ok)
	assert.Equal(t, dedup.ClassTimeout, class)
	assert.Equal(t, uint64(1), m.region.Stat(ipc.StatTimeouts))
	assert.Zero(t, m.region.CaseCrashes(1))
	_, _, ok = m.region.Inflight()
	assert.False(t, ok)
}

func TestHandleCrashBadCaseIndex(t *testing.T) {
	m := newTestManager(t)
	m.region.SetInflight(len(m.cases)+7, trial.Key{NR: 90})
	m.handleCrash(ipc.Result{Status: ipc.ExitCrash, Signal: syscall.SIGSEGV})
	assert.Zero(t, m.region.Stat(ipc.StatCrashes))
	assert.Zero(t, m.region.Table.Len())
}
