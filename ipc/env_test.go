// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd || linux || darwin

package ipc

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, region *Region, args ...string) *Env {
	return NewEnv(EnvConfig{
		Bin:        "/bin/sh",
		Args:       append([]string{"-c"}, args...),
		Region:     region,
		NoProgress: 400 * time.Millisecond,
	})
}

func TestEnvClean(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	res := testEnv(t, region, "exit 0").Run(make(chan struct{}))
	assert.Equal(t, ExitClean, res.Status)
}

func TestEnvCrash(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	res := testEnv(t, region, "kill -11 $$").Run(make(chan struct{}))
	assert.Equal(t, ExitCrash, res.Status)
	assert.Equal(t, syscall.SIGSEGV, res.Signal)
}

func TestEnvFailure(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	res := testEnv(t, region, "exit 3").Run(make(chan struct{}))
	assert.Equal(t, ExitFailure, res.Status)
	assert.Error(t, res.Err)
}

func TestEnvHang(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	start := time.Now()
	res := testEnv(t, region, "sleep 30").Run(make(chan struct{}))
	assert.Equal(t, ExitHung, res.Status)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestEnvStop(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	stop := make(chan struct{})
	done := make(chan Result)
	go func() {
		done <- testEnv(t, region, "sleep 30").Run(stop)
	}()
	time.Sleep(100 * time.Millisecond)
	close(stop)
	select {
	case res := <-done:
		assert.Equal(t, ExitClean, res.Status)
	case <-time.After(10 * time.Second):
		t.Fatal("worker was not killed on stop")
	}
}

func TestEnvBadBinary(t *testing.T) {
	region, err := CreateRegion()
	require.NoError(t, err)
	defer region.Close()
	env := NewEnv(EnvConfig{
		Bin:    "/nonexistent/binary",
		Region: region,
	})
	res := env.Run(make(chan struct{}))
	assert.Equal(t, ExitFailure, res.Status)
	assert.Error(t, res.Err)
}
