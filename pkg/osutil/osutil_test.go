// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	out, err := Run(time.Minute, Command("echo", "hello"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "hello")
}

func TestRunFailure(t *testing.T) {
	_, err := Run(time.Minute, Command("false"))
	require.Error(t, err)
	var verr *VerboseError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.ExitCode)
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := Run(100*time.Millisecond, Command("sleep", "30"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timedout")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sub", "file")
	assert.False(t, IsExist(file))
	require.NoError(t, MkdirAll(filepath.Dir(file)))
	require.NoError(t, WriteFile(file, []byte("data")))
	assert.True(t, IsExist(file))

	tmp, err := TempFile("sysinval-test")
	require.NoError(t, err)
	defer os.Remove(tmp)
	assert.True(t, IsExist(tmp))
}

func TestMemMappedFile(t *testing.T) {
	const size = 4 << 10
	f, mem, err := CreateMemMappedFile(size)
	require.NoError(t, err)
	require.Len(t, mem, size)
	mem[0] = 42

	// A second mapping of the same file shares the contents, the way a
	// worker child sees the region the supervisor created.
	mem2, err := MapFile(f, size)
	require.NoError(t, err)
	assert.Equal(t, byte(42), mem2[0])
	mem2[1] = 43
	assert.Equal(t, byte(43), mem[1])
	require.NoError(t, syscall.Munmap(mem2))
	require.NoError(t, CloseMemMappedFile(f, mem))
}
