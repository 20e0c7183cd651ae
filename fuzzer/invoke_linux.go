// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

package fuzzer

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func rawInvoke(nr uint64, args [6]uint64) (uintptr, syscall.Errno) {
	r1, _, errno := unix.Syscall6(uintptr(nr),
		uintptr(args[0]), uintptr(args[1]), uintptr(args[2]),
		uintptr(args[3]), uintptr(args[4]), uintptr(args[5]))
	return r1, syscall.Errno(errno)
}
