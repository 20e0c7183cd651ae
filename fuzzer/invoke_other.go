// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !linux

package fuzzer

import "syscall"

func rawInvoke(nr uint64, args [6]uint64) (uintptr, syscall.Errno) {
	return 0, syscall.ENOSYS
}
