// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package trial

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/kstress/sysinval/pkg/osutil"
)

// MapResources maps the guard pages and creates the scratch file/dir used as
// argument values. dir must be an existing writable directory.
func MapResources(dir string) (*Resources, error) {
	res := &Resources{}
	pageSize := os.Getpagesize()

	// A fully inaccessible page.
	none, err := unix.Mmap(-1, 0, pageSize, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("failed to map guard page: %w", err)
	}
	res.mappings = append(res.mappings, none)
	res.PageNone = pageAddr(none)

	// Two pages, the second one inaccessible; PageEdge points just before
	// the boundary so that multi-byte accesses straddle into the bad page.
	edge, err := unix.Mmap(-1, 0, 2*pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to map edge page: %w", err)
	}
	res.mappings = append(res.mappings, edge)
	if err := unix.Mprotect(edge[pageSize:], unix.PROT_NONE); err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to protect edge page: %w", err)
	}
	res.PageEdge = pageAddr(edge) + uint64(pageSize) - 16

	// Scratch file and directory; any empty writable file/dir suffice.
	res.ScratchPath = filepath.Join(dir, "sysinval-file")
	if err := osutil.WriteFile(res.ScratchPath, nil); err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	res.DirPath = filepath.Join(dir, "sysinval-dir")
	if err := osutil.MkdirAll(res.DirPath); err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	fd, err := unix.Open(res.ScratchPath, unix.O_RDWR, 0)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to open scratch file: %w", err)
	}
	res.ScratchFD = uint64(fd)
	dirfd, err := unix.Open(res.DirPath, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to open scratch dir: %w", err)
	}
	res.DirFD = uint64(dirfd)

	// A read-only page holding a valid NUL-terminated path to the scratch file.
	ro, err := unix.Mmap(-1, 0, pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to map read-only page: %w", err)
	}
	res.mappings = append(res.mappings, ro)
	copy(ro, res.ScratchPath)
	ro[len(res.ScratchPath)] = 0
	dotOff := len(res.ScratchPath) + 1
	ro[dotOff] = '.'
	ro[dotOff+1] = 0
	if err := unix.Mprotect(ro, unix.PROT_READ); err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to protect read-only page: %w", err)
	}
	res.PageRO = pageAddr(ro)
	res.PagePath = res.PageRO
	res.PageDot = res.PageRO + uint64(dotOff)

	// A writable scratch page callees may write through.
	wr, err := unix.Mmap(-1, 0, pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to map scratch page: %w", err)
	}
	res.mappings = append(res.mappings, wr)
	res.wrMem = wr
	res.PageWr = pageAddr(wr)

	// A sacrificial mapping for cases that destroy the mapping they target.
	// KindMapLen values never reach past it, so a succeeding munmap cannot
	// take neighbouring mappings with it.
	sac, err := unix.Mmap(-1, 0, 2*pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		res.Release()
		return nil, fmt.Errorf("failed to map sacrificial page: %w", err)
	}
	res.mappings = append(res.mappings, sac)
	res.PageSac = pageAddr(sac)

	return res, nil
}

// ReviveFDs re-opens the scratch file/dir if a trial closed them, restoring
// the original descriptor numbers so the catalog values stay valid.
func (res *Resources) ReviveFDs() {
	reviveFD(int(res.ScratchFD), res.ScratchPath, unix.O_RDWR)
	reviveFD(int(res.DirFD), res.DirPath, unix.O_RDONLY|unix.O_DIRECTORY)
}

func reviveFD(fd int, path string, flags int) {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err == nil {
		return
	}
	newFD, err := unix.Open(path, flags, 0)
	if err != nil || newFD == fd {
		return
	}
	unix.Dup3(newFD, fd, 0)
	unix.Close(newFD)
}

func pageAddr(mem []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(&mem[0])))
}

func (res *Resources) release() {
	for _, mem := range res.mappings {
		unix.Munmap(mem)
	}
	res.mappings = nil
	if res.ScratchFD != 0 {
		unix.Close(int(res.ScratchFD))
		res.ScratchFD = 0
	}
	if res.DirFD != 0 {
		unix.Close(int(res.DirFD))
		res.DirFD = 0
	}
	if res.ScratchPath != "" {
		os.Remove(res.ScratchPath)
	}
	if res.DirPath != "" {
		os.Remove(res.DirPath)
	}
}
