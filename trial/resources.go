// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package trial

// Resources holds the runtime-dependent argument values the static catalog
// cannot contain: addresses of guard pages mapped at start of run and fds of
// the scratch file/directory. The catalog factory takes them as input, so no
// static table is ever patched in place.
type Resources struct {
	PageNone uint64 // fully inaccessible page
	PageEdge uint64 // pointer straddling an accessible->inaccessible boundary
	PageRO   uint64 // read-only page
	PageWr   uint64 // writable scratch page
	PagePath uint64 // read-only NUL-terminated path to the scratch file
	PageDot  uint64 // read-only NUL-terminated "." path
	PageSac  uint64 // sacrificial mapping that munmap/mprotect trials may destroy

	ScratchFD uint64 // open fd of an empty scratch file
	DirFD     uint64 // open fd of a scratch directory

	ScratchPath string
	DirPath     string

	wrMem    []byte
	mappings [][]byte
}

// ZeroScratch clears the writable scratch page. Called before any trial whose
// tuple points a writable-pointer argument at the page, so that stale bytes
// from a previous callee write cannot confuse later forensic inspection.
func (res *Resources) ZeroScratch() {
	for i := range res.wrMem {
		res.wrMem[i] = 0
	}
}

// Release unmaps the guard pages and removes the scratch file/dir.
func (res *Resources) Release() {
	res.release()
}
