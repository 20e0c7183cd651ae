// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sys

import (
	"github.com/kstress/sysinval/trial"
)

type caseRow struct {
	call    string
	variant string
	nargs   int
	kinds   [6]trial.Kind
	attrs   trial.Attr
}

// Short aliases to keep the table readable.
const (
	fd       = trial.KindFD
	dirfd    = trial.KindDirFD
	ptr      = trial.KindPtr
	wptr     = trial.KindPtrWr
	path     = trial.KindFilename
	length   = trial.KindLen
	mode     = trial.KindMode
	flags    = trial.KindFlags
	sock     = trial.KindSockFD
	saddr    = trial.KindSockAddr
	slen     = trial.KindSockLen
	clk      = trial.KindClockID
	pid      = trial.KindPID
	uid      = trial.KindUID
	gid      = trial.KindGID
	signum   = trial.KindSignum
	offset   = trial.KindOffset
	prot     = trial.KindProt
	num      = trial.KindInt
	mptr     = trial.KindMapPtr
	mlen     = trial.KindMapLen
	random   = trial.KindRandom
	needRoot = trial.AttrNeedsRoot
	cwdMut   = trial.AttrMutatesCwd
)

// The argument kind rows are platform-independent; whether a row is usable
// on the current platform is decided by the number tables alone.
// Deliberately excluded as too self-destructive for a long-lived worker
// process: unlink/unlinkat (would remove the scratch file), close_range
// (closes whole fd ranges, the shared region's fd included, which no
// re-open can bring back), chroot, setuid/setgid, ptrace, umask.
var caseRows = []caseRow{
	{call: "read", nargs: 3, kinds: [6]trial.Kind{fd, wptr, length}},
	{call: "read", variant: "rand", nargs: 3, kinds: [6]trial.Kind{fd, random, random}},
	{call: "write", nargs: 3, kinds: [6]trial.Kind{fd, ptr, length}},
	{call: "write", variant: "path", nargs: 3, kinds: [6]trial.Kind{fd, path, length}},
	{call: "open", nargs: 3, kinds: [6]trial.Kind{path, flags, mode}},
	{call: "close", nargs: 1, kinds: [6]trial.Kind{fd}},
	{call: "stat", nargs: 2, kinds: [6]trial.Kind{path, wptr}},
	{call: "stat", variant: "ptr", nargs: 2, kinds: [6]trial.Kind{ptr, wptr}},
	{call: "fstat", nargs: 2, kinds: [6]trial.Kind{fd, wptr}},
	{call: "lstat", nargs: 2, kinds: [6]trial.Kind{path, wptr}},
	{call: "poll", nargs: 3, kinds: [6]trial.Kind{ptr, length, num}},
	{call: "lseek", nargs: 3, kinds: [6]trial.Kind{fd, offset, trial.MiscWhence}},
	{call: "mmap", nargs: 6, kinds: [6]trial.Kind{ptr, length, prot, flags, fd, offset}},
	// munmap and mprotect get the sacrificial mapping rather than the guard
	// pages: munmap(PageWr, 1) would succeed and every later trial pointing
	// a writable slot at the page would then kill the worker outside a trial.
	{call: "mprotect", nargs: 3, kinds: [6]trial.Kind{mptr, mlen, prot}},
	{call: "munmap", nargs: 2, kinds: [6]trial.Kind{mptr, mlen}},
	{call: "brk", nargs: 1, kinds: [6]trial.Kind{ptr}},
	{call: "ioctl", nargs: 3, kinds: [6]trial.Kind{fd, trial.MiscIoctlReq, ptr}},
	{call: "ioctl", variant: "rand", nargs: 3, kinds: [6]trial.Kind{fd, random, random}},
	{call: "pread64", nargs: 4, kinds: [6]trial.Kind{fd, wptr, length, offset}},
	{call: "pwrite64", nargs: 4, kinds: [6]trial.Kind{fd, ptr, length, offset}},
	{call: "readv", nargs: 3, kinds: [6]trial.Kind{fd, ptr, length}},
	{call: "writev", nargs: 3, kinds: [6]trial.Kind{fd, ptr, length}},
	{call: "access", nargs: 2, kinds: [6]trial.Kind{path, mode}},
	{call: "pipe", nargs: 1, kinds: [6]trial.Kind{wptr}},
	{call: "mincore", nargs: 3, kinds: [6]trial.Kind{ptr, length, wptr}},
	{call: "madvise", nargs: 3, kinds: [6]trial.Kind{ptr, length, trial.MiscMadvise}},
	{call: "dup", nargs: 1, kinds: [6]trial.Kind{fd}},
	{call: "dup2", nargs: 2, kinds: [6]trial.Kind{fd, fd}},
	{call: "nanosleep", nargs: 2, kinds: [6]trial.Kind{ptr, wptr}},
	{call: "getpid", nargs: 0},
	{call: "socket", nargs: 3, kinds: [6]trial.Kind{trial.MiscSockDomain, trial.MiscSockType, num}},
	{call: "connect", nargs: 3, kinds: [6]trial.Kind{sock, saddr, slen}},
	{call: "accept", nargs: 3, kinds: [6]trial.Kind{sock, saddr, wptr}},
	{call: "sendto", nargs: 6, kinds: [6]trial.Kind{sock, ptr, length, flags, saddr, slen}},
	{call: "recvfrom", nargs: 6, kinds: [6]trial.Kind{sock, wptr, length, flags, saddr, wptr}},
	{call: "shutdown", nargs: 2, kinds: [6]trial.Kind{sock, num}},
	{call: "bind", nargs: 3, kinds: [6]trial.Kind{sock, saddr, slen}},
	{call: "listen", nargs: 2, kinds: [6]trial.Kind{sock, num}},
	{call: "getsockname", nargs: 3, kinds: [6]trial.Kind{sock, wptr, wptr}},
	{call: "getpeername", nargs: 3, kinds: [6]trial.Kind{sock, wptr, wptr}},
	{call: "socketpair", nargs: 4, kinds: [6]trial.Kind{trial.MiscSockDomain, trial.MiscSockType, num, wptr}},
	{call: "setsockopt", nargs: 5, kinds: [6]trial.Kind{sock, num, num, ptr, slen}},
	{call: "getsockopt", nargs: 5, kinds: [6]trial.Kind{sock, num, num, wptr, wptr}},
	{call: "wait4", nargs: 4, kinds: [6]trial.Kind{pid, wptr, flags, wptr}},
	{call: "kill", nargs: 2, kinds: [6]trial.Kind{pid, signum}},
	{call: "uname", nargs: 1, kinds: [6]trial.Kind{wptr}},
	{call: "fcntl", nargs: 3, kinds: [6]trial.Kind{fd, num, random}},
	{call: "flock", nargs: 2, kinds: [6]trial.Kind{fd, num}},
	{call: "fsync", nargs: 1, kinds: [6]trial.Kind{fd}},
	{call: "truncate", nargs: 2, kinds: [6]trial.Kind{path, offset}},
	{call: "ftruncate", nargs: 2, kinds: [6]trial.Kind{fd, offset}},
	{call: "getdents64", nargs: 3, kinds: [6]trial.Kind{fd, wptr, length}},
	{call: "getcwd", nargs: 2, kinds: [6]trial.Kind{wptr, length}},
	{call: "chdir", nargs: 1, kinds: [6]trial.Kind{path}},
	{call: "rename", nargs: 2, kinds: [6]trial.Kind{path, path}},
	{call: "mkdir", nargs: 2, kinds: [6]trial.Kind{path, mode}},
	{call: "rmdir", nargs: 1, kinds: [6]trial.Kind{path}},
	{call: "creat", nargs: 2, kinds: [6]trial.Kind{path, mode}},
	{call: "link", nargs: 2, kinds: [6]trial.Kind{path, path}},
	{call: "readlink", nargs: 3, kinds: [6]trial.Kind{path, wptr, length}},
	{call: "chmod", nargs: 2, kinds: [6]trial.Kind{path, mode}, attrs: cwdMut},
	{call: "fchmod", nargs: 2, kinds: [6]trial.Kind{fd, mode}, attrs: cwdMut},
	{call: "chown", nargs: 3, kinds: [6]trial.Kind{path, uid, gid}, attrs: cwdMut},
	{call: "fchown", nargs: 3, kinds: [6]trial.Kind{fd, uid, gid}, attrs: cwdMut},
	{call: "lchown", nargs: 3, kinds: [6]trial.Kind{path, uid, gid}, attrs: cwdMut},
	{call: "gettimeofday", nargs: 2, kinds: [6]trial.Kind{wptr, wptr}},
	{call: "getrlimit", nargs: 2, kinds: [6]trial.Kind{num, wptr}},
	{call: "setrlimit", nargs: 2, kinds: [6]trial.Kind{num, ptr}},
	{call: "getrusage", nargs: 2, kinds: [6]trial.Kind{num, wptr}},
	{call: "sysinfo", nargs: 1, kinds: [6]trial.Kind{wptr}},
	{call: "times", nargs: 1, kinds: [6]trial.Kind{wptr}},
	{call: "getgroups", nargs: 2, kinds: [6]trial.Kind{length, wptr}},
	{call: "capget", nargs: 2, kinds: [6]trial.Kind{wptr, wptr}},
	{call: "capset", nargs: 2, kinds: [6]trial.Kind{ptr, ptr}, attrs: needRoot},
	{call: "sigaltstack", nargs: 2, kinds: [6]trial.Kind{ptr, wptr}},
	{call: "statfs", nargs: 2, kinds: [6]trial.Kind{path, wptr}},
	{call: "fstatfs", nargs: 2, kinds: [6]trial.Kind{fd, wptr}},
	{call: "sched_setparam", nargs: 2, kinds: [6]trial.Kind{pid, ptr}},
	{call: "sched_getparam", nargs: 2, kinds: [6]trial.Kind{pid, wptr}},
	{call: "sched_setscheduler", nargs: 3, kinds: [6]trial.Kind{pid, trial.MiscSchedPolicy, ptr}},
	{call: "sched_getscheduler", nargs: 1, kinds: [6]trial.Kind{pid}},
	{call: "sched_setaffinity", nargs: 3, kinds: [6]trial.Kind{pid, length, ptr}},
	{call: "sched_getaffinity", nargs: 3, kinds: [6]trial.Kind{pid, length, wptr}},
	{call: "prctl", nargs: 5, kinds: [6]trial.Kind{trial.MiscPrctlOp, random, random, random, random}},
	{call: "mount", nargs: 5, kinds: [6]trial.Kind{path, path, ptr, flags, ptr}, attrs: needRoot},
	{call: "umount2", nargs: 2, kinds: [6]trial.Kind{path, flags}, attrs: needRoot},
	{call: "futex", nargs: 6, kinds: [6]trial.Kind{wptr, trial.MiscFutexOp, num, ptr, ptr, random}},
	{call: "epoll_create1", nargs: 1, kinds: [6]trial.Kind{flags}},
	{call: "epoll_ctl", nargs: 4, kinds: [6]trial.Kind{fd, num, fd, ptr}},
	{call: "epoll_wait", nargs: 4, kinds: [6]trial.Kind{fd, wptr, length, num}},
	{call: "openat", nargs: 4, kinds: [6]trial.Kind{dirfd, path, flags, mode}},
	{call: "openat", variant: "rand", nargs: 4, kinds: [6]trial.Kind{dirfd, random, random, random}},
	{call: "mkdirat", nargs: 3, kinds: [6]trial.Kind{dirfd, path, mode}},
	{call: "fchownat", nargs: 5, kinds: [6]trial.Kind{dirfd, path, uid, gid, flags}, attrs: cwdMut},
	{call: "fchmodat", nargs: 3, kinds: [6]trial.Kind{dirfd, path, mode}, attrs: cwdMut},
	{call: "newfstatat", nargs: 4, kinds: [6]trial.Kind{dirfd, path, wptr, flags}},
	{call: "readlinkat", nargs: 4, kinds: [6]trial.Kind{dirfd, path, wptr, length}},
	{call: "faccessat", nargs: 3, kinds: [6]trial.Kind{dirfd, path, mode}},
	{call: "clock_gettime", nargs: 2, kinds: [6]trial.Kind{clk, wptr}},
	{call: "clock_getres", nargs: 2, kinds: [6]trial.Kind{clk, wptr}},
	{call: "clock_settime", nargs: 2, kinds: [6]trial.Kind{clk, ptr}, attrs: needRoot},
	{call: "clock_nanosleep", nargs: 4, kinds: [6]trial.Kind{clk, flags, ptr, wptr}},
	{call: "timer_create", nargs: 3, kinds: [6]trial.Kind{clk, ptr, wptr}},
	{call: "timerfd_create", nargs: 2, kinds: [6]trial.Kind{clk, flags}},
	{call: "eventfd2", nargs: 2, kinds: [6]trial.Kind{num, flags}},
	{call: "memfd_create", nargs: 2, kinds: [6]trial.Kind{path, flags}},
	{call: "getrandom", nargs: 3, kinds: [6]trial.Kind{wptr, length, flags}},
	{call: "statx", nargs: 5, kinds: [6]trial.Kind{dirfd, path, flags, num, wptr}},
	{call: "prlimit64", nargs: 4, kinds: [6]trial.Kind{pid, num, ptr, wptr}},
	{call: "seccomp", nargs: 3, kinds: [6]trial.Kind{trial.MiscSeccompOp, flags, ptr}},
	{call: "bpf", nargs: 3, kinds: [6]trial.Kind{trial.MiscBPFCmd, ptr, length}},
	{call: "io_uring_setup", nargs: 2, kinds: [6]trial.Kind{length, wptr}},
	{call: "io_uring_enter", nargs: 6, kinds: [6]trial.Kind{fd, length, length, flags, ptr, length}},
	{call: "io_uring_register", nargs: 4, kinds: [6]trial.Kind{fd, num, ptr, length}},
	{call: "copy_file_range", nargs: 6, kinds: [6]trial.Kind{fd, wptr, fd, wptr, length, flags}},
	{call: "splice", nargs: 6, kinds: [6]trial.Kind{fd, wptr, fd, wptr, length, flags}},
	{call: "membarrier", nargs: 2, kinds: [6]trial.Kind{num, flags}},
	{call: "pidfd_open", nargs: 2, kinds: [6]trial.Kind{pid, flags}},
	{call: "openat2", nargs: 4, kinds: [6]trial.Kind{dirfd, path, ptr, length}},
	{call: "faccessat2", nargs: 4, kinds: [6]trial.Kind{dirfd, path, mode, flags}},
	{call: "landlock_create_ruleset", nargs: 3, kinds: [6]trial.Kind{ptr, length, flags}},
	{call: "setns", nargs: 2, kinds: [6]trial.Kind{fd, flags}},
	{call: "mlock2", nargs: 3, kinds: [6]trial.Kind{ptr, length, flags}},
	{call: "inotify_init1", nargs: 1, kinds: [6]trial.Kind{flags}},
	{call: "sendmmsg", nargs: 4, kinds: [6]trial.Kind{sock, ptr, length, flags}},
	{call: "accept4", nargs: 4, kinds: [6]trial.Kind{sock, saddr, wptr, flags}},
	{call: "fallocate", nargs: 4, kinds: [6]trial.Kind{fd, flags, offset, offset}},
}
