// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux && arm64

package sys

// Legacy path syscalls (open, stat, chmod, ...) and epoll_wait do not exist
// on arm64; their rows are dropped by the name join in AllCases.
var syscallNumbers = map[string]uint64{
	"getcwd":                  17,
	"eventfd2":                19,
	"epoll_create1":           20,
	"epoll_ctl":               21,
	"dup":                     23,
	"fcntl":                   25,
	"inotify_init1":           26,
	"ioctl":                   29,
	"flock":                   32,
	"mkdirat":                 34,
	"umount2":                 39,
	"mount":                   40,
	"statfs":                  43,
	"fstatfs":                 44,
	"truncate":                45,
	"ftruncate":               46,
	"fallocate":               47,
	"faccessat":               48,
	"chdir":                   49,
	"fchmod":                  52,
	"fchmodat":                53,
	"fchownat":                54,
	"fchown":                  55,
	"openat":                  56,
	"close":                   57,
	"getdents64":              61,
	"lseek":                   62,
	"read":                    63,
	"write":                   64,
	"readv":                   65,
	"writev":                  66,
	"pread64":                 67,
	"pwrite64":                68,
	"splice":                  76,
	"readlinkat":              78,
	"newfstatat":              79,
	"fstat":                   80,
	"fsync":                   82,
	"timerfd_create":          85,
	"capget":                  90,
	"capset":                  91,
	"futex":                   98,
	"nanosleep":               101,
	"timer_create":            107,
	"clock_settime":           112,
	"clock_gettime":           113,
	"clock_getres":            114,
	"clock_nanosleep":         115,
	"sched_setparam":          118,
	"sched_setscheduler":      119,
	"sched_getscheduler":      120,
	"sched_getparam":          121,
	"sched_setaffinity":       122,
	"sched_getaffinity":       123,
	"kill":                    129,
	"sigaltstack":             132,
	"times":                   153,
	"getgroups":               158,
	"uname":                   160,
	"getrlimit":               163,
	"setrlimit":               164,
	"getrusage":               165,
	"prctl":                   167,
	"gettimeofday":            169,
	"getpid":                  172,
	"sysinfo":                 179,
	"socket":                  198,
	"socketpair":              199,
	"bind":                    200,
	"listen":                  201,
	"accept":                  202,
	"connect":                 203,
	"getsockname":             204,
	"getpeername":             205,
	"sendto":                  206,
	"recvfrom":                207,
	"setsockopt":              208,
	"getsockopt":              209,
	"shutdown":                210,
	"brk":                     214,
	"munmap":                  215,
	"mmap":                    222,
	"mprotect":                226,
	"mincore":                 232,
	"madvise":                 233,
	"accept4":                 242,
	"wait4":                   260,
	"prlimit64":               261,
	"setns":                   268,
	"sendmmsg":                269,
	"seccomp":                 277,
	"getrandom":               278,
	"memfd_create":            279,
	"bpf":                     280,
	"membarrier":              283,
	"mlock2":                  284,
	"copy_file_range":         285,
	"statx":                   291,
	"io_uring_setup":          425,
	"io_uring_enter":          426,
	"io_uring_register":       427,
	"pidfd_open":              434,
	"openat2":                 437,
	"faccessat2":              439,
	"landlock_create_ruleset": 444,
}
