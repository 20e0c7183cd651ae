// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux && amd64

package sys

var syscallNumbers = map[string]uint64{
	"read":                    0,
	"write":                   1,
	"open":                    2,
	"close":                   3,
	"stat":                    4,
	"fstat":                   5,
	"lstat":                   6,
	"poll":                    7,
	"lseek":                   8,
	"mmap":                    9,
	"mprotect":                10,
	"munmap":                  11,
	"brk":                     12,
	"ioctl":                   16,
	"pread64":                 17,
	"pwrite64":                18,
	"readv":                   19,
	"writev":                  20,
	"access":                  21,
	"pipe":                    22,
	"mincore":                 27,
	"madvise":                 28,
	"dup":                     32,
	"dup2":                    33,
	"nanosleep":               35,
	"getpid":                  39,
	"socket":                  41,
	"connect":                 42,
	"accept":                  43,
	"sendto":                  44,
	"recvfrom":                45,
	"shutdown":                48,
	"bind":                    49,
	"listen":                  50,
	"getsockname":             51,
	"getpeername":             52,
	"socketpair":              53,
	"setsockopt":              54,
	"getsockopt":              55,
	"wait4":                   61,
	"kill":                    62,
	"uname":                   63,
	"fcntl":                   72,
	"flock":                   73,
	"fsync":                   74,
	"truncate":                76,
	"ftruncate":               77,
	"getcwd":                  79,
	"chdir":                   80,
	"rename":                  82,
	"mkdir":                   83,
	"rmdir":                   84,
	"creat":                   85,
	"link":                    86,
	"readlink":                89,
	"chmod":                   90,
	"fchmod":                  91,
	"chown":                   92,
	"fchown":                  93,
	"lchown":                  94,
	"gettimeofday":            96,
	"getrlimit":               97,
	"getrusage":               98,
	"sysinfo":                 99,
	"times":                   100,
	"getgroups":               115,
	"capget":                  125,
	"capset":                  126,
	"sigaltstack":             131,
	"statfs":                  137,
	"fstatfs":                 138,
	"sched_setparam":          142,
	"sched_getparam":          143,
	"sched_setscheduler":      144,
	"sched_getscheduler":      145,
	"prctl":                   157,
	"setrlimit":               160,
	"mount":                   165,
	"umount2":                 166,
	"futex":                   202,
	"sched_setaffinity":       203,
	"sched_getaffinity":       204,
	"getdents64":              217,
	"timer_create":            222,
	"clock_settime":           227,
	"clock_gettime":           228,
	"clock_getres":            229,
	"clock_nanosleep":         230,
	"epoll_wait":              232,
	"epoll_ctl":               233,
	"openat":                  257,
	"mkdirat":                 258,
	"fchownat":                260,
	"newfstatat":              262,
	"readlinkat":              267,
	"fchmodat":                268,
	"faccessat":               269,
	"splice":                  275,
	"timerfd_create":          283,
	"fallocate":               285,
	"accept4":                 288,
	"eventfd2":                290,
	"epoll_create1":           291,
	"inotify_init1":           294,
	"prlimit64":               302,
	"sendmmsg":                307,
	"setns":                   308,
	"seccomp":                 317,
	"getrandom":               318,
	"memfd_create":            319,
	"bpf":                     321,
	"membarrier":              324,
	"mlock2":                  325,
	"copy_file_range":         326,
	"statx":                   332,
	"io_uring_setup":          425,
	"io_uring_enter":          426,
	"io_uring_register":       427,
	"pidfd_open":              434,
	"openat2":                 437,
	"faccessat2":              439,
	"landlock_create_ruleset": 444,
}
