// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// sysinval-stress exercises syscalls with permutations of boundary/invalid
// argument values, isolating each trial in a disposable worker process.
//
// The same binary serves as the supervisor (default) and as the worker
// (-worker, spawned by the supervisor with the shared region as fd 3).
package main

import (
	"flag"

	"github.com/kstress/sysinval/manager"
	"github.com/kstress/sysinval/pkg/log"
	"github.com/kstress/sysinval/pkg/tool"
)

var (
	flagConfig   = flag.String("config", "", "configuration file")
	flagWorker   = flag.Bool("worker", false, "run in worker mode (used by the supervisor)")
	flagDebug    = flag.Bool("debug", false, "pass worker output through to console")
	flagWorkdir  = flag.String("workdir", "", "override workdir from config")
	flagDuration = flag.String("duration", "", "override run duration from config")
	flagOps      = flag.Uint64("ops", 0, "override total trial budget from config")
	flagHTTP     = flag.String("http", "", "override metrics address from config")
)

func main() {
	flag.Parse()
	if *flagWorker {
		if err := manager.RunWorker(*flagConfig); err != nil {
			tool.Fail(err)
		}
		return
	}
	log.EnableLogCaching(1000, 1<<20)
	cfg, err := manager.LoadConfig(*flagConfig)
	if err != nil {
		tool.Fail(err)
	}
	if *flagWorkdir != "" {
		cfg.Workdir = *flagWorkdir
	}
	if *flagDuration != "" {
		cfg.Duration = *flagDuration
	}
	if *flagOps != 0 {
		cfg.MaxOps = *flagOps
	}
	if *flagHTTP != "" {
		cfg.HTTP = *flagHTTP
	}
	if err := cfg.Validate(); err != nil {
		tool.Fail(err)
	}
	if err := manager.Run(cfg, *flagDebug); err != nil {
		tool.Fail(err)
	}
}
