// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package manager

import (
	"fmt"
	"os"

	"github.com/kstress/sysinval/fuzzer"
	"github.com/kstress/sysinval/ipc"
	"github.com/kstress/sysinval/pkg/log"
	"github.com/kstress/sysinval/pkg/osutil"
	"github.com/kstress/sysinval/sys"
	"github.com/kstress/sysinval/trial"
)

// RunWorker is the worker-mode entry point: attach the shared region
// inherited as fd 3, rebuild the same enabled case list the supervisor has,
// map the guard pages and run trials until the supervisor kills us or the
// shared trial budget is reached.
func RunWorker(cfgFile string) error {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	cases, err := sys.Enabled(cfg.EnableSyscalls, cfg.DisableSyscalls, osutil.IsPrivileged())
	if err != nil {
		return err
	}
	f := os.NewFile(3, "shm-region")
	if f == nil {
		return fmt.Errorf("shared region fd was not inherited")
	}
	region, err := ipc.AttachRegion(f)
	if err != nil {
		return err
	}
	defer region.Close()
	if err := os.Chdir(cfg.Workdir); err != nil {
		return fmt.Errorf("failed to chdir to workdir: %w", err)
	}
	res, err := trial.MapResources(".")
	if err != nil {
		return err
	}
	defer res.Release()
	proc, err := fuzzer.New(fuzzer.Config{
		Cases:        cases,
		Catalog:      trial.NewCatalog(res),
		Resources:    res,
		Region:       region,
		Shuffle:      cfg.Shuffle,
		TrialTimeout: cfg.TrialTimeout(),
		CrashCeiling: cfg.CrashCeiling,
		MaxTrials:    cfg.MaxOps,
	})
	if err != nil {
		return err
	}
	log.Logf(1, "worker pid %v running %v cases", os.Getpid(), len(cases))
	// Never closed: the supervisor kills the process instead.
	return proc.Run(make(chan struct{}))
}
