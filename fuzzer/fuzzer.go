// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package fuzzer contains the trial engine that runs inside a worker
// process: it walks the cartesian product of catalog values over the
// argument slots of each enabled syscall case, invokes the syscall for
// every tuple not already known to crash/hang/succeed, and records the
// outcome in the shared region.
package fuzzer

import (
	"fmt"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/kstress/sysinval/dedup"
	"github.com/kstress/sysinval/ipc"
	"github.com/kstress/sysinval/pkg/log"
	"github.com/kstress/sysinval/trial"
)

// Invoke performs one raw syscall. Tests substitute a fake.
type Invoke func(nr uint64, args [6]uint64) (uintptr, syscall.Errno)

// How many fresh draws a random slot contributes per permutation visit.
const randomValues = 4

// Config configures a worker engine.
type Config struct {
	Cases     []*trial.SyscallCase
	Catalog   *trial.Catalog
	Resources *trial.Resources // nil in tests that never hit guard pages
	Region    *ipc.Region
	Invoke    Invoke // nil selects the real syscall invoker
	Rand      *rand.Rand

	Shuffle      bool          // randomize case order, chosen once per generation
	TrialTimeout time.Duration // per-call deadline
	CrashCeiling int           // stop exercising a case after this many crashes

	// MaxTrials stops the engine once the shared attempted counter reaches
	// this value; the counter is cumulative across worker respawns, so the
	// budget covers the whole run, not one worker. 0 = unlimited.
	MaxTrials uint64
}

// Proc is one worker engine. Not safe for concurrent use.
type Proc struct {
	cfg       Config
	caller    *caller
	succeeded map[trial.Key]bool
	stop      <-chan struct{}

	cwdMode os.FileMode
	cwdUID  int
	cwdGID  int
}

// New creates an engine. It snapshots the mode/owner of the current working
// directory so that chmod/chown trials that hit it can be undone.
func New(cfg Config) (*Proc, error) {
	if len(cfg.Cases) == 0 {
		return nil, fmt.Errorf("no syscall cases to run")
	}
	if cfg.Invoke == nil {
		cfg.Invoke = rawInvoke
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TrialTimeout == 0 {
		cfg.TrialTimeout = 100 * time.Millisecond
	}
	if cfg.CrashCeiling == 0 {
		cfg.CrashCeiling = 3
	}
	p := &Proc{
		cfg:       cfg,
		caller:    newCaller(cfg.Invoke),
		succeeded: make(map[trial.Key]bool),
	}
	info, err := os.Stat(".")
	if err != nil {
		return nil, fmt.Errorf("failed to stat cwd: %w", err)
	}
	p.cwdMode = info.Mode().Perm()
	st := info.Sys().(*syscall.Stat_t)
	p.cwdUID = int(st.Uid)
	p.cwdGID = int(st.Gid)
	return p, nil
}

// Run sweeps over the enabled cases until stop is closed or the trial budget
// is exhausted. A sweep visits every case not over its crash ceiling and
// permutes all argument tuples for it.
func (p *Proc) Run(stop <-chan struct{}) error {
	p.stop = stop
	order := make([]int, len(p.cfg.Cases))
	for i := range order {
		order[i] = i
	}
	// The order is chosen once per worker generation; a respawned worker
	// reshuffles independently.
	if p.cfg.Shuffle {
		p.cfg.Rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	for sweep := 0; !p.stopped(); sweep++ {
		log.Logf(2, "sweep %v over %v cases", sweep, len(order))
		for _, idx := range order {
			c := p.cfg.Cases[idx]
			if p.cfg.Region.CaseCrashes(c.ID) >= p.cfg.CrashCeiling {
				log.Logf(2, "case %v reached crash ceiling, skipping", c)
				continue
			}
			var args [6]uint64
			if !p.permute(c, 0, &args) {
				return nil
			}
		}
	}
	return nil
}

func (p *Proc) stopped() bool {
	if p.cfg.MaxTrials != 0 && p.cfg.Region.Stat(ipc.StatAttempted) >= p.cfg.MaxTrials {
		return true
	}
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// permute recursively fills argument slots left to right and executes the
// tuple once all slots of the case are bound. Returns false to unwind when
// the engine should stop.
func (p *Proc) permute(c *trial.SyscallCase, arg int, args *[6]uint64) bool {
	if p.stopped() {
		return false
	}
	if arg == c.NArgs {
		return p.exec(c, *args)
	}
	kind := c.Kinds[arg]
	if kind == trial.KindRandom {
		for i := 0; i < randomValues; i++ {
			args[arg] = p.cfg.Rand.Uint64()
			if !p.permute(c, arg+1, args) {
				return false
			}
		}
		return true
	}
	for _, v := range p.cfg.Catalog.Values(kind) {
		args[arg] = v
		if !p.permute(c, arg+1, args) {
			return false
		}
	}
	return true
}

// cacheable says if outcomes of the case's tuples may be deduplicated.
// Tuples with random slots are one-shot and never cached.
func cacheable(c *trial.SyscallCase) bool {
	for i := 0; i < c.NArgs; i++ {
		if c.Kinds[i] == trial.KindRandom {
			return false
		}
	}
	return true
}

func (p *Proc) exec(c *trial.SyscallCase, args [6]uint64) bool {
	key := trial.Key{NR: c.NR, Args: args}
	region := p.cfg.Region
	if cacheable(c) {
		if class, ok := region.Table.Lookup(key); ok {
			switch class {
			case dedup.ClassCrash:
				region.Inc(ipc.StatSkipCrash)
			case dedup.ClassTimeout:
				region.Inc(ipc.StatSkipTimeout)
			}
			return true
		}
		if p.succeeded[key] {
			region.Inc(ipc.StatSkipSucceed)
			return true
		}
	}
	if res := p.cfg.Resources; res != nil {
		for i := 0; i < c.NArgs; i++ {
			if args[i] == res.PageWr {
				res.ZeroScratch()
				break
			}
		}
	}
	region.SetInflight(c.ID, key)
	region.MarkExercised(c.ID)
	region.Inc(ipc.StatAttempted)
	_, errno, timedOut := p.call(key)
	region.ClearInflight()
	switch {
	case timedOut:
		region.Inc(ipc.StatTimeouts)
		if cacheable(c) {
			region.Table.Insert(key, dedup.ClassTimeout)
		}
		log.Logf(2, "trial %v timed out: %v", c.Name, key.Args)
	case errno != 0:
		// The expected outcome: the kernel rejected the arguments.
		// Not cached, the whole point is exercising this path again.
		region.Inc(ipc.StatFails)
	default:
		region.Inc(ipc.StatSucceeds)
		if cacheable(c) {
			p.succeeded[key] = true
		}
	}
	if c.Attrs&trial.AttrMutatesCwd != 0 {
		p.restoreCwd()
	}
	if res := p.cfg.Resources; res != nil {
		for i := 0; i < c.NArgs; i++ {
			// A trial handed a live fd may have closed it (close succeeds
			// on the scratch fd). Re-open so the catalog values stay valid.
			if args[i] == res.ScratchFD || args[i] == res.DirFD {
				res.ReviveFDs()
				break
			}
		}
	}
	return true
}

// restoreCwd undoes mode/owner changes a chmod/chown family trial may have
// applied to the working directory. Chown can legitimately fail without
// privilege; that only matters when the trial itself had enough privilege
// to change the owner in the first place.
func (p *Proc) restoreCwd() {
	if err := os.Chmod(".", p.cwdMode); err != nil {
		log.Logf(1, "failed to restore cwd mode: %v", err)
	}
	if err := os.Chown(".", p.cwdUID, p.cwdGID); err != nil {
		log.Logf(2, "failed to restore cwd owner: %v", err)
	}
}
