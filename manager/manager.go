// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package manager implements the supervisor side of the stressor: it spawns
// worker processes, re-spawns them when trials crash or hang them, attributes
// each death to the in-flight trial recorded in shared memory, and reports
// run totals at the end.
package manager

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/kstress/sysinval/dedup"
	"github.com/kstress/sysinval/ipc"
	"github.com/kstress/sysinval/pkg/config"
	"github.com/kstress/sysinval/pkg/hash"
	"github.com/kstress/sysinval/pkg/log"
	"github.com/kstress/sysinval/pkg/osutil"
	"github.com/kstress/sysinval/pkg/stat"
	"github.com/kstress/sysinval/sys"
	"github.com/kstress/sysinval/trial"
)

// WorkerConfigName is the effective config file the supervisor saves into the
// workdir for its workers.
const WorkerConfigName = "sysinval.cfg"

// Give up when this many workers in a row fail without running any trial.
const maxWorkerFailures = 10

type Manager struct {
	cfg    *Config
	cases  []*trial.SyscallCase
	region *ipc.Region
	env    *ipc.Env

	statRestarts *stat.Val
	statLifetime *stat.Val
}

// Run executes a whole supervisor run: spawn workers until the time/trial
// budget is exhausted or a SIGINT arrives, then report.
func Run(cfg *Config, debug bool) error {
	cases, err := sys.Enabled(cfg.EnableSyscalls, cfg.DisableSyscalls, osutil.IsPrivileged())
	if err != nil {
		return err
	}
	if len(cases) > ipc.MaxCases {
		return fmt.Errorf("%v enabled cases exceed the limit of %v", len(cases), ipc.MaxCases)
	}
	if err := osutil.MkdirAll(cfg.Workdir); err != nil {
		return fmt.Errorf("failed to create workdir: %w", err)
	}
	cfgFile := filepath.Join(cfg.Workdir, WorkerConfigName)
	if err := config.SaveFile(cfgFile, cfg); err != nil {
		return fmt.Errorf("failed to save worker config: %w", err)
	}
	region, err := ipc.CreateRegion()
	if err != nil {
		return err
	}
	defer region.Close()
	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate own binary: %w", err)
	}
	m := &Manager{
		cfg:    cfg,
		cases:  cases,
		region: region,
		env: ipc.NewEnv(ipc.EnvConfig{
			Bin:        bin,
			Args:       []string{"-worker", "-config", cfgFile},
			Region:     region,
			NoProgress: cfg.NoProgress(),
			Debug:      debug,
		}),
	}
	m.registerStats()
	log.Logf(0, "running %v syscall cases (%v distinct syscalls), privileged=%v",
		len(cases), sys.UniqueOps(cases), osutil.IsPrivileged())

	shutdown := make(chan struct{})
	osutil.HandleInterrupts(shutdown)
	stopWorkers := make(chan struct{})
	var deadlineC <-chan time.Time
	if d, _ := cfg.RunDuration(); d > 0 {
		deadlineC = time.After(d)
		log.Logf(0, "run bounded to %v", d)
	}
	go func() {
		select {
		case <-shutdown:
		case <-deadlineC:
			log.Logf(0, "run duration reached, stopping")
		}
		close(stopWorkers)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var g errgroup.Group
	if cfg.HTTP != "" {
		m.serveMetrics(ctx, &g)
	}
	go m.heartbeat(ctx)

	err = m.loop(stopWorkers)
	m.report()
	if logText := log.CachedLogOutput(); logText != "" {
		osutil.WriteFile(filepath.Join(cfg.Workdir, "run.log"), []byte(logText))
	}
	cancel()
	if herr := g.Wait(); err == nil {
		err = herr
	}
	return err
}

func (m *Manager) loop(stopWorkers chan struct{}) error {
	failures := 0
	for {
		if stopRequested(stopWorkers) {
			return nil
		}
		if max := m.cfg.MaxOps; max != 0 && m.region.Stat(ipc.StatAttempted) >= max {
			log.Logf(0, "trial budget of %v reached, stopping", max)
			return nil
		}
		start := time.Now()
		progressBefore := m.region.Progress()
		res := m.env.Run(stopWorkers)
		m.statLifetime.Add(int(time.Since(start).Milliseconds()))
		if m.region.Progress() != progressBefore {
			failures = 0
		}
		switch res.Status {
		case ipc.ExitClean:
			if stopRequested(stopWorkers) {
				return nil
			}
			// The worker observed the shared trial budget and finished.
			return nil
		case ipc.ExitCrash:
			m.statRestarts.Add(1)
			m.handleCrash(res)
		case ipc.ExitHung:
			m.statRestarts.Add(1)
			m.handleHang()
		case ipc.ExitFailure:
			failures++
			log.Logf(0, "worker run failed (%v in a row): %v", failures, res.Err)
			if failures >= maxWorkerFailures {
				return fmt.Errorf("%v workers failed in a row, giving up: %w",
					failures, res.Err)
			}
			time.Sleep(time.Second)
		}
	}
}

// handleCrash attributes a signal death to the in-flight trial and records
// the tuple so no future worker repeats it.
func (m *Manager) handleCrash(res ipc.Result) {
	caseIdx, key, ok := m.region.Inflight()
	if !ok || caseIdx >= len(m.cases) {
		log.Logf(0, "worker killed by signal %v outside a trial", res.Signal)
		return
	}
	m.region.ClearInflight()
	m.region.Inc(ipc.StatCrashes)
	c := m.cases[caseIdx]
	crashes := m.region.AddCaseCrash(caseIdx)
	sig := hash.Hash(key.Bytes())
	log.Logf(0, "crash: %v killed worker with signal %v, args=%x, id=%v (%v/%v for this case)",
		c.Name, res.Signal, key.Args, sig.String()[:16], crashes, m.cfg.CrashCeiling)
	m.region.Table.Insert(key, dedup.ClassCrash)
}

// handleHang treats a whole-worker stall as a timeout of the in-flight trial
// if there is one.
func (m *Manager) handleHang() {
	caseIdx, key, ok := m.region.Inflight()
	if !ok || caseIdx >= len(m.cases) {
		log.Logf(0, "worker hung outside a trial")
		return
	}
	m.region.ClearInflight()
	m.region.Inc(ipc.StatTimeouts)
	log.Logf(0, "hang: %v wedged worker, args=%x", m.cases[caseIdx].Name, key.Args)
	m.region.Table.Insert(key, dedup.ClassTimeout)
}

func (m *Manager) registerStats() {
	regionStat := func(c ipc.Counter) func() int {
		return func() int { return int(m.region.Stat(c)) }
	}
	stat.New("exec total", "Trials invoked", stat.Console, stat.Rate{},
		stat.Prometheus("sysinval_exec_total"), regionStat(ipc.StatAttempted))
	stat.New("fails", "Trials the kernel rejected", stat.Simple, stat.Rate{},
		stat.Prometheus("sysinval_fails_total"), regionStat(ipc.StatFails))
	stat.New("succeeds", "Trials that returned success", stat.Simple,
		stat.Prometheus("sysinval_succeeds_total"), regionStat(ipc.StatSucceeds))
	stat.New("crashes", "Trials that killed a worker", stat.Console,
		stat.Prometheus("sysinval_crashes_total"), regionStat(ipc.StatCrashes))
	stat.New("timeouts", "Trials that exceeded the deadline", stat.Console,
		stat.Prometheus("sysinval_timeouts_total"), regionStat(ipc.StatTimeouts))
	stat.New("skipped", "Trials skipped via outcome dedup", stat.Simple,
		stat.Prometheus("sysinval_skipped_total"), func() int {
			return int(m.region.Stat(ipc.StatSkipCrash) +
				m.region.Stat(ipc.StatSkipSucceed) +
				m.region.Stat(ipc.StatSkipTimeout))
		})
	stat.New("dedup records", "Tuples recorded in the shared table", stat.Simple,
		stat.Prometheus("sysinval_dedup_records"), func() int { return m.region.Table.Len() })
	stat.New("dedup dropped", "Tuples dropped on table exhaustion", stat.All,
		stat.Prometheus("sysinval_dedup_dropped_total"), func() int { return m.region.Table.Dropped() })
	stat.New("exercised cases", "Cases with at least one invoked trial", stat.Simple,
		stat.Prometheus("sysinval_exercised_cases"), func() int {
			n := 0
			for _, c := range m.cases {
				if m.region.Exercised(c.ID) {
					n++
				}
			}
			return n
		})
	m.statRestarts = stat.New("worker restarts", "Workers re-spawned after crash/hang",
		stat.Console, stat.Prometheus("sysinval_worker_restarts_total"))
	m.statLifetime = stat.New("worker lifetime ms", "Distribution of worker lifetimes",
		stat.All, stat.Distribution{})
}

func (m *Manager) serveMetrics(ctx context.Context, g *errgroup.Group) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: m.cfg.HTTP, Handler: mux}
	g.Go(func() error {
		log.Logf(0, "serving metrics on http://%v/metrics", m.cfg.HTTP)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})
}

func (m *Manager) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var parts []string
			for _, ui := range stat.Collect(stat.Console) {
				parts = append(parts, fmt.Sprintf("%v=%v", ui.Name, ui.Value))
			}
			log.Logf(0, "%v", strings.Join(parts, ", "))
		}
	}
}

// report logs the end-of-run summary: totals, exercised coverage and the
// distinct crashing/hanging tuples found.
func (m *Manager) report() {
	exercised := 0
	var exercisedCases []*trial.SyscallCase
	for _, c := range m.cases {
		if m.region.Exercised(c.ID) {
			exercised++
			exercisedCases = append(exercisedCases, c)
		}
	}
	log.Logf(0, "exercised %v/%v cases (%v distinct syscalls), %v trials: %v rejected, %v succeeded, %v crashes, %v timeouts",
		exercised, len(m.cases), sys.UniqueOps(exercisedCases),
		m.region.Stat(ipc.StatAttempted), m.region.Stat(ipc.StatFails),
		m.region.Stat(ipc.StatSucceeds), m.region.Stat(ipc.StatCrashes),
		m.region.Stat(ipc.StatTimeouts))
	log.Logf(0, "skipped: %v known-crash, %v known-timeout, %v known-succeed; dedup table: %v records, %v dropped",
		m.region.Stat(ipc.StatSkipCrash), m.region.Stat(ipc.StatSkipTimeout),
		m.region.Stat(ipc.StatSkipSucceed), m.region.Table.Len(), m.region.Table.Dropped())

	names := make(map[uint64]string)
	for _, c := range m.cases {
		call, _, _ := strings.Cut(c.Name, "$")
		if _, ok := names[c.NR]; !ok {
			names[c.NR] = call
		}
	}
	for _, class := range []dedup.Class{dedup.ClassCrash, dedup.ClassTimeout} {
		keys := m.region.Table.Records(class)
		if len(keys) == 0 {
			continue
		}
		log.Logf(0, "%v distinct %v tuples:", len(keys), class)
		for _, key := range keys {
			name := names[key.NR]
			if name == "" {
				name = fmt.Sprint(key.NR)
			}
			sig := hash.Hash(key.Bytes())
			log.Logf(0, "  %v(%x) id=%v", name, key.Args, sig.String()[:16])
		}
	}
}

func stopRequested(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
