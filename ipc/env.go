// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd || linux || darwin

package ipc

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/kstress/sysinval/pkg/log"
	"github.com/kstress/sysinval/pkg/osutil"
)

// ExitStatus classifies how a worker run ended.
type ExitStatus int

const (
	ExitClean   ExitStatus = iota // worker exited 0 (finished or told to stop)
	ExitCrash                     // worker was killed by a signal
	ExitHung                      // worker made no progress and was killed
	ExitFailure                   // worker exited non-zero (setup/internal error)
)

func (s ExitStatus) String() string {
	switch s {
	case ExitClean:
		return "clean"
	case ExitCrash:
		return "crash"
	case ExitHung:
		return "hung"
	}
	return "failure"
}

// Result describes one finished worker run.
type Result struct {
	Status ExitStatus
	Signal syscall.Signal // valid for ExitCrash
	Err    error          // valid for ExitFailure
}

// EnvConfig configures worker spawning.
type EnvConfig struct {
	Bin        string   // worker binary, normally os.Executable() of the supervisor
	Args       []string // worker argv tail, must select worker mode
	Region     *Region
	NoProgress time.Duration // kill the worker if counters stall for this long
	Debug      bool          // pass worker output through to our stdout/stderr
}

// Env spawns worker children and supervises them. The shared region fd is
// inherited by each child as fd 3; the child runs in its own process group
// so that a hang can be killed wholesale.
type Env struct {
	cfg EnvConfig
}

func NewEnv(cfg EnvConfig) *Env {
	if cfg.NoProgress == 0 {
		cfg.NoProgress = time.Minute
	}
	return &Env{cfg: cfg}
}

// Run spawns one worker and blocks until it exits or is killed.
// Closing stop kills the worker and reports the run as clean.
func (env *Env) Run(stop <-chan struct{}) Result {
	cmd := osutil.Command(env.cfg.Bin, env.cfg.Args...)
	cmd.ExtraFiles = []*os.File{env.cfg.Region.File()}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
	if env.cfg.Debug {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = log.VerboseWriter(2)
		cmd.Stderr = log.VerboseWriter(2)
	}
	if err := cmd.Start(); err != nil {
		return Result{Status: ExitFailure, Err: fmt.Errorf("failed to start worker: %w", err)}
	}
	log.Logf(1, "spawned worker pid %v", cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var hung, stopped bool
	lastProgress := env.cfg.Region.Progress()
	lastChange := time.Now()
	ticker := time.NewTicker(env.cfg.NoProgress / 4)
	defer ticker.Stop()
	var err error
waiting:
	for {
		select {
		case err = <-done:
			break waiting
		case <-stop:
			stopped = true
			osutil.KillPgroup(cmd)
			err = <-done
			break waiting
		case <-ticker.C:
			if progress := env.cfg.Region.Progress(); progress != lastProgress {
				lastProgress = progress
				lastChange = time.Now()
				continue
			}
			if time.Since(lastChange) < env.cfg.NoProgress {
				continue
			}
			log.Logf(0, "worker pid %v made no progress for %v, killing",
				cmd.Process.Pid, env.cfg.NoProgress)
			hung = true
			osutil.KillPgroup(cmd)
		}
	}
	switch {
	case stopped:
		return Result{Status: ExitClean}
	case hung:
		return Result{Status: ExitHung}
	case err == nil:
		return Result{Status: ExitClean}
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return Result{Status: ExitFailure, Err: fmt.Errorf("failed to wait for worker: %w", err)}
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Result{Status: ExitCrash, Signal: ws.Signal()}
	}
	return Result{Status: ExitFailure, Err: fmt.Errorf("worker failed: %w", err)}
}
