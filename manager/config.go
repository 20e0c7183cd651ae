// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package manager

import (
	"fmt"
	"time"

	"github.com/kstress/sysinval/pkg/config"
)

// Config is the run configuration shared by the supervisor and its workers.
// The supervisor saves the effective config into the workdir and points every
// worker at that file, so both sides derive the identical enabled case list.
type Config struct {
	// Workdir holds the scratch file/dir, the effective worker config and
	// the run log. Workers chdir into it.
	Workdir string `json:"workdir"`
	// HTTP is the address to serve prometheus metrics on ("" disables).
	HTTP string `json:"http"`
	// Duration bounds the run ("" or "0" runs until interrupted).
	Duration string `json:"duration"`
	// MaxOps bounds the total number of invoked trials across all workers
	// (0 = unlimited).
	MaxOps uint64 `json:"max_ops"`
	// TrialTimeoutMs is the per-syscall deadline.
	TrialTimeoutMs int `json:"trial_timeout_ms"`
	// CrashCeiling stops exercising a syscall case after it crashed
	// a worker this many times.
	CrashCeiling int `json:"crash_ceiling"`
	// Shuffle randomizes case order within each sweep.
	Shuffle bool `json:"shuffle"`
	// NoProgressSec is how long a worker may stall before it is killed.
	NoProgressSec int `json:"no_progress_sec"`
	// Lists of syscall names to enable/disable, in the same format:
	// exact case name ("openat$rand"), call name ("openat", all variants)
	// or prefix glob ("open*"). Empty enable list means all.
	EnableSyscalls  []string `json:"enable_syscalls,omitempty"`
	DisableSyscalls []string `json:"disable_syscalls,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Workdir:        "workdir",
		TrialTimeoutMs: 100,
		CrashCeiling:   3,
		NoProgressSec:  60,
	}
}

// LoadConfig reads the config file (missing fields keep defaults) and
// validates it.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		if err := config.LoadFile(filename, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Workdir == "" {
		return fmt.Errorf("config: empty workdir")
	}
	if cfg.TrialTimeoutMs <= 0 {
		return fmt.Errorf("config: trial_timeout_ms must be positive")
	}
	if cfg.CrashCeiling <= 0 {
		return fmt.Errorf("config: crash_ceiling must be positive")
	}
	if cfg.NoProgressSec <= 0 {
		return fmt.Errorf("config: no_progress_sec must be positive")
	}
	if _, err := cfg.RunDuration(); err != nil {
		return err
	}
	return nil
}

// RunDuration parses the Duration field; zero means unbounded.
func (cfg *Config) RunDuration() (time.Duration, error) {
	if cfg.Duration == "" || cfg.Duration == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Duration)
	if err != nil {
		return 0, fmt.Errorf("config: bad duration %q: %w", cfg.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: negative duration %q", cfg.Duration)
	}
	return d, nil
}

func (cfg *Config) TrialTimeout() time.Duration {
	return time.Duration(cfg.TrialTimeoutMs) * time.Millisecond
}

func (cfg *Config) NoProgress() time.Duration {
	return time.Duration(cfg.NoProgressSec) * time.Second
}
