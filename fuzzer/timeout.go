// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import (
	"runtime"
	"syscall"
	"time"

	"github.com/kstress/sysinval/trial"
)

// caller owns a locked OS thread on which trials are invoked. A syscall that
// never returns wedges the thread; the engine then abandons the whole caller
// and arms a fresh one, so a hung trial costs one OS thread, not the worker.
type caller struct {
	reqs chan request
}

type request struct {
	key  trial.Key
	done chan response
}

type response struct {
	ret   uintptr
	errno syscall.Errno
}

func newCaller(invoke Invoke) *caller {
	c := &caller{reqs: make(chan request)}
	go func() {
		// Locked without a matching unlock: when the goroutine exits
		// (reqs closed after a timeout), the runtime destroys the thread
		// instead of reusing it in an unknown post-syscall state.
		runtime.LockOSThread()
		for req := range c.reqs {
			ret, errno := invoke(req.key.NR, req.key.Args)
			req.done <- response{ret, errno}
		}
	}()
	return c
}

// call runs one trial with a deadline. On timeout the caller is dead and
// must not be used again.
func (c *caller) call(key trial.Key, timeout time.Duration) (uintptr, syscall.Errno, bool) {
	done := make(chan response, 1)
	c.reqs <- request{key: key, done: done}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case resp := <-done:
		return resp.ret, resp.errno, false
	case <-timer.C:
		// The done chan is buffered, so the stuck goroutine will not
		// block forever if the syscall eventually returns.
		close(c.reqs)
		return 0, 0, true
	}
}

// call invokes the trial on the current caller, replacing it if the trial
// timed out.
func (p *Proc) call(key trial.Key) (uintptr, syscall.Errno, bool) {
	ret, errno, timedOut := p.caller.call(key, p.cfg.TrialTimeout)
	if timedOut {
		p.caller = newCaller(p.cfg.Invoke)
	}
	return ret, errno, timedOut
}
