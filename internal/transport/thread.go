// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/USA-RedDragon/DMRHub>

package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// signalQueueDepth bounds the control-signal channel: a small buffered
// channel read inside the worker's select loop gives ordered delivery, and
// the sender only waits on the worker once this many signals are queued
// and still unread.
const signalQueueDepth = 8

// ThreadHandle is one worker goroutine's identity: its control-signal
// channel and readiness state. Running is tracked with an explicit
// atomic.Bool rather than by comparing goroutine identities, so "no
// running worker" has one unambiguous representation.
type ThreadHandle struct {
	t    *Transport
	name string

	mu       sync.Mutex
	running  atomic.Bool
	signals  chan SignalKind
	cancelFn context.CancelFunc
	done     chan struct{}

	readyCh   chan struct{}
	readyOnce sync.Once
}

func newThreadHandle(t *Transport, name string) *ThreadHandle {
	return &ThreadHandle{t: t, name: name}
}

// Running reports whether the worker goroutine has completed startup.
func (th *ThreadHandle) Running() bool {
	return th.running.Load()
}

// create spawns routine on a fresh goroutine, taking a fresh reference on
// the owning Transport for the goroutine's lifetime, and returns once the
// routine has called ready (or has already returned).
func (th *ThreadHandle) create(routine ThreadRoutine) error {
	th.mu.Lock()
	defer th.mu.Unlock()
	if th.done != nil {
		select {
		case <-th.done:
		default:
			return newError("create", KindInvalidArg, fmt.Errorf("thread %s already running", th.name))
		}
	}

	th.t.device.Ref(th.t)

	ctx, cancel := context.WithCancel(context.Background())
	th.cancelFn = cancel
	th.signals = make(chan SignalKind, signalQueueDepth)
	th.done = make(chan struct{})
	th.readyCh = make(chan struct{})
	th.readyOnce = sync.Once{}

	signals, done, readyCh := th.signals, th.done, th.readyCh
	go func() {
		defer close(done)
		routine(ctx, signals, th.markReady)
		th.cleanup()
	}()
	select {
	case <-readyCh:
	case <-done:
	}
	return nil
}

func (th *ThreadHandle) markReady() {
	th.readyOnce.Do(func() {
		th.running.Store(true)
		close(th.readyCh)
	})
}

// cleanup is the mandatory terminal hook: under the Transport's pcms lock,
// release the remote socket so descriptors are closed even on
// cancellation, then drop the reference create took.
func (th *ThreadHandle) cleanup() {
	th.running.Store(false)
	th.t.pcmsLock()
	_ = th.t.variant.release(context.Background(), th.t)
	th.t.pcmsUnlock()
	th.t.device.Unref(th.t)
}

// cancel is synchronous: it requests cancellation and joins the worker
// goroutine before returning, so callers can rely on no IO thread still
// touching the Transport once cancel returns.
func (th *ThreadHandle) cancel() {
	th.mu.Lock()
	cancel, done := th.cancelFn, th.done
	th.mu.Unlock()
	if cancel == nil || done == nil {
		return
	}
	select {
	case <-done:
		return
	default:
	}
	cancel()
	<-done
}

// send enqueues a control signal. It returns a NoThread error if the
// worker isn't running.
func (th *ThreadHandle) send(sig SignalKind) error {
	th.mu.Lock()
	signals, done := th.signals, th.done
	th.mu.Unlock()
	if !th.running.Load() || signals == nil {
		return newError("send", KindNoThread, nil)
	}
	select {
	case signals <- sig:
		return nil
	case <-done:
		return newError("send", KindNoThread, nil)
	}
}
