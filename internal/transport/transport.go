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
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/USA-RedDragon/btaudiod/internal/hci"
	"github.com/USA-RedDragon/btaudiod/internal/mediator"
	"github.com/USA-RedDragon/btaudiod/internal/registrar"
)

// variant carries the A2DP-versus-SCO-specific state and behavior behind a
// small interface rather than per-case branching scattered through
// Transport's methods. a2dpVariant and scoVariant are the two
// implementations.
type variant interface {
	acquire(ctx context.Context, t *Transport, tryAcquire bool) error
	release(ctx context.Context, t *Transport) error
	start(t *Transport) error
	stop(t *Transport)
	pcmPair() (first, second *PCM)
}

// DelayObserver receives the link-layer queuing-delay baseline recorded
// right after a fresh acquire, in bytes still sitting in the kernel send
// buffer. Optional; a Transport with no observer set just skips the call.
type DelayObserver interface {
	ObserveDelay(path string, bytes int)
}

// Transport is one audio link, either A2DP or SCO.
type Transport struct {
	device *Device

	// Owner and Path are the immutable mediator-supplied identifiers;
	// Path is the key under which this Transport is indexed by Device.
	Owner string
	Path  string

	// CorrelationID is a uuid assigned once at construction for log
	// correlation; it stays the same across every acquire cycle of this
	// Transport.
	CorrelationID uuid.UUID

	typeMtx sync.RWMutex
	typ     Type

	btFdMtx  sync.Mutex
	btFd     int
	MTURead  uint16
	MTUWrite uint16

	threadEnc *ThreadHandle
	threadDec *ThreadHandle

	variant variant

	// EncodeRoutine and DecodeRoutine are the codec IO routines this
	// Transport's worker threads run. Nil means defaultThreadRoutine, an
	// idle placeholder.
	EncodeRoutine ThreadRoutine
	DecodeRoutine ThreadRoutine

	Mediator      mediator.Mediator
	Registrar     registrar.Registrar
	HCI           hci.Controller
	DelayObserver DelayObserver

	// refCount is only ever touched under device.transportsMu; see
	// Device.Ref/Unref/Lookup.
	refCount int
}

func newTransport(device *Device, owner, path string, typ Type) *Transport {
	return &Transport{
		device:        device,
		Owner:         owner,
		Path:          path,
		CorrelationID: uuid.New(),
		typ:           typ,
		btFd:          -1,
		refCount:      1,
	}
}

func (t *Transport) typeSnapshot() Type {
	t.typeMtx.RLock()
	defer t.typeMtx.RUnlock()
	return t.typ
}

// Type returns the transport's current (profile, codec) pair.
func (t *Transport) Type() Type {
	return t.typeSnapshot()
}

func (t *Transport) setType(typ Type) {
	t.typeMtx.Lock()
	t.typ = typ
	t.typeMtx.Unlock()
}

func (t *Transport) pcmPairOrder() (first, second *PCM) {
	return t.variant.pcmPair()
}

// BTFD returns the current remote-side socket descriptor, -1 when released.
func (t *Transport) BTFD() int {
	t.btFdMtx.Lock()
	defer t.btFdMtx.Unlock()
	return t.btFd
}

// RefCount returns the current reference count, for metrics and tests.
// Racy by nature — the count can change the instant this returns; callers
// doing anything but observing should go through Ref/Unref/Lookup instead.
func (t *Transport) RefCount() int {
	t.device.transportsMu.Lock()
	defer t.device.transportsMu.Unlock()
	return t.refCount
}

// Ref increments the reference count.
func (t *Transport) Ref() { t.device.Ref(t) }

// Unref decrements the reference count, freeing the Transport on reaching
// zero.
func (t *Transport) Unref() { t.device.Unref(t) }

// teardown runs once the reference count reaches zero, outside
// transportsMu: release the remote socket if still open.
func (t *Transport) teardown() {
	t.pcmsLock()
	_ = t.variant.release(context.Background(), t)
	t.pcmsUnlock()
}

// Acquire issues (or reuses, keep-alive) the remote-side socket via the
// variant's acquisition protocol.
func (t *Transport) Acquire(ctx context.Context) error {
	return t.variant.acquire(ctx, t, false)
}

// TryAcquire is Acquire's non-committal counterpart used while the A2DP
// state machine is still PENDING.
func (t *Transport) TryAcquire(ctx context.Context) error {
	return t.variant.acquire(ctx, t, true)
}

// Release is idempotent; a no-op if already released. It holds both PCM
// locks across the variant's release.
func (t *Transport) Release(ctx context.Context) error {
	t.pcmsLock()
	defer t.pcmsUnlock()
	return t.variant.release(ctx, t)
}

// Start begins whichever worker goroutine(s) the profile requires.
func (t *Transport) Start() error {
	return t.variant.start(t)
}

// Stop cancels both worker handles synchronously.
func (t *Transport) Stop() {
	t.variant.stop(t)
}

// registerPCM onboards a PCM onto the client-facing registrar. A PCM whose
// Channels is still 0 (an unused FastStream back-channel) is never a real
// endpoint and is skipped, matching Destroy's Unregister side.
func (t *Transport) registerPCM(p *PCM) {
	if p == nil || p.Channels == 0 || t.Registrar == nil {
		return
	}
	t.Registrar.Register(registrar.Endpoint{Path: p.Path(), Channels: p.Channels})
}

// Destroy is the orderly mediator-side tear-down: unregister client-visible
// PCMs, cancel worker threads, close PCM descriptors and release the
// socket under the PCM lock, then drop the binding's reference.
func (t *Transport) Destroy(ctx context.Context) error {
	first, second := t.pcmPairOrder()
	for _, p := range []*PCM{first, second} {
		if p != nil && t.Registrar != nil {
			t.Registrar.Unregister(p.Path())
		}
	}

	if sco, ok := t.variant.(*scoVariant); ok && sco.rfcomm != nil {
		_ = sco.rfcomm.Close()
	}

	var g errgroup.Group
	g.Go(func() error { t.threadEnc.cancel(); return nil })
	g.Go(func() error { t.threadDec.cancel(); return nil })
	_ = g.Wait()

	t.pcmsLock()
	for _, p := range []*PCM{first, second} {
		// Both PCM mutexes are already held, so the descriptor is closed
		// here directly rather than through p.release, which locks p.mu.
		if p != nil && p.fd != -1 {
			closePCMFD(p.fd)
			p.fd = -1
		}
	}
	err := t.variant.release(ctx, t)
	t.pcmsUnlock()

	t.device.Unref(t)
	return err
}
