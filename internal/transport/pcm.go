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
	"fmt"
	"sync"
	"time"

	"github.com/USA-RedDragon/btaudiod/internal/pcmio"
)

// drainSleep is a post-drain latency heuristic: the mediator exposes no
// drain-complete signal, so Drain sleeps this long after the IO thread
// signals synced to let the remote output buffer actually empty. A
// deliberate fudge factor, not a tuned constant.
const drainSleep = 200 * time.Millisecond

// ChannelVolume is one channel's level/mute pair.
type ChannelVolume struct {
	Level int // centibels, [-9600, 9600]
	Muted bool
}

// PCM is one direction of sample flow between the daemon and a local
// client.
type PCM struct {
	t  *Transport
	th *ThreadHandle

	Mode     Mode
	Channels int
	Format   Format
	Sampling int

	MaxBTVolume int
	SoftVolume  bool
	Delay       int

	mu sync.Mutex
	fd int // -1 when released

	Volume [2]ChannelVolume

	syncedMu sync.Mutex
	synced   *sync.Cond
	drained  bool
}

func newPCM(t *Transport, th *ThreadHandle, mode Mode, maxBTVolume int) *PCM {
	p := &PCM{
		t:           t,
		th:          th,
		Mode:        mode,
		fd:          -1,
		MaxBTVolume: maxBTVolume,
	}
	p.synced = sync.NewCond(&p.syncedMu)
	return p
}

// Path derives the externally visible object path:
// <transport-path>/<profile-tag>/<source|sink>, where transport-path is the
// owning Transport's mediator object path. A Device carries no object path
// of its own, so the prefix is not a device path.
func (p *PCM) Path() string {
	return fmt.Sprintf("%s/%s/%s", p.t.Path, p.t.typeSnapshot().Profile.pathTag(), p.Mode)
}

// Open assigns the client stream descriptor, protected by the PCM's mutex.
func (p *PCM) Open(fd int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fd = fd
	_ = pcmio.SetNonblocking(fd)
}

// FD returns the current client stream descriptor.
func (p *PCM) FD() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fd
}

// setDelay records the link-layer queuing delay baseline observed at
// acquire time, under the PCM's mutex.
func (p *PCM) setDelay(d int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Delay = d
}

// GetDelay returns the most recently recorded queuing delay baseline.
func (p *PCM) GetDelay() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Delay
}

// release closes the client stream descriptor and clears it, under the
// PCM's mutex. It takes the lock itself since nothing here is reentrant.
func (p *PCM) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fd != -1 {
		closePCMFD(p.fd)
	}
	p.fd = -1
}

// Ref and Unref are thin forwarders to the owning Transport's ref/unref:
// a PCM has no independent lifetime.
func (p *PCM) Ref()   { p.t.device.Ref(p.t) }
func (p *PCM) Unref() { p.t.device.Unref(p.t) }

// Pause, Resume, and Drop enqueue the corresponding control signal on the
// PCM's worker. Drop always targets the encoder thread regardless of which
// thread drives this PCM, since the encoder owns outbound buffer flushes.
func (p *PCM) Pause() error  { return p.th.send(SignalPCMPause) }
func (p *PCM) Resume() error { return p.th.send(SignalPCMResume) }
func (p *PCM) Drop() error   { return p.t.threadEnc.send(SignalPCMDrop) }

// Drain blocks the caller until the IO thread signals a completed drain,
// then sleeps drainSleep before returning. It fails with NoThread if the
// worker isn't running.
func (p *PCM) Drain() error {
	if !p.th.Running() {
		return newError("pcm-drain", KindNoThread, nil)
	}

	p.syncedMu.Lock()
	p.drained = false
	if err := p.th.send(SignalPCMSync); err != nil {
		p.syncedMu.Unlock()
		return err
	}
	for !p.drained {
		p.synced.Wait()
	}
	p.syncedMu.Unlock()

	time.Sleep(drainSleep)
	return nil
}

// signalSynced is called by the worker goroutine driving this PCM once a
// PCM_SYNC drain has actually completed.
func (p *PCM) signalSynced() {
	p.syncedMu.Lock()
	p.drained = true
	p.syncedMu.Unlock()
	p.synced.Broadcast()
}

// pcmsLock acquires both PCM mutexes of the transport in the canonical
// pair order (forward before back-channel for A2DP; speaker before
// microphone for SCO). It is the only sanctioned entry point that grabs
// both, preventing deadlock against an IO thread cleanup hook using the
// same order.
func (t *Transport) pcmsLock() {
	first, second := t.pcmPairOrder()
	if first != nil {
		first.mu.Lock()
	}
	if second != nil {
		second.mu.Lock()
	}
}

func (t *Transport) pcmsUnlock() {
	first, second := t.pcmPairOrder()
	if second != nil {
		second.mu.Unlock()
	}
	if first != nil {
		first.mu.Unlock()
	}
}
