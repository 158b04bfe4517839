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
	"bytes"
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/USA-RedDragon/btaudiod/internal/mediator"
	"github.com/USA-RedDragon/btaudiod/internal/registrar"
)

// a2dpVariant is the A2DP-specific state carried by a Transport.
type a2dpVariant struct {
	codec         CodecDescriptor
	configuration []byte

	stateMu sync.Mutex
	state   State

	pcm   *PCM
	pcmBC *PCM

	// outqBaseline is the kernel output-queue depth observed right after
	// the remote socket was acquired, before any audio has been written.
	// It's the zero point later delay estimates are measured against.
	outqBaseline int
}

// NewA2DP constructs an A2DP Transport. Both PCMs are always initialized;
// the back-channel PCM's Channels stays 0 (and so unregistered) unless
// codec is FastStream, which carries independent per-direction
// channel/rate choices.
func NewA2DP(device *Device, owner, path string, profile Profile, codec CodecDescriptor, configuration []byte, med mediator.Mediator, reg registrar.Registrar) (*Transport, error) {
	if !profile.IsA2DP() {
		return nil, newError("new-a2dp", KindInvalidArg, nil)
	}

	t := newTransport(device, owner, path, Type{Profile: profile, CodecID: codec.ID})
	t.Mediator = med
	t.Registrar = reg
	t.threadEnc = newThreadHandle(t, "enc")
	t.threadDec = newThreadHandle(t, "dec")

	av := &a2dpVariant{
		codec:         codec,
		configuration: append([]byte(nil), configuration...),
		state:         StateIdle,
	}
	t.variant = av

	fwdMode, bcMode := ModeSource, ModeSink
	fwdTh, bcTh := t.threadEnc, t.threadDec
	if profile == ProfileA2DPSink {
		fwdMode, bcMode = ModeSink, ModeSource
		fwdTh, bcTh = t.threadDec, t.threadEnc
	}

	av.pcm = newPCM(t, fwdTh, fwdMode, MaxBTVolumeA2DP)
	av.pcmBC = newPCM(t, bcTh, bcMode, MaxBTVolumeA2DP)
	applyCodecConfiguration(av, codec, configuration)

	device.insert(t)
	return t, nil
}

// applyCodecConfiguration decodes format/channels/rate from the opaque
// configuration blob via the codec's lookup tables.
func applyCodecConfiguration(av *a2dpVariant, codec CodecDescriptor, configuration []byte) {
	format := FormatS16_2LE
	if codec.Format != nil {
		format = codec.Format(configuration)
	}
	av.pcm.Format = format

	if codec.Channels != nil {
		av.pcm.Channels = codec.Channels(configuration)
	}
	if codec.SamplingRate != nil {
		av.pcm.Sampling = codec.SamplingRate(configuration)
	}

	if codec.ID == CodecFastStream {
		av.pcmBC.Format = format
		if codec.Channels != nil {
			av.pcmBC.Channels = codec.Channels(configuration)
		}
		if codec.SamplingRate != nil {
			av.pcmBC.Sampling = codec.SamplingRate(configuration)
		}
	}
}

// PCM returns the forward-direction PCM endpoint of an A2DP transport.
func (t *Transport) PCM() *PCM {
	av, ok := t.variant.(*a2dpVariant)
	if !ok {
		return nil
	}
	return av.pcm
}

// BackChannelPCM returns the FastStream back-channel PCM endpoint, present
// on every A2DP transport but only registered (Channels > 0) for FastStream.
func (t *Transport) BackChannelPCM() *PCM {
	av, ok := t.variant.(*a2dpVariant)
	if !ok {
		return nil
	}
	return av.pcmBC
}

// SetState drives the A2DP state machine: transitioning to PENDING on a
// sink role triggers acquisition; ACTIVE starts the worker threads; IDLE
// (or any other value) stops them.
func (t *Transport) SetState(ctx context.Context, s State) error {
	av, ok := t.variant.(*a2dpVariant)
	if !ok {
		return newError("set-state", KindNotSupported, nil)
	}

	av.stateMu.Lock()
	av.state = s
	av.stateMu.Unlock()

	switch s {
	case StatePending:
		if t.typeSnapshot().Profile == ProfileA2DPSink {
			return t.TryAcquire(ctx)
		}
		return nil
	case StateActive:
		return t.Start()
	default:
		t.Stop()
		return nil
	}
}

func (av *a2dpVariant) pcmPair() (first, second *PCM) {
	return av.pcm, av.pcmBC
}

// start fans the forward and (when present) back-channel worker goroutines
// out through an errgroup so a FastStream transport's two threads spin up
// concurrently rather than one after the other.
func (av *a2dpVariant) start(t *Transport) error {
	fwdRoutine := t.EncodeRoutine
	if av.pcm.th == t.threadDec {
		fwdRoutine = t.DecodeRoutine
	}
	if fwdRoutine == nil {
		fwdRoutine = defaultThreadRoutine
	}

	var g errgroup.Group
	g.Go(func() error { return av.pcm.th.create(fwdRoutine) })

	if av.pcmBC.Channels > 0 {
		bcRoutine := t.EncodeRoutine
		if av.pcmBC.th == t.threadDec {
			bcRoutine = t.DecodeRoutine
		}
		if bcRoutine == nil {
			bcRoutine = defaultThreadRoutine
		}
		g.Go(func() error { return av.pcmBC.th.create(bcRoutine) })
	}
	return g.Wait()
}

// stop cancels both worker handles concurrently; cancel itself blocks
// until its goroutine has joined, so running both through an errgroup
// halves the wall-clock cost of tearing down a two-thread FastStream link.
func (av *a2dpVariant) stop(t *Transport) {
	var g errgroup.Group
	g.Go(func() error { t.threadEnc.cancel(); return nil })
	g.Go(func() error { t.threadDec.cancel(); return nil })
	_ = g.Wait()
}

// acquire serializes under btFdMtx, keeps an already-open socket alive
// rather than reacquiring it, and shrinks the kernel send buffer once a
// fresh fd is in hand so a slow peer can't let unsent audio pile up.
func (av *a2dpVariant) acquire(ctx context.Context, t *Transport, tryAcquire bool) error {
	t.btFdMtx.Lock()
	defer t.btFdMtx.Unlock()

	if t.btFd != -1 {
		return nil
	}
	if t.Mediator == nil {
		return newError("acquire-a2dp", KindIO, nil)
	}

	var (
		reply mediator.AcquireReply
		err   error
	)
	if tryAcquire {
		reply, err = t.Mediator.TryAcquire(ctx, t.Owner, t.Path)
	} else {
		reply, err = t.Mediator.Acquire(ctx, t.Owner, t.Path)
	}
	if err != nil {
		return newError("acquire-a2dp", KindIO, err)
	}

	t.btFd = int(reply.FD)
	t.MTURead = reply.MTURead
	t.MTUWrite = reply.MTUWrite
	shrinkSendBuffer(reply.FD, reply.MTUWrite)

	av.outqBaseline = outqDepth(reply.FD)
	av.pcm.setDelay(av.outqBaseline)
	if av.pcmBC.Channels > 0 {
		av.pcmBC.setDelay(av.outqBaseline)
	}
	if t.DelayObserver != nil {
		t.DelayObserver.ObserveDelay(t.Path, av.outqBaseline)
	}

	t.registerPCM(av.pcm)
	t.registerPCM(av.pcmBC)
	return nil
}

// release is idempotent, absorbs the benign mediator-gone error kinds, and
// must run under the PCM locks (enforced by every call site going through
// pcmsLock/Unlock).
func (av *a2dpVariant) release(ctx context.Context, t *Transport) error {
	t.btFdMtx.Lock()
	defer t.btFdMtx.Unlock()

	if t.btFd == -1 {
		return nil
	}

	av.stateMu.Lock()
	state := av.state
	av.stateMu.Unlock()

	if state != StateIdle && t.Owner != "" && t.Mediator != nil {
		if err := t.Mediator.Release(ctx, t.Owner, t.Path); err != nil && !mediator.IsGone(err) {
			return newError("release-a2dp", KindIO, err)
		}
	}

	closeBTFD(t.btFd)
	t.btFd = -1
	return nil
}

// SelectCodecA2DP is a no-op if the service endpoint already matches the
// current configuration, otherwise it issues a SetConfiguration request;
// the mediator drives the resulting state change through a later
// callback, not synchronously here.
func (t *Transport) SelectCodecA2DP(ctx context.Context, codecID CodecID, configuration []byte) error {
	av, ok := t.variant.(*a2dpVariant)
	if !ok {
		return newError("select-codec-a2dp", KindNotSupported, nil)
	}

	if codecID == t.typeSnapshot().CodecID && bytes.Equal(configuration, av.configuration) {
		return nil
	}
	if t.Mediator == nil {
		return newError("select-codec-a2dp", KindIO, nil)
	}
	return t.Mediator.SetConfiguration(ctx, t.Owner, t.Path, configuration)
}
