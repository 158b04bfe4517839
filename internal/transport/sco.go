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
	"net"

	"github.com/USA-RedDragon/btaudiod/internal/hci"
	"github.com/USA-RedDragon/btaudiod/internal/registrar"
	"github.com/USA-RedDragon/btaudiod/internal/rfcomm"
)

// scoVariant is the SCO-specific state carried by a Transport.
type scoVariant struct {
	spkPCM *PCM
	micPCM *PCM
	rfcomm rfcomm.Session
}

// NewSCO constructs a SCO Transport. eSCO-incapable adapters and HSP
// profiles always start at CVSD; codec negotiation beyond that happens
// later via SelectCodecSCO. Both PCMs are attached to the single encoder
// thread for now, a transitional layout pending a future thread_dec split
// for the microphone side.
func NewSCO(device *Device, owner, path string, profile Profile, session rfcomm.Session, ctrl hci.Controller, reg registrar.Registrar) (*Transport, error) {
	if !profile.IsSCO() {
		return nil, newError("new-sco", KindInvalidArg, nil)
	}

	t := newTransport(device, owner, path, Type{Profile: profile, CodecID: CodecCVSD})
	t.Registrar = reg
	t.HCI = ctrl
	t.threadEnc = newThreadHandle(t, "enc")
	t.threadDec = newThreadHandle(t, "dec")

	sv := &scoVariant{rfcomm: session}
	t.variant = sv

	sv.spkPCM = newPCM(t, t.threadEnc, ModeSink, MaxBTVolumeSCO)
	sv.spkPCM.Format = FormatS16_2LE
	sv.spkPCM.Channels = 1
	sv.spkPCM.Sampling = scoRate(CodecCVSD)

	sv.micPCM = newPCM(t, t.threadEnc, ModeSource, MaxBTVolumeSCO)
	sv.micPCM.Format = FormatS16_2LE
	sv.micPCM.Channels = 1
	sv.micPCM.Sampling = scoRate(CodecCVSD)

	device.insert(t)
	return t, nil
}

// parseDeviceAddress parses a colon-separated MAC address string into the
// HCI collaborator's 6-byte form; a malformed address yields the zero
// address rather than an error since every call site here is already past
// the point where failure can be reported meaningfully.
func parseDeviceAddress(s string) hci.Address {
	var addr hci.Address
	mac, err := net.ParseMAC(s)
	if err != nil || len(mac) != len(addr) {
		return addr
	}
	copy(addr[:], mac)
	return addr
}

// scoRate is the fixed SCO rate table: 8 kHz for CVSD, 16 kHz for mSBC,
// 0 for an undefined codec.
func scoRate(codec CodecID) int {
	switch codec {
	case CodecCVSD:
		return 8000
	case CodecMSBC:
		return 16000
	default:
		return 0
	}
}

// SpeakerPCM returns the SCO transport's speaker-direction PCM endpoint.
func (t *Transport) SpeakerPCM() *PCM {
	sv, ok := t.variant.(*scoVariant)
	if !ok {
		return nil
	}
	return sv.spkPCM
}

// MicPCM returns the SCO transport's microphone-direction PCM endpoint.
func (t *Transport) MicPCM() *PCM {
	sv, ok := t.variant.(*scoVariant)
	if !ok {
		return nil
	}
	return sv.micPCM
}

func (sv *scoVariant) pcmPair() (first, second *PCM) {
	return sv.spkPCM, sv.micPCM
}

func (sv *scoVariant) start(t *Transport) error {
	routine := t.EncodeRoutine
	if routine == nil {
		routine = defaultThreadRoutine
	}
	return t.threadEnc.create(routine)
}

func (sv *scoVariant) stop(t *Transport) {
	t.threadEnc.cancel()
}

// acquire opens a raw HCI SCO socket, connects with the voice setting
// matching the current codec, and records the kernel-reported MTU as both
// MTURead and MTUWrite.
func (sv *scoVariant) acquire(ctx context.Context, t *Transport, _ bool) error {
	t.btFdMtx.Lock()
	defer t.btFdMtx.Unlock()

	if t.btFd != -1 {
		return nil
	}
	if t.HCI == nil {
		return newError("acquire-sco", KindIO, nil)
	}

	voice := hci.VoiceSettingCVSD16Bit
	if t.typeSnapshot().CodecID == CodecMSBC {
		voice = hci.VoiceSettingTransparent
	}

	fd, err := t.HCI.Open(ctx, t.device.Adapter.ID)
	if err != nil {
		return newError("acquire-sco", KindIO, err)
	}
	addr := parseDeviceAddress(t.device.Address)
	if err := t.HCI.Connect(ctx, fd, addr, voice); err != nil {
		_ = t.HCI.Close(fd)
		return newError("acquire-sco", KindIO, err)
	}
	mtu, err := t.HCI.MTU(fd)
	if err != nil {
		_ = t.HCI.Close(fd)
		return newError("acquire-sco", KindIO, err)
	}

	t.btFd = fd
	t.MTURead = mtu
	t.MTUWrite = mtu

	t.registerPCM(sv.spkPCM)
	t.registerPCM(sv.micPCM)
	return nil
}

// release closes the HCI socket through the controller collaborator.
func (sv *scoVariant) release(_ context.Context, t *Transport) error {
	t.btFdMtx.Lock()
	defer t.btFdMtx.Unlock()

	if t.btFd == -1 {
		return nil
	}
	if t.HCI != nil {
		_ = t.HCI.Close(t.btFd)
	}
	t.btFd = -1
	return nil
}

// ConfirmCodec records the negotiated codec once the RFCOMM session
// observes the peer's acknowledgement. It must be called while holding the
// same rendezvous mutex CodecSelectionRendezvous returns, immediately
// before broadcasting the completion condition: that shared mutex is what
// makes this write visible to SelectCodecSCO's post-wake read even though
// neither side takes type_mtx for it (SelectCodecSCO already holds type_mtx
// for the whole operation, and it is the only call blocked on this
// session's condition while the confirmation happens).
func (t *Transport) ConfirmCodec(codecID CodecID) {
	t.typ.CodecID = codecID
}

// SelectCodecSCO is the most delicate operation in this package: under
// typeMtx, a no-op if already at codecID; otherwise release both PCMs and
// the socket, signal the RFCOMM session, and wait on its completion
// rendezvous. The critical ordering (release PCMs, release bt_fd, signal,
// wait) ensures no worker goroutine observes a mid-switch socket and no
// double-Acquire occurs across the renegotiation. HSP transports fail with
// NotSupported since they never negotiate a codec.
func (t *Transport) SelectCodecSCO(ctx context.Context, codecID CodecID) error {
	sv, ok := t.variant.(*scoVariant)
	if !ok {
		return newError("select-codec-sco", KindNotSupported, nil)
	}
	if !t.typeSnapshot().Profile.IsHFP() {
		return newError("select-codec-sco", KindNotSupported, nil)
	}

	t.typeMtx.Lock()
	defer t.typeMtx.Unlock()

	if t.typ.CodecID == codecID {
		return nil
	}

	if sv.rfcomm == nil {
		return newError("select-codec-sco", KindMediatorGone, nil)
	}
	var sig rfcomm.Signal
	switch codecID {
	case CodecCVSD:
		sig = rfcomm.SignalSetCodecCVSD
	case CodecMSBC:
		sig = rfcomm.SignalSetCodecMSBC
	default:
		return newError("select-codec-sco", KindInvalidArg, nil)
	}

	// The completion mutex is held across releasing both PCMs, releasing
	// bt_fd, and the send, so no worker goroutine can observe a mid-switch
	// socket and no concurrent codec switch can interleave.
	mu, cond := sv.rfcomm.CodecSelectionRendezvous()
	mu.Lock()
	t.pcmsLock()
	for _, p := range []*PCM{sv.spkPCM, sv.micPCM} {
		if p.fd != -1 {
			closePCMFD(p.fd)
			p.fd = -1
		}
	}
	_ = sv.release(ctx, t)
	t.pcmsUnlock()

	if err := sv.rfcomm.Send(sig); err != nil {
		mu.Unlock()
		return newError("select-codec-sco", KindIO, err)
	}
	cond.Wait()
	mu.Unlock()

	if t.typ.CodecID != codecID {
		return newError("select-codec-sco", KindIO, nil)
	}

	rate := scoRate(codecID)
	sv.spkPCM.Sampling = rate
	sv.micPCM.Sampling = rate
	return nil
}
