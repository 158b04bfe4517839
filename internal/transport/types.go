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

// Package transport is the transport core of a Bluetooth-audio daemon: the
// object graph (Adapter, Device, Transport, PCM) that bridges local audio
// endpoints to a Bluetooth controller, their reference counting and
// destruction ordering, the A2DP and SCO acquisition protocols, the
// control-signal delivery to IO worker goroutines, the SCO codec-switch
// handshake, and volume-level translation.
package transport

import "fmt"

// Profile identifies a transport's Bluetooth audio profile and direction.
type Profile int

const (
	ProfileNone Profile = iota
	ProfileA2DPSource
	ProfileA2DPSink
	ProfileHFPHF
	ProfileHFPAG
	ProfileHSPHS
	ProfileHSPAG
)

func (p Profile) String() string {
	switch p {
	case ProfileA2DPSource:
		return "a2dp-source"
	case ProfileA2DPSink:
		return "a2dp-sink"
	case ProfileHFPHF:
		return "hfp-hf"
	case ProfileHFPAG:
		return "hfp-ag"
	case ProfileHSPHS:
		return "hsp-hs"
	case ProfileHSPAG:
		return "hsp-ag"
	default:
		return "none"
	}
}

// IsA2DP reports whether the profile belongs to the A2DP family.
func (p Profile) IsA2DP() bool {
	return p == ProfileA2DPSource || p == ProfileA2DPSink
}

// IsSCO reports whether the profile belongs to the SCO/voice family.
func (p Profile) IsSCO() bool {
	return !p.IsA2DP() && p != ProfileNone
}

// IsHFP reports whether the profile is hands-free (codec-switch capable),
// as opposed to HSP which only ever runs CVSD.
func (p Profile) IsHFP() bool {
	return p == ProfileHFPHF || p == ProfileHFPAG
}

// pathTag returns the profile-tag component of a PCM's registrar path.
func (p Profile) pathTag() string {
	switch p {
	case ProfileA2DPSource:
		return "a2dpsrc"
	case ProfileA2DPSink:
		return "a2dpsnk"
	case ProfileHFPHF:
		return "hfphf"
	case ProfileHFPAG:
		return "hfpag"
	case ProfileHSPHS:
		return "hsphs"
	case ProfileHSPAG:
		return "hspag"
	default:
		return "none"
	}
}

// CodecID identifies the codec in use by a transport's Type.
type CodecID int

const (
	CodecUndefined CodecID = iota
	CodecSBC
	CodecAAC
	CodecAptX
	CodecAptXHD
	CodecLDAC
	CodecFastStream
	CodecCVSD
	CodecMSBC
)

func (c CodecID) String() string {
	switch c {
	case CodecSBC:
		return "sbc"
	case CodecAAC:
		return "aac"
	case CodecAptX:
		return "aptx"
	case CodecAptXHD:
		return "aptx-hd"
	case CodecLDAC:
		return "ldac"
	case CodecFastStream:
		return "faststream"
	case CodecCVSD:
		return "cvsd"
	case CodecMSBC:
		return "msbc"
	default:
		return "undefined"
	}
}

// Type is the tagged (profile, codec) pair identifying a Transport's link.
type Type struct {
	Profile Profile
	CodecID CodecID
}

func (t Type) String() string {
	return fmt.Sprintf("%s/%s", t.Profile, t.CodecID)
}

// Format is a PCM sample encoding.
type Format int

const (
	FormatUnspecified Format = iota
	FormatS16_2LE
	FormatS24_4LE
	FormatS32_4LE
)

func (f Format) String() string {
	switch f {
	case FormatS16_2LE:
		return "S16_2LE"
	case FormatS24_4LE:
		return "S24_4LE"
	case FormatS32_4LE:
		return "S32_4LE"
	default:
		return "unspecified"
	}
}

// Mode is the direction of a PCM endpoint from the daemon's perspective.
type Mode int

const (
	ModeSource Mode = iota
	ModeSink
)

func (m Mode) String() string {
	if m == ModeSink {
		return "sink"
	}
	return "source"
}

// State is the A2DP transport state machine's current state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateActive
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	default:
		return "idle"
	}
}

// SignalKind is a control signal delivered to a worker goroutine's control
// channel. A bounded queue integrated with the worker's select loop gives
// ordered delivery to a goroutine that may be busy doing codec IO when the
// signal is sent; the sender blocks only while that queue is full.
type SignalKind int

const (
	SignalPing SignalKind = iota
	SignalPCMOpen
	SignalPCMClose
	SignalPCMPause
	SignalPCMResume
	SignalPCMSync
	SignalPCMDrop
	SignalHFPSetCodecCVSD
	SignalHFPSetCodecMSBC
)

func (s SignalKind) String() string {
	switch s {
	case SignalPing:
		return "ping"
	case SignalPCMOpen:
		return "pcm_open"
	case SignalPCMClose:
		return "pcm_close"
	case SignalPCMPause:
		return "pcm_pause"
	case SignalPCMResume:
		return "pcm_resume"
	case SignalPCMSync:
		return "pcm_sync"
	case SignalPCMDrop:
		return "pcm_drop"
	case SignalHFPSetCodecCVSD:
		return "hfp_set_codec_cvsd"
	case SignalHFPSetCodecMSBC:
		return "hfp_set_codec_msbc"
	default:
		return "unknown"
	}
}
