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

// Package rfcomm carries the hands-free AT command channel associated with
// a SCO transport. The transport core only needs to send a handful of
// control signals over an already-established session and wait for
// codec-selection to complete; the AT protocol itself lives elsewhere.
package rfcomm

import "sync"

// Signal is one control message sent to an RFCOMM session.
type Signal int

const (
	// SignalSetCodecCVSD asks the peer to switch the active codec to CVSD.
	SignalSetCodecCVSD Signal = iota
	// SignalSetCodecMSBC asks the peer to switch the active codec to mSBC.
	SignalSetCodecMSBC
	// SignalUpdateVolume asks the peer to mirror the local gain setting,
	// used instead of a mediator property for profiles with no D-Bus
	// Volume property (HSP/HFP speaker gain is AT+VGS/AT+VGM over RFCOMM).
	SignalUpdateVolume
)

// Session is the RFCOMM collaborator contract consumed by a SCO transport.
type Session interface {
	// Send enqueues a control signal for delivery to the peer.
	Send(sig Signal) error
	// Close tears down the RFCOMM session.
	Close() error
	// CodecSelectionRendezvous returns the mutex/condition-variable pair a
	// codec switch waits on: the session signals it after it observes (or
	// times out waiting for) the peer's codec acknowledgement.
	CodecSelectionRendezvous() (*sync.Mutex, *sync.Cond)
}
