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

// Package hci opens and connects raw SCO sockets against a local Bluetooth
// controller. Nothing here understands A2DP/L2CAP or the mediator's
// object-path namespace — that lives in internal/transport.
package hci

import "context"

// VoiceSetting selects the over-the-air voice encoding for a SCO link.
type VoiceSetting uint16

const (
	// VoiceSettingCVSD16Bit is the default, universally supported HSP/HFP
	// voice setting (8kHz, 16-bit CVSD samples transparently passed to the
	// controller's internal codec).
	VoiceSettingCVSD16Bit VoiceSetting = 0x0060
	// VoiceSettingTransparent passes already-encoded frames (mSBC) straight
	// through the controller without onboard CVSD conversion.
	VoiceSettingTransparent VoiceSetting = 0x0003
)

// Address is a 6-byte Bluetooth device address.
type Address [6]byte

// Controller is the kernel HCI collaborator contract consumed by a SCO
// transport's acquire/release path.
type Controller interface {
	// Open creates a SCO socket bound to the given local adapter.
	Open(ctx context.Context, adapterID int) (int, error)
	// Connect connects an already-open SCO socket to the given remote
	// address with the requested voice setting.
	Connect(ctx context.Context, fd int, addr Address, voice VoiceSetting) error
	// MTU returns the kernel-reported SCO MTU for an open, connected socket.
	MTU(fd int) (uint16, error)
	// Close closes a socket opened by Open.
	Close(fd int) error
}
