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

// Package registrar describes the public client-facing IPC surface that
// exposes PCM endpoints to applications. The transport core only calls
// Register/Unregister/Update against whatever concrete registrar the
// daemon wires in; how those calls reach clients is this package's
// business, not the core's.
package registrar

// UpdateMask enumerates what changed about a PCM endpoint.
type UpdateMask uint32

const (
	// UpdateVolume indicates the endpoint's volume state changed.
	UpdateVolume UpdateMask = 1 << iota
)

// Endpoint is the information the registrar needs about a PCM to expose
// it, intentionally narrow so internal/transport.PCM doesn't have to
// depend on this package.
type Endpoint struct {
	Path     string
	Channels int
}

// Registrar is the client-facing PCM registrar contract.
type Registrar interface {
	// Register exposes a PCM endpoint to clients. A PCM whose Channels == 0
	// is not a real endpoint and must not be passed here.
	Register(e Endpoint)
	// Unregister withdraws a previously-registered endpoint.
	Unregister(path string)
	// Update notifies observers that an already-registered endpoint changed.
	Update(path string, mask UpdateMask)
}

// Noop discards every call; it is the default when a daemon shell has no
// client-facing surface wired in yet.
type Noop struct{}

func (Noop) Register(Endpoint)         {}
func (Noop) Unregister(string)         {}
func (Noop) Update(string, UpdateMask) {}
