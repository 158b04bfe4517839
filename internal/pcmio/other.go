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

//go:build !linux

package pcmio

// SetNonblocking is a no-op off Linux; the transport core's tests and demo
// CLI run against mock fds that never touch a real socket.
func SetNonblocking(int) error { return nil }

// ReadRetry is unsupported off Linux.
func ReadRetry(int, []byte) (int, error) { return 0, nil }

// WriteRetry is unsupported off Linux.
func WriteRetry(int, []byte) (int, error) { return 0, nil }
