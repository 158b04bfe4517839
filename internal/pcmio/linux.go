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

//go:build linux

package pcmio

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SetNonblocking marks fd non-blocking, as the worker goroutine's select
// loop expects to be able to poll it alongside its control channel.
func SetNonblocking(fd int) error {
	return unix.SetNonblock(fd, true)
}

// ReadRetry reads into buf, retrying when the read is interrupted by a
// signal rather than surfacing EINTR to the caller.
func ReadRetry(fd int, buf []byte) (int, error) {
	for {
		n, err := unix.Read(fd, buf)
		if err == syscall.EINTR {
			continue
		}
		return n, err
	}
}

// WriteRetry writes buf to fd, retrying on EINTR.
func WriteRetry(fd int, buf []byte) (int, error) {
	for {
		n, err := unix.Write(fd, buf)
		if err == syscall.EINTR {
			continue
		}
		return n, err
	}
}
