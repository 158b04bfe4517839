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

package transport

import "golang.org/x/sys/unix"

// shrinkSendBuffer sets SO_SNDBUF to 3x the negotiated write MTU, trading a
// little tolerance for brief write stalls for a much shorter play-out
// latency than the kernel default buffer would allow. Best-effort: acquire
// already succeeded, a sockopt failure here shouldn't fail the whole
// operation.
func shrinkSendBuffer(fd uintptr, mtuWrite uint16) {
	if mtuWrite == 0 {
		return
	}
	_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, 3*int(mtuWrite))
}

// closeBTFD closes the remote-side socket.
func closeBTFD(fd int) {
	_ = unix.Close(fd)
}

// closePCMFD closes a client-side PCM stream descriptor.
func closePCMFD(fd int) {
	_ = unix.Close(fd)
}

// outqDepth reads the kernel's current output-queue depth for fd via
// TIOCOUTQ: the number of bytes still sitting in the socket's send buffer,
// unsent. Best-effort, like shrinkSendBuffer; a failed read just leaves the
// baseline at zero.
func outqDepth(fd uintptr) int {
	n, err := unix.IoctlGetInt(int(fd), unix.TIOCOUTQ)
	if err != nil {
		return 0
	}
	return n
}
