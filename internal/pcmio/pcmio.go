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

// Package pcmio carries the non-blocking fd plumbing a PCM endpoint's
// worker goroutine needs around its stream descriptor: marking it
// non-blocking at open time and retrying reads and writes an interrupted
// system call drops. Codec IO itself lives elsewhere; this package only
// provides the fd hygiene around it.
package pcmio

import "errors"

// ErrShortRead is returned by ReadFull if fewer than len(buf) bytes were
// read and the underlying reader reports no further error.
var ErrShortRead = errors.New("pcmio: short read")

// ReadFull reads exactly len(buf) bytes from fd via ReadRetry, the shape a
// fixed-size PCM frame read needs. It returns ErrShortRead if fd reaches
// EOF (a zero-length read with no error) before buf is full.
func ReadFull(fd int, buf []byte) error {
	for read := 0; read < len(buf); {
		n, err := ReadRetry(fd, buf[read:])
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrShortRead
		}
		read += n
	}
	return nil
}
