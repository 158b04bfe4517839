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

import "context"

// ThreadRoutine is the signature every codec IO worker conforms to. Codec
// compression/decompression itself lives outside this package; the package
// only carries this type and the goroutine lifecycle around it. A routine
// must call ready() once its own startup (opening descriptors, allocating
// buffers) is done, then loop selecting on ctx.Done() and signals until
// cancelled. Returning — for any reason, including ctx cancellation — hands
// control to the ThreadHandle's cleanup hook.
type ThreadRoutine func(ctx context.Context, signals <-chan SignalKind, ready func())

// CodecDescriptor carries a codec's capability size and the lookup
// functions used to decode an opaque A2DP configuration blob into PCM
// parameters. Concrete codec descriptors (SBC, AAC, aptX, aptX-HD, LDAC,
// FastStream) live outside this package; only the shape is defined here.
// Tests and the demo CLI supply a descriptor that decodes a fixed-layout
// blob.
type CodecDescriptor struct {
	ID               CodecID
	CapabilitiesSize int
	Format           func(configuration []byte) Format
	Channels         func(configuration []byte) int
	SamplingRate     func(configuration []byte) int
}

// defaultThreadRoutine is a no-op worker used when a caller doesn't supply
// a real codec IO routine (tests, the demo CLI): it becomes ready
// immediately and idles until cancelled.
func defaultThreadRoutine(ctx context.Context, signals <-chan SignalKind, ready func()) {
	ready()
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
		}
	}
}
