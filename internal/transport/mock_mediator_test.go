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
	"os"
	"sync"
	"sync/atomic"

	"github.com/USA-RedDragon/btaudiod/internal/mediator"
)

// mockMediator backs Acquire/TryAcquire with a real os.Pipe() fd so
// release's closeBTFD(fd) call is safe to actually run.
type mockMediator struct {
	mu sync.Mutex

	AcquireCalls    atomic.Int32
	TryAcquireCalls atomic.Int32
	ReleaseCalls    atomic.Int32
	ReleaseErr      error
	MTUWrite        uint16
	SetVolumeCalls  []uint16
}

func (m *mockMediator) Acquire(_ context.Context, _, _ string) (mediator.AcquireReply, error) {
	m.AcquireCalls.Add(1)
	return m.open()
}

func (m *mockMediator) TryAcquire(_ context.Context, _, _ string) (mediator.AcquireReply, error) {
	m.TryAcquireCalls.Add(1)
	return m.open()
}

func (m *mockMediator) open() (mediator.AcquireReply, error) {
	r, _, err := os.Pipe()
	if err != nil {
		return mediator.AcquireReply{}, err
	}
	mtuWrite := m.MTUWrite
	if mtuWrite == 0 {
		mtuWrite = 679
	}
	return mediator.AcquireReply{FD: r.Fd(), MTURead: 679, MTUWrite: mtuWrite}, nil
}

func (m *mockMediator) Release(_ context.Context, _, _ string) error {
	m.ReleaseCalls.Add(1)
	return m.ReleaseErr
}

func (m *mockMediator) SetConfiguration(_ context.Context, _, _ string, _ []byte) error {
	return nil
}

func (m *mockMediator) SetVolume(_ context.Context, _, _ string, value uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetVolumeCalls = append(m.SetVolumeCalls, value)
	return nil
}
