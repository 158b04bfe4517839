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

package hci

import (
	"context"
	"sync"
	"sync/atomic"
)

// Mock is an in-memory Controller for tests and the demo CLI. It never
// touches a real socket; MTU and error behavior are configurable.
type Mock struct {
	mu       sync.Mutex
	nextFD   atomic.Int32
	MTUValue uint16
	OpenErr  error
	ConnErr  error
	Voices   map[int]VoiceSetting
}

// NewMock returns a Mock with a reasonable default SCO MTU.
func NewMock() *Mock {
	return &Mock{MTUValue: 48, Voices: make(map[int]VoiceSetting)}
}

func (m *Mock) Open(_ context.Context, _ int) (int, error) {
	if m.OpenErr != nil {
		return -1, m.OpenErr
	}
	return int(m.nextFD.Add(1)) + 99, nil
}

func (m *Mock) Connect(_ context.Context, fd int, _ Address, voice VoiceSetting) error {
	if m.ConnErr != nil {
		return m.ConnErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Voices[fd] = voice
	return nil
}

func (m *Mock) MTU(int) (uint16, error) {
	return m.MTUValue, nil
}

func (m *Mock) Close(int) error {
	return nil
}

// VoiceFor returns the voice setting passed to the most recent Connect on fd.
func (m *Mock) VoiceFor(fd int) VoiceSetting {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Voices[fd]
}
