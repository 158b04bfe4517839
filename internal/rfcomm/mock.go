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

package rfcomm

import "sync"

// Mock is an in-memory Session for tests and the demo CLI. Codec-switch
// signals are auto-acknowledged while AutoAck is set (the default); the
// switch succeeds only if OnAck records the new codec, so tests drive the
// happy path with an OnAck that confirms it and the failure path without
// one. With AutoAck disabled nothing acknowledges the switch, and a waiting
// codec switch stays blocked until Close.
type Mock struct {
	// mu is the rendezvous mutex returned by CodecSelectionRendezvous.
	// Send deliberately does not take it: the caller sends the codec-switch
	// signal while already holding this mutex, so Send's own bookkeeping is
	// protected by sentMu instead.
	mu      sync.Mutex
	cond    *sync.Cond
	AutoAck bool
	closed  bool

	sentMu sync.Mutex
	Sent   []Signal

	// OnAck runs with the rendezvous mutex held, immediately before the
	// auto-acknowledgement broadcast, so a caller can record the
	// negotiated codec on its own model before the waiter wakes. Since
	// Send only ever runs while the core already holds the rendezvous
	// mutex, OnAck's broadcast goroutine can't acquire it until the core
	// reaches its condition wait — there is no lost-wakeup window.
	OnAck func(sig Signal)
}

// NewMock returns a Mock with AutoAck enabled.
func NewMock() *Mock {
	m := &Mock{AutoAck: true}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *Mock) Send(sig Signal) error {
	m.sentMu.Lock()
	m.Sent = append(m.Sent, sig)
	m.sentMu.Unlock()
	if m.AutoAck && (sig == SignalSetCodecCVSD || sig == SignalSetCodecMSBC) {
		go func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.OnAck != nil {
				m.OnAck(sig)
			}
			m.cond.Broadcast()
		}()
	}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	return nil
}

func (m *Mock) CodecSelectionRendezvous() (*sync.Mutex, *sync.Cond) {
	return &m.mu, m.cond
}
