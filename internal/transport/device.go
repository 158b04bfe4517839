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
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Device is a remote Bluetooth peer. It owns a mapping from mediator object
// path to Transport and the transportsMu mutex guarding that mapping
// together with every Transport's reference count beneath it.
//
// The map itself is an xsync.Map. Lookup, Ref, Unref and insert all take
// transportsMu, which is what makes "decrement ref count" and "remove from
// map" atomic, so a transport can never be resurrected mid-teardown; only
// Count reads the map without that mutex.
type Device struct {
	Adapter *Adapter
	Address string

	transportsMu sync.Mutex
	transports   *xsync.Map[string, *Transport]
}

func newDevice(a *Adapter, address string) *Device {
	return &Device{
		Adapter:    a,
		Address:    address,
		transports: xsync.NewMap[string, *Transport](),
	}
}

// Lookup returns the Transport at path with its reference count already
// incremented, or nil if absent.
func (d *Device) Lookup(path string) *Transport {
	d.transportsMu.Lock()
	defer d.transportsMu.Unlock()
	t, ok := d.transports.Load(path)
	if !ok {
		return nil
	}
	t.refCount++
	return t
}

// insert adds a freshly-constructed Transport (reference count already 1)
// to the map. Only the factories in transport.go call this.
func (d *Device) insert(t *Transport) {
	d.transportsMu.Lock()
	defer d.transportsMu.Unlock()
	d.transports.Store(t.Path, t)
}

// Ref increments t's reference count under the owning Device's transportsMu.
func (d *Device) Ref(t *Transport) {
	d.transportsMu.Lock()
	defer d.transportsMu.Unlock()
	t.refCount++
}

// Unref decrements t's reference count; on reaching zero it steals t out of
// the map and tears it down outside transportsMu, so a concurrent Lookup
// can never resurrect a zero-count Transport.
func (d *Device) Unref(t *Transport) {
	d.transportsMu.Lock()
	t.refCount--
	if t.refCount > 0 {
		d.transportsMu.Unlock()
		return
	}
	d.transports.Delete(t.Path)
	d.transportsMu.Unlock()

	t.teardown()
}

// Count returns the number of Transports currently indexed by this Device,
// for metrics and tests.
func (d *Device) Count() int {
	return d.transports.Size()
}
