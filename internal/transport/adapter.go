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

import "sync"

// Adapter is a local Bluetooth controller. It owns a mapping from device
// address to Device and nothing else; it is the parent of every Device in
// the ownership tree.
type Adapter struct {
	// ID is the HCI device id this adapter represents; the SCO variant
	// passes it to hci.Controller.Open.
	ID int
	// HasESCO reports whether the controller supports extended SCO.
	HasESCO bool

	mu      sync.RWMutex
	devices map[string]*Device
}

// NewAdapter constructs an Adapter for the given local HCI device id.
func NewAdapter(id int, hasESCO bool) *Adapter {
	return &Adapter{
		ID:      id,
		HasESCO: hasESCO,
		devices: make(map[string]*Device),
	}
}

// Device returns the Device for address, creating it if absent.
func (a *Adapter) Device(address string) *Device {
	a.mu.RLock()
	d, ok := a.devices[address]
	a.mu.RUnlock()
	if ok {
		return d
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.devices[address]; ok {
		return d
	}
	d = newDevice(a, address)
	a.devices[address] = d
	return d
}

// LookupDevice returns the Device for address without creating one.
func (a *Adapter) LookupDevice(address string) (*Device, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	d, ok := a.devices[address]
	return d, ok
}

// RemoveDevice drops a Device from the adapter's map. Devices have no
// reference count of their own; callers remove one once it has no
// remaining transports.
func (a *Adapter) RemoveDevice(address string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.devices, address)
}
