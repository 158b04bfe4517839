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

package config

// Config stores the application configuration for the btaudiod daemon
// shell. The transport core itself (internal/transport) takes no
// configuration of its own — it has no CLI, no config file, and no
// persistent state; everything below exists only to stand the daemon
// shell up so the core can be exercised.
type Config struct {
	LogLevel LogLevel `yaml:"log_level" env:"LOG_LEVEL"`

	// Adapter identifies which local Bluetooth controller this instance
	// drives, by HCI device id (e.g. 0 for hci0).
	Adapter Adapter `yaml:"adapter"`

	Metrics Metrics `yaml:"metrics"`
}

// Adapter configures the local controller the transport core binds to.
type Adapter struct {
	// HCIDeviceID is the numeric HCI device id, e.g. 0 for hci0.
	HCIDeviceID int `yaml:"hci_device_id" env:"ADAPTER_HCI_DEVICE_ID"`
	// Address is the local controller's Bluetooth address. Nothing in the
	// daemon reads it; in particular it is not used to select the device.
	Address string `yaml:"address" env:"ADAPTER_ADDRESS"`
}

// Metrics configures the optional Prometheus metrics server.
type Metrics struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Bind    string `yaml:"bind" env:"METRICS_BIND"`
	Port    int    `yaml:"port" env:"METRICS_PORT"`
}
