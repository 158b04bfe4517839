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

package config_test

import (
	"errors"
	"testing"

	"github.com/USA-RedDragon/btaudiod/internal/config"
)

func makeValidConfig() config.Config {
	return config.Config{
		LogLevel: config.LogLevelInfo,
		Adapter: config.Adapter{
			HCIDeviceID: 0,
			Address:     "00:11:22:33:44:55",
		},
	}
}

func TestConfigValidateValid(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestConfigValidateInvalidLogLevel(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	c.LogLevel = "invalid"
	if !errors.Is(c.Validate(), config.ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", c.Validate())
	}
}

func TestConfigValidateAllLogLevels(t *testing.T) {
	t.Parallel()
	levels := []config.LogLevel{config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError}
	for _, level := range levels {
		level := level
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()
			c := makeValidConfig()
			c.LogLevel = level
			if err := c.Validate(); err != nil {
				t.Errorf("expected nil error for level %q, got %v", level, err)
			}
		})
	}
}

func TestAdapterValidateNegativeDeviceID(t *testing.T) {
	t.Parallel()
	a := config.Adapter{HCIDeviceID: -1}
	if !errors.Is(a.Validate(), config.ErrInvalidAdapterDeviceID) {
		t.Errorf("expected ErrInvalidAdapterDeviceID, got %v", a.Validate())
	}
}

func TestMetricsValidateDisabled(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: false}
	if err := m.Validate(); err != nil {
		t.Errorf("expected nil error for disabled metrics, got %v", err)
	}
}

func TestMetricsValidateMissingBind(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: true, Bind: "", Port: 9000}
	if !errors.Is(m.Validate(), config.ErrInvalidMetricsBindAddress) {
		t.Errorf("expected ErrInvalidMetricsBindAddress, got %v", m.Validate())
	}
}

func TestMetricsValidateInvalidPort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too large", 70000},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := config.Metrics{Enabled: true, Bind: "[::]", Port: tt.port}
			if !errors.Is(m.Validate(), config.ErrInvalidMetricsPort) {
				t.Errorf("expected ErrInvalidMetricsPort, got %v", m.Validate())
			}
		})
	}
}
