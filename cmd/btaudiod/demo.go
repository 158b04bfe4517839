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

package main

import (
	"context"
	"log/slog"

	"github.com/USA-RedDragon/btaudiod/internal/config"
	"github.com/USA-RedDragon/btaudiod/internal/hci"
	"github.com/USA-RedDragon/btaudiod/internal/metrics"
	"github.com/USA-RedDragon/btaudiod/internal/registrar"
	"github.com/USA-RedDragon/btaudiod/internal/rfcomm"
	"github.com/USA-RedDragon/btaudiod/internal/transport"
)

// sbcDescriptor is a fixed-layout stand-in for a real SBC capability
// decoder: byte 0 carries channel count, byte 1 the sampling rate index.
var sbcDescriptor = transport.CodecDescriptor{
	ID:               transport.CodecSBC,
	CapabilitiesSize: 4,
	Channels: func(configuration []byte) int {
		if len(configuration) > 0 {
			return int(configuration[0])
		}
		return 2
	},
	SamplingRate: func(configuration []byte) int {
		if len(configuration) > 1 && configuration[1] == 1 {
			return 48000
		}
		return 44100
	},
}

// runDemo wires one Adapter against in-memory mediator/HCI/RFCOMM
// collaborators and drives an A2DP and a SCO transport through their full
// acquire/start/stop/destroy lifecycle, so the transport core can be
// exercised end to end from a running binary without real Bluetooth
// hardware.
func runDemo(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	adapter := transport.NewAdapter(cfg.Adapter.HCIDeviceID, true)
	device := adapter.Device("AA:BB:CC:DD:EE:FF")

	med := newDemoMediator(log)
	reg := registrar.Noop{}
	met := metrics.New()

	a2dp, err := transport.NewA2DP(device, "demo.a2dp", "/demo/a2dp0", transport.ProfileA2DPSource, sbcDescriptor, []byte{2, 1}, med, reg)
	if err != nil {
		return err
	}
	a2dp.DelayObserver = met
	log.Info("a2dp transport created", "path", a2dp.Path, "type", a2dp.Type())

	if err := a2dp.Acquire(ctx); err != nil {
		log.Warn("a2dp acquire failed", "error", err)
	}
	if err := a2dp.SetState(ctx, transport.StatePending); err != nil {
		log.Warn("a2dp set-state pending failed", "error", err)
	}
	if err := a2dp.SetState(ctx, transport.StateActive); err != nil {
		log.Warn("a2dp set-state active failed", "error", err)
	}
	if err := a2dp.PCM().Drain(); err != nil {
		log.Warn("a2dp pcm drain failed", "error", err)
	}
	if err := a2dp.SetState(ctx, transport.StateIdle); err != nil {
		log.Warn("a2dp set-state idle failed", "error", err)
	}
	if err := a2dp.Destroy(ctx); err != nil {
		log.Warn("a2dp destroy failed", "error", err)
	}

	session := rfcomm.NewMock()
	ctrl := hci.NewMock()
	sco, err := transport.NewSCO(device, "demo.sco", "/demo/sco0", transport.ProfileHFPHF, session, ctrl, reg)
	if err != nil {
		return err
	}
	log.Info("sco transport created", "path", sco.Path, "type", sco.Type())

	if err := sco.Acquire(ctx); err != nil {
		log.Warn("sco acquire failed", "error", err)
	}
	if err := sco.Start(); err != nil {
		log.Warn("sco start failed", "error", err)
	}
	if err := sco.SelectCodecSCO(ctx, transport.CodecMSBC); err != nil {
		log.Warn("sco codec switch failed", "error", err)
	}
	if err := sco.Destroy(ctx); err != nil {
		log.Warn("sco destroy failed", "error", err)
	}

	adapter.RemoveDevice(device.Address)
	return nil
}
