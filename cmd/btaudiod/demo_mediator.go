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
	"os"

	"github.com/USA-RedDragon/btaudiod/internal/mediator"
)

// demoMediator is a logging-only Mediator standing in for the real
// out-of-process Bluetooth service so the transport core's lifecycle can be
// driven end to end from this binary without a real controller. Acquire
// hands back one half of a pipe, since the core closes whatever fd it gets
// back on release.
type demoMediator struct {
	log *slog.Logger
}

func newDemoMediator(log *slog.Logger) *demoMediator {
	return &demoMediator{log: log}
}

func (m *demoMediator) open(owner, path string) (mediator.AcquireReply, error) {
	r, _, err := os.Pipe()
	if err != nil {
		return mediator.AcquireReply{}, err
	}
	m.log.Info("mediator acquire", "owner", owner, "path", path, "fd", r.Fd())
	return mediator.AcquireReply{FD: r.Fd(), MTURead: 672, MTUWrite: 672}, nil
}

func (m *demoMediator) Acquire(_ context.Context, owner, path string) (mediator.AcquireReply, error) {
	return m.open(owner, path)
}

func (m *demoMediator) TryAcquire(_ context.Context, owner, path string) (mediator.AcquireReply, error) {
	return m.open(owner, path)
}

func (m *demoMediator) Release(_ context.Context, owner, path string) error {
	m.log.Info("mediator release", "owner", owner, "path", path)
	return nil
}

func (m *demoMediator) SetConfiguration(_ context.Context, owner, path string, configuration []byte) error {
	m.log.Info("mediator set-configuration", "owner", owner, "path", path, "bytes", len(configuration))
	return nil
}

func (m *demoMediator) SetVolume(_ context.Context, owner, path string, value uint16) error {
	m.log.Info("mediator set-volume", "owner", owner, "path", path, "value", value)
	return nil
}
