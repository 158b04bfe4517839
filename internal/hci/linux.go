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

//go:build linux

package hci

import (
	"context"
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sockaddrSCO mirrors struct sockaddr_sco from <bluetooth/sco.h>. x/sys/unix
// has no typed Sockaddr for BTPROTO_SCO, so the bind/connect calls below
// build the raw bytes themselves, the same way a raw HCI ioctl request is
// built by hand in user-channel socket code.
type sockaddrSCO struct {
	family uint16
	addr   Address
}

func (s sockaddrSCO) bytes() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], s.family)
	copy(buf[2:8], s.addr[:])
	return buf
}

// scoOptions mirrors struct sco_options from <bluetooth/sco.h>, the
// getsockopt payload that reports the negotiated MTU.
type scoOptions struct {
	mtu uint16
}

const (
	solSCO    = 17
	scoptions = 1
)

// LinuxController is the real HCI collaborator on Linux, backed by raw
// AF_BLUETOOTH/BTPROTO_SCO sockets.
type LinuxController struct{}

// NewLinuxController returns the production hci.Controller.
func NewLinuxController() *LinuxController { return &LinuxController{} }

// Open creates a SCO socket bound to the wildcard local address. adapterID
// does not select a controller here; it only appears in the bind error
// message, and the kernel picks the local controller at Connect time.
func (c *LinuxController) Open(_ context.Context, adapterID int) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_SCO)
	if err != nil {
		return -1, fmt.Errorf("open SCO socket: %w", err)
	}

	local := sockaddrSCO{family: unix.AF_BLUETOOTH}
	if err := bind(fd, local.bytes()); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("bind adapter %d: %w", adapterID, err)
	}
	return fd, nil
}

func (c *LinuxController) Connect(_ context.Context, fd int, addr Address, voice VoiceSetting) error {
	const solBluetooth = 274
	const btSetVoice = 11
	if err := unix.SetsockoptInt(fd, solBluetooth, btSetVoice, int(voice)); err != nil {
		return fmt.Errorf("set voice setting: %w", err)
	}

	remote := sockaddrSCO{family: unix.AF_BLUETOOTH, addr: addr}
	if err := connect(fd, remote.bytes()); err != nil {
		return fmt.Errorf("connect SCO socket: %w", err)
	}
	return nil
}

func (c *LinuxController) MTU(fd int) (uint16, error) {
	buf := make([]byte, 4)
	n := uint32(len(buf))
	_, _, errno := unix.Syscall6(unix.SYS_GETSOCKOPT, uintptr(fd), uintptr(solSCO), uintptr(scoptions),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&n)), 0)
	if errno != 0 {
		return 0, fmt.Errorf("getsockopt SCO_OPTIONS: %w", errno)
	}
	opts := scoOptions{mtu: binary.LittleEndian.Uint16(buf[0:2])}
	return opts.mtu, nil
}

func (c *LinuxController) Close(fd int) error {
	return unix.Close(fd)
}

func bind(fd int, addr []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(&addr[0])), uintptr(len(addr)))
	if errno != 0 {
		return errno
	}
	return nil
}

func connect(fd int, addr []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_CONNECT, uintptr(fd), uintptr(unsafe.Pointer(&addr[0])), uintptr(len(addr)))
	if errno != 0 {
		return errno
	}
	return nil
}
