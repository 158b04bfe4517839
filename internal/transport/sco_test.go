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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/USA-RedDragon/btaudiod/internal/hci"
	"github.com/USA-RedDragon/btaudiod/internal/registrar"
	"github.com/USA-RedDragon/btaudiod/internal/rfcomm"
)

// Scenario 4: SCO codec switch happy path.
func TestSCO_CodecSwitchHappyPath(t *testing.T) {
	dev := testDevice()
	ctrl := hci.NewMock()
	sess := rfcomm.NewMock()

	tr, err := NewSCO(dev, ":1.1", "/org/bt/hci0/dev_AA/hfpag", ProfileHFPAG, sess, ctrl, registrar.Noop{})
	require.NoError(t, err)
	require.NoError(t, tr.Acquire(context.Background()))
	require.NotEqual(t, -1, tr.BTFD())

	sess.OnAck = func(rfcomm.Signal) { tr.ConfirmCodec(CodecMSBC) }

	require.NoError(t, tr.SelectCodecSCO(context.Background(), CodecMSBC))
	assert.Equal(t, CodecMSBC, tr.typeSnapshot().CodecID)
	require.Len(t, sess.Sent, 1)
	assert.Equal(t, rfcomm.SignalSetCodecMSBC, sess.Sent[0])
	assert.Equal(t, -1, tr.BTFD(), "socket must be released across the renegotiation")

	require.NoError(t, tr.Acquire(context.Background()))
	assert.Equal(t, hci.VoiceSettingTransparent, ctrl.VoiceFor(tr.BTFD()))
}

// Scenario 5: SCO codec switch failure.
func TestSCO_CodecSwitchFailure(t *testing.T) {
	dev := testDevice()
	ctrl := hci.NewMock()
	sess := rfcomm.NewMock()
	// peer never confirms the switch; type.codec stays CVSD.

	tr, err := NewSCO(dev, ":1.1", "/org/bt/hci0/dev_AA/hfpag", ProfileHFPAG, sess, ctrl, registrar.Noop{})
	require.NoError(t, err)
	require.NoError(t, tr.Acquire(context.Background()))

	err = tr.SelectCodecSCO(context.Background(), CodecMSBC)
	require.Error(t, err)
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindIO, tErr.Kind)

	// left in a releasable state: no dangling locks.
	require.NoError(t, tr.Release(context.Background()))
}

func TestSCO_HSPCodecSwitchUnsupported(t *testing.T) {
	dev := testDevice()
	ctrl := hci.NewMock()
	sess := rfcomm.NewMock()

	tr, err := NewSCO(dev, ":1.1", "/org/bt/hci0/dev_AA/hspag", ProfileHSPAG, sess, ctrl, registrar.Noop{})
	require.NoError(t, err)

	err = tr.SelectCodecSCO(context.Background(), CodecMSBC)
	require.Error(t, err)
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindNotSupported, tErr.Kind)
}
