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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/USA-RedDragon/btaudiod/internal/registrar"
)

func testDevice() *Device {
	adapter := NewAdapter(0, true)
	return adapter.Device("AA:BB:CC:DD:EE:FF")
}

// Scenario 1: keep-alive acquire.
func TestA2DP_KeepAliveAcquire(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{MTUWrite: 679}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSink, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)

	require.NoError(t, tr.SetState(context.Background(), StatePending))
	assert.EqualValues(t, 1, med.TryAcquireCalls.Load())
	assert.NotEqual(t, -1, tr.BTFD())
	assert.EqualValues(t, 679, tr.MTUWrite)

	require.NoError(t, tr.Acquire(context.Background()))
	assert.EqualValues(t, 0, med.AcquireCalls.Load(), "keep-alive must not issue a fresh RPC")
}

// Scenario 2: unref freeing.
func TestTransport_UnrefFreeing(t *testing.T) {
	dev := testDevice()
	path := "/org/bt/hci0/dev_AA/sep1"
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", path, ProfileA2DPSource, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.RefCount())

	looked := dev.Lookup(path)
	require.NotNil(t, looked)
	assert.Equal(t, 2, tr.RefCount())

	dev.Unref(tr)
	assert.Equal(t, 1, tr.RefCount())

	dev.Unref(tr)
	assert.Nil(t, dev.Lookup(path))
}

// Scenario 3: destroy under load.
func TestTransport_DestroyUnderLoad(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSource, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)
	require.NoError(t, tr.Acquire(context.Background()))

	closed := make(chan struct{})
	tr.EncodeRoutine = func(ctx context.Context, signals <-chan SignalKind, ready func()) {
		ready()
		tr.PCM().Open(1234)
		<-ctx.Done()
		tr.PCM().release()
		close(closed)
	}
	require.NoError(t, tr.Start())

	require.NoError(t, tr.Destroy(context.Background()))

	select {
	case <-closed:
	default:
		t.Fatal("encoder cleanup must have run before Destroy returned")
	}
	assert.Equal(t, -1, tr.PCM().FD())
	assert.Equal(t, -1, tr.BTFD())
	assert.Equal(t, 0, dev.Count())
}

// Scenario 6: volume round-trip, A2DP.
func TestVolume_RoundTripA2DP(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSource, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)

	p := tr.PCM()
	p.MaxBTVolume = MaxBTVolumeA2DP
	p.Volume[0] = ChannelVolume{Level: 5000}
	p.Volume[1] = ChannelVolume{Level: 5000}

	tr.volumeUpdate(context.Background(), p)
	require.Len(t, med.SetVolumeCalls, 1)
	bt := int(med.SetVolumeCalls[0])

	level := BTToLevel(bt, MaxBTVolumeA2DP)
	assert.InDelta(t, 5000, level, 100)

	p.Volume[0].Muted = true
	tr.volumeUpdate(context.Background(), p)
	require.Len(t, med.SetVolumeCalls, 2)
	assert.EqualValues(t, 0, med.SetVolumeCalls[1])
}

func TestVolume_RoundTripProperty(t *testing.T) {
	for _, max := range []int{MaxBTVolumeSCO, MaxBTVolumeA2DP} {
		prevLevel := minLevel
		for bt := 0; bt <= max; bt++ {
			level := BTToLevel(bt, max)
			assert.GreaterOrEqual(t, level, prevLevel, "BTToLevel must be monotonic")
			prevLevel = level

			roundTripped := LevelToBT(level, max)
			assert.LessOrEqual(t, abs(roundTripped-bt), 1)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Scenario 7: drain blocks then returns.
func TestPCM_Drain(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSource, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)

	p := tr.PCM()
	tr.EncodeRoutine = func(ctx context.Context, signals <-chan SignalKind, ready func()) {
		ready()
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-signals:
				if sig == SignalPCMSync {
					p.signalSynced()
				}
			}
		}
	}
	require.NoError(t, tr.Start())
	defer tr.Stop()

	start := time.Now()
	require.NoError(t, p.Drain())
	assert.GreaterOrEqual(t, time.Since(start), drainSleep)

	// repeated call returns again without deadlock.
	require.NoError(t, p.Drain())
}

func TestPCM_DrainNoThread(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSource, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)

	err = tr.PCM().Drain()
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindNoThread, tErr.Kind)
}

func TestPCMPath(t *testing.T) {
	dev := testDevice()
	med := &mockMediator{}
	tr, err := NewA2DP(dev, ":1.1", "/org/bt/hci0/dev_AA/sep1", ProfileA2DPSink, CodecDescriptor{ID: CodecSBC}, nil, med, registrar.Noop{})
	require.NoError(t, err)
	assert.Equal(t, "/org/bt/hci0/dev_AA/sep1/a2dpsnk/sink", tr.PCM().Path())
}
