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
	"math"

	"github.com/USA-RedDragon/btaudiod/internal/registrar"
	"github.com/USA-RedDragon/btaudiod/internal/rfcomm"
)

const (
	// MaxBTVolumeSCO is the top of the 4-bit gain range used on SCO links.
	MaxBTVolumeSCO = 15
	// MaxBTVolumeA2DP is the top of the 7-bit gain range used on A2DP links.
	MaxBTVolumeA2DP = 127

	minLevel = -9600
	maxLevel = 9600
)

// loudness is the monotone perceptual mapping from a normalized level in
// [-96, 96] to [0, 1]. A linear normalization is the simplest function
// that stays monotone and keeps the round trip through BTToLevel within a
// unit of the original value; a real audio collaborator could substitute a
// perceptual curve here without changing the surrounding contract.
func loudness(x float64) float64 {
	y := (x + 96) / 192
	return clipFloat(y, 0, 1)
}

// loudnessInverse is loudness's inverse over [0, 1] -> [-96, 96].
func loudnessInverse(y float64) float64 {
	return y*192 - 96
}

func clipFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clipInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LevelToBT converts a centibel level in [-9600, 9600] to a Bluetooth
// volume unit in [0, max].
func LevelToBT(level, max int) int {
	level = clipInt(level, minLevel, maxLevel)
	x := float64(level) / 100.0
	bt := int(math.Round(loudness(x) * float64(max)))
	return clipInt(bt, 0, max)
}

// BTToLevel converts a Bluetooth volume unit in [0, max] to a centibel
// level in [-9600, 9600].
func BTToLevel(bt, max int) int {
	bt = clipInt(bt, 0, max)
	y := float64(bt) / float64(max)
	x := loudnessInverse(y)
	level := int(math.Round(x * 100))
	return clipInt(level, minLevel, maxLevel)
}

// volumeUpdate skips remote propagation for a soft-volume source-side
// endpoint (it would double-attenuate), otherwise pushes the averaged,
// mute-aware level to the mediator (A2DP) or RFCOMM (SCO), then always
// notifies the client-facing registrar.
func (t *Transport) volumeUpdate(ctx context.Context, p *PCM) {
	profile := t.typeSnapshot().Profile
	sourceSide := profile == ProfileA2DPSource || profile == ProfileHFPAG || profile == ProfileHSPAG

	if !(p.SoftVolume && sourceSide) {
		switch {
		case profile.IsA2DP():
			t.pushA2DPVolume(ctx, p)
		case profile.IsSCO():
			t.pushSCOVolume(p)
		}
	}

	if t.Registrar != nil {
		t.Registrar.Update(p.Path(), registrar.UpdateVolume)
	}
}

func (t *Transport) pushA2DPVolume(ctx context.Context, p *PCM) {
	p.mu.Lock()
	c0, c1 := p.Volume[0], p.Volume[1]
	max := p.MaxBTVolume
	p.mu.Unlock()

	level := (c0.Level + c1.Level) / 2
	if c0.Muted || c1.Muted {
		level = minLevel
	}

	bt := LevelToBT(level, max)
	if c0.Muted || c1.Muted {
		bt = 0
	}

	if t.Mediator != nil {
		_ = t.Mediator.SetVolume(ctx, t.Owner, t.Path, uint16(bt))
	}
}

func (t *Transport) pushSCOVolume(p *PCM) {
	sco, ok := t.variant.(*scoVariant)
	if !ok || sco.rfcomm == nil {
		return
	}
	_ = sco.rfcomm.Send(rfcomm.SignalUpdateVolume)
}
