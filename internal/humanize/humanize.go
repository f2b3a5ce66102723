// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package humanize applies a post-pass of timing, velocity and duration
// perturbation to a generated track, plus a bar-boundary accent rule and
// genre swing, so mechanically regular output reads as played rather than
// sequenced.
package humanize

import (
	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/variation"
)

// sigma holds the timing/velocity jitter width for one track type.
// sigmaD (duration) is fixed per-track at 0.02 beats except where noted,
// matching the modest spread used across all types in the source table.
type sigma struct {
	t, v float64
}

var sigmas = map[model.TrackType]sigma{
	model.TrackLead:          {0.03, 8},
	model.TrackCounterMelody: {0.03, 8},
	model.TrackHarmony:       {0.02, 6},
	model.TrackBass:          {0.025, 7},
	model.TrackArpeggio:      {0.02, 8},
	model.TrackPad:           {0.05, 4},
	model.TrackFX:            {0.08, 10},
}

// drumHatVelocitySigma is the wider velocity jitter applied to hi-hat
// pitches specifically; other drum voices use drumOtherVelocitySigma.
const (
	drumTimingSigma        = 0.015
	drumHatVelocitySigma   = 10.0
	drumOtherVelocitySigma = 7.0
)

var swingGenres = map[string]bool{"jazz": true, "lofi": true}

// Apply humanizes notes in place (on a copy) for the given track type and
// genre, returning the perturbed slice.
func Apply(notes []model.Note, trackType model.TrackType, genre string, beatsPerBar int, eng *variation.Engine) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)

	s, ok := sigmas[trackType]
	swing := swingGenres[genre]

	for i := range out {
		n := out[i]
		var tSigma, vSigma float64
		if trackType == model.TrackDrums {
			tSigma = drumTimingSigma
			if isHatPitch(n.Pitch) {
				vSigma = drumHatVelocitySigma
			} else {
				vSigma = drumOtherVelocitySigma
			}
		} else if ok {
			tSigma, vSigma = s.t, s.v
		}

		n.StartTime = eng.JitterTiming(n.StartTime, tSigma)
		n.Velocity = eng.JitterVelocity(n.Velocity, vSigma)
		n.Duration = jitterDuration(eng, n.Duration)

		if onBarBoundary(n.StartTime, beatsPerBar) {
			n.Velocity = variation.ClampVelocity(int(float64(n.Velocity) * 1.2))
		}
		if swing && isOffEighth(n.StartTime) {
			n.StartTime += 0.05
		}

		out[i] = n
	}
	return out
}

func jitterDuration(eng *variation.Engine, d float64) float64 {
	d = eng.JitterTiming(d, 0.02)
	if d < 0.1 {
		d = 0.1
	}
	return d
}

// OnBarBoundary reports whether start falls within 0.1 beats of a bar
// line, the accent-rule trigger condition.
func OnBarBoundary(start float64, beatsPerBar int) bool {
	return onBarBoundary(start, beatsPerBar)
}

func onBarBoundary(start float64, beatsPerBar int) bool {
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}
	mod := modFloat(start, float64(beatsPerBar))
	return mod <= 0.1 || mod >= float64(beatsPerBar)-0.1
}

func modFloat(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	for a < 0 {
		a += b
	}
	return a
}

func isOffEighth(beat float64) bool {
	frac := beat - float64(int(beat))
	return frac >= 0.45 && frac <= 0.55
}

func isHatPitch(pitch int) bool {
	return pitch == knowledge.GMClosedHat || pitch == knowledge.GMOpenHat
}
