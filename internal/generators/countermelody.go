// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// unisonGuardBeats is the minimum beat separation counter-melody notes
// must keep from a simultaneous lead note, expressed as a beats-equivalent
// of 100ms at 120 BPM; generators work in beats, not wall time, so this is
// applied as a direct beat offset rather than derived from the section's
// actual tempo.
const unisonGuardBeats = 0.2

// CounterMelody mirrors the lead motif for the same section via inversion
// or retrograde, nudging away from any lead note it would otherwise land
// on in unison.
func CounterMelody(ctx Context) []model.Note {
	lead := ctx.SectionTracks[model.TrackLead]
	if len(lead) == 0 {
		return nil
	}
	eng := ctx.Engine
	root, scale := ctx.root(), ctx.scale()

	useInversion := eng.Bernoulli(0.5)
	velLo, velHi := velocityRange(ctx.Section.EnergyLevel * 0.85)

	notes := make([]model.Note, 0, len(lead))
	if useInversion {
		axis := ctx.pitchCenter()
		for _, n := range lead {
			p := snapToScale(2*axis-n.Pitch, root, scale)
			notes = append(notes, avoidUnison(model.Note{
				Pitch: p, StartTime: n.StartTime, Duration: n.Duration,
				Velocity: eng.IntRange(velLo, velHi),
			}, lead))
		}
		return notes
	}

	// Retrograde: same pitches, time-reversed within the section.
	totalBeats := float64(ctx.bars() * ctx.beatsPerBar())
	for i := len(lead) - 1; i >= 0; i-- {
		n := lead[i]
		start := totalBeats - n.StartTime - n.Duration
		if start < 0 {
			start = 0
		}
		notes = append(notes, avoidUnison(model.Note{
			Pitch: n.Pitch, StartTime: start, Duration: n.Duration,
			Velocity: eng.IntRange(velLo, velHi),
		}, lead))
	}
	return notes
}

func avoidUnison(n model.Note, lead []model.Note) model.Note {
	for _, l := range lead {
		if l.Pitch == n.Pitch && absFloat(l.StartTime-n.StartTime) < unisonGuardBeats {
			n.Pitch = theory.NearestInRange(n.Pitch+3, n.Pitch-7, n.Pitch+7)
			break
		}
	}
	return n
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
