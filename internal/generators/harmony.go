// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// Harmony cycles through the genre's chord-degree progression, one degree
// per bar and repeating as often as the section's length needs, voice-led
// from the previous section's chord, sustaining each chord for its bar by
// default and breaking into arpeggiated eighths when density is high.
func Harmony(ctx Context) []model.Note {
	genre := knowledge.Genre(ctx.Intent.Genre)
	degrees := genre.ChordDegrees
	if len(degrees) == 0 {
		degrees = []int{1, 4, 5, 1}
	}
	root, scale := ctx.root(), ctx.scale()
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()

	velLo, velHi := velocityRange(ctx.Section.EnergyLevel)
	eng := ctx.Engine

	var notes []model.Note
	prev := ctx.PrevChordVoicing
	for bar := 0; bar < bars; bar++ {
		degree := degrees[bar%len(degrees)]
		chord := theory.ChordFromDegree(root, scale, degree, theory.Triad)
		voiced := theory.VoiceLead(prev, chord, root, scale)
		prev = voiced
		start := float64(bar * bpb)

		if ctx.Section.DensityLevel > 0.75 {
			// Arpeggiate the voicing across the bar in eighths.
			step := 0.5
			i := 0
			for t := start; t < start+float64(bpb); t += step {
				p := voiced[i%len(voiced)]
				notes = append(notes, model.Note{
					Pitch: p, StartTime: t, Duration: step,
					Velocity: eng.IntRange(velLo, velHi),
				})
				i++
			}
			continue
		}

		for _, p := range voiced {
			notes = append(notes, model.Note{
				Pitch: p, StartTime: start, Duration: float64(bpb),
				Velocity: eng.IntRange(velLo, velHi),
			})
		}
	}
	return notes
}

// LastChord extracts the pitches of the trailing notes that share the last
// start time in a harmony track's notes, in generation order, for the
// orchestrator to carry forward as the next section's PrevChordVoicing. For
// a sustained bar that is the whole chord; for an arpeggiated bar it is
// only the final eighth's single pitch.
func LastChord(notes []model.Note) []int {
	if len(notes) == 0 {
		return nil
	}
	lastStart := notes[len(notes)-1].StartTime
	var out []int
	for i := len(notes) - 1; i >= 0 && notes[i].StartTime == lastStart; i-- {
		out = append([]int{notes[i].Pitch}, out...)
	}
	return out
}
