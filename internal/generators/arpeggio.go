// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// Arpeggio cycles the current chord's pitches up, down, or up-down at a
// subdivision set by section density, shifting up an octave on bar
// boundaries for variety.
func Arpeggio(ctx Context) []model.Note {
	harmony := ctx.SectionTracks[model.TrackHarmony]
	root, scale := ctx.root(), ctx.scale()
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()
	eng := ctx.Engine
	velLo, velHi := velocityRange(ctx.Section.EnergyLevel)

	step := 0.5
	if ctx.Section.DensityLevel > 0.7 {
		step = 0.25
	} else if ctx.Section.DensityLevel < 0.4 {
		step = 1.0
	}
	direction := eng.IntRange(0, 2) // 0=up, 1=down, 2=up-down

	var notes []model.Note
	for bar := 0; bar < bars; bar++ {
		start := float64(bar * bpb)
		chord := chordForBar(harmony, bar, bpb, root, scale)
		if len(chord) == 0 {
			continue
		}
		if bar%2 == 1 {
			for i := range chord {
				chord[i] += 12
			}
		}
		seq := sequenceFor(chord, direction)
		i := 0
		for t := start; t < start+float64(bpb); t += step {
			notes = append(notes, model.Note{
				Pitch: seq[i%len(seq)], StartTime: t, Duration: step,
				Velocity: eng.IntRange(velLo, velHi),
			})
			i++
		}
	}
	return notes
}

func chordForBar(harmony []model.Note, bar, bpb, root int, scale theory.ScaleName) []int {
	barStart := float64(bar * bpb)
	seen := make(map[int]bool)
	var out []int
	for _, n := range harmony {
		if n.StartTime >= barStart && n.StartTime < barStart+float64(bpb) && !seen[n.Pitch] {
			seen[n.Pitch] = true
			out = append(out, n.Pitch)
		}
	}
	if len(out) == 0 {
		out = theory.ChordFromDegree(root, scale, 1, theory.Triad)
	}
	return out
}

func sequenceFor(chord []int, direction int) []int {
	switch direction {
	case 1:
		out := make([]int, len(chord))
		for i, p := range chord {
			out[len(chord)-1-i] = p
		}
		return out
	case 2:
		out := append([]int{}, chord...)
		for i := len(chord) - 2; i >= 0; i-- {
			out = append(out, chord[i])
		}
		return out
	default:
		return chord
	}
}
