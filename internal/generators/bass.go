// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// Bass follows the harmony track's chord roots, one pattern per bar scaled
// by section energy: low energy plays the root on beat 1 only, medium adds
// a fifth on beat 3, high/funk syncopates with sixteenth passing tones, and
// jazz walks chromatically toward the next root.
func Bass(ctx Context) []model.Note {
	harmony := ctx.SectionTracks[model.TrackHarmony]
	root, scale := ctx.root(), ctx.scale()
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()
	eng := ctx.Engine
	velLo, velHi := velocityRange(ctx.Section.EnergyLevel)

	roots := barRoots(harmony, bars, bpb, root)
	// Bass sits an octave or two below the harmony's voicing.
	for i, r := range roots {
		roots[i] = theory.NearestInRange(r, 28, 52)
	}

	var notes []model.Note
	for bar := 0; bar < bars; bar++ {
		start := float64(bar * bpb)
		r := roots[bar]
		nextRoot := r
		if bar+1 < len(roots) {
			nextRoot = roots[bar+1]
		}

		switch {
		case ctx.Intent.Genre == "jazz":
			for beat := 0; beat < bpb; beat++ {
				p := r
				if beat == bpb-1 {
					p = theory.ClosestTo(nextRoot+approachStep(nextRoot-r), r)
				}
				notes = append(notes, model.Note{
					Pitch: p, StartTime: start + float64(beat), Duration: 1,
					Velocity: eng.IntRange(velLo, velHi),
				})
			}
		case ctx.Section.EnergyLevel >= 0.75 || ctx.Intent.Genre == "funk":
			pattern := []float64{0, 0.5, 1, 1.75, 2, 2.5, 3, 3.5}
			for _, beat := range pattern {
				if beat >= float64(bpb) {
					continue
				}
				p := r
				if beat == 1.75 || beat == 2.5 {
					p = snapToScale(r+eng.IntRange(-2, 2), root, scale)
				}
				notes = append(notes, model.Note{
					Pitch: p, StartTime: start + beat, Duration: 0.5,
					Velocity: eng.IntRange(velLo, velHi),
				})
			}
		case ctx.Section.EnergyLevel >= 0.45:
			notes = append(notes,
				model.Note{Pitch: r, StartTime: start, Duration: 2, Velocity: eng.IntRange(velLo, velHi)},
				model.Note{Pitch: r + 7, StartTime: start + 2, Duration: 2, Velocity: eng.IntRange(velLo, velHi)},
			)
		default:
			notes = append(notes, model.Note{
				Pitch: r, StartTime: start, Duration: float64(bpb),
				Velocity: eng.IntRange(velLo, velHi),
			})
		}
	}
	return notes
}

func approachStep(interval int) int {
	if interval >= 0 {
		return -1
	}
	return 1
}

// barRoots derives one root pitch class per bar from the harmony track's
// notes (lowest pitch sounding at each bar's start), falling back to the
// tonic when no harmony track is available.
func barRoots(harmony []model.Note, bars, bpb, root int) []int {
	roots := make([]int, bars)
	for bar := 0; bar < bars; bar++ {
		barStart := float64(bar * bpb)
		lowest := -1
		for _, n := range harmony {
			if n.StartTime >= barStart && n.StartTime < barStart+float64(bpb) {
				if lowest == -1 || n.Pitch < lowest {
					lowest = n.Pitch
				}
			}
		}
		if lowest == -1 {
			lowest = 36 + root
		}
		roots[bar] = lowest
	}
	return roots
}
