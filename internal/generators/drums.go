// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/variation"
)

// swingGenres get a +0.05 beat offset applied to their pattern's
// off-eighth hits.
var swingGenres = map[string]bool{"jazz": true, "lofi": true}

// Drums tiles the genre's named one-bar pattern across the section, adding
// a tom fill in the final bar when the section is tagged "build" or the
// next section is a "peak".
func Drums(ctx Context) []model.Note {
	genre := knowledge.Genre(ctx.Intent.Genre)
	pattern := knowledge.DrumPatternFor(genre.DrumPattern)
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()
	eng := ctx.Engine
	swing := swingGenres[ctx.Intent.Genre]

	isBuild := false
	for _, c := range ctx.Section.Characteristics {
		if c == model.CharBuild {
			isBuild = true
		}
	}

	var notes []model.Note
	for bar := 0; bar < bars; bar++ {
		start := float64(bar * bpb)
		for _, hit := range pattern.Hits {
			beat := hit.Beat
			if swing && isOffEighth(beat) {
				beat += 0.05
			}
			vel := eng.IntRange(maxInt(1, hit.Velocity-8), minInt(127, hit.Velocity+8))
			if hit.Ghost {
				vel = vel * 6 / 10
			}
			notes = append(notes, model.Note{
				Pitch: hit.Key, StartTime: start + beat, Duration: 0.1,
				Velocity: vel,
			})
		}
		if isBuild && bar == bars-1 {
			notes = append(notes, fillPattern(start, bpb, eng)...)
		}
	}
	return notes
}

func isOffEighth(beat float64) bool {
	frac := beat - float64(int(beat))
	return frac >= 0.45 && frac <= 0.55
}

func fillPattern(barStart float64, bpb int, eng *variation.Engine) []model.Note {
	toms := []int{knowledge.GMHighTom, knowledge.GMMidTom, knowledge.GMLowTom}
	var notes []model.Note
	step := 0.5
	i := 0
	for t := barStart + float64(bpb) - 1.5; t < barStart+float64(bpb); t += step {
		notes = append(notes, model.Note{
			Pitch: toms[i%len(toms)], StartTime: t, Duration: 0.1,
			Velocity: eng.IntRange(85, 110),
		})
		i++
	}
	return notes
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
