// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// Pad sustains one chord per 2-4 bars at low velocity, with no MIDI CC
// messages. Each note takes its own random velocity in 40-60; there is no
// entry or exit velocity ramp.
func Pad(ctx Context) []model.Note {
	root, scale := ctx.root(), ctx.scale()
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()
	eng := ctx.Engine

	span := eng.IntRange(2, 4)
	if span > bars {
		span = bars
	}
	if span < 1 {
		span = 1
	}

	var notes []model.Note
	for bar := 0; bar < bars; bar += span {
		blockBars := span
		if bar+blockBars > bars {
			blockBars = bars - bar
		}
		start := float64(bar * bpb)
		dur := float64(blockBars * bpb)
		degree := 1
		if bar > 0 {
			degree = eng.IntRange(1, 6)
		}
		chord := theory.ChordFromDegree(root, scale, degree, theory.Triad)
		for _, p := range chord {
			notes = append(notes, model.Note{
				Pitch: p, StartTime: start, Duration: dur,
				Velocity: eng.IntRange(40, 60),
			})
		}
	}
	return notes
}
