// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
)

// FX scatters roughly one long, quiet onset per section, drawn from the
// extremes of the scale's range.
func FX(ctx Context) []model.Note {
	root, scale := ctx.root(), ctx.scale()
	bpb := ctx.beatsPerBar()
	bars := ctx.bars()
	eng := ctx.Engine
	totalBeats := float64(bars * bpb)

	scaleNotes := theory.ScaleNotes(root, scale, -1, 8)
	if len(scaleNotes) == 0 {
		return nil
	}
	extremes := []int{scaleNotes[0], scaleNotes[len(scaleNotes)-1]}

	count := 1
	if eng.Bernoulli(0.3) {
		count = 2
	}

	var out []model.Note
	for i := 0; i < count; i++ {
		start := eng.Uniform(0, totalBeats*0.7)
		dur := eng.Uniform(float64(bpb), float64(bpb)*2)
		if start+dur > totalBeats {
			dur = totalBeats - start
		}
		if dur <= 0 {
			continue
		}
		out = append(out, model.Note{
			Pitch: extremes[eng.IntRange(0, len(extremes)-1)],
			StartTime: start, Duration: dur,
			Velocity: eng.IntRange(35, 55),
		})
	}
	return out
}
