// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package generators

import (
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
	"github.com/Michael-F-Ellis/midigen/internal/variation"
)

// contour lists the melodic shapes a lead motif can take, with the
// emotions that bias toward them.
type contour string

const (
	contourAscending    contour = "ascending"
	contourDescending   contour = "descending"
	contourArch         contour = "arch"
	contourValley       contour = "valley"
	contourCallResponse contour = "call_and_response"
)

var emotionContourBias = map[string]contour{
	"epic":       contourArch,
	"sad":        contourDescending,
	"peaceful":   contourValley,
	"triumphant": contourArch,
	"mysterious": contourCallResponse,
}

func chooseContour(eng *variation.Engine, emotions []string) contour {
	for _, e := range emotions {
		if c, ok := emotionContourBias[e]; ok {
			return c
		}
	}
	all := []contour{contourAscending, contourDescending, contourArch, contourValley, contourCallResponse}
	return variation.Choose(eng, all)
}

// motif builds a 2-4 note degree sequence (as semitone offsets from the
// pitch center) following the chosen contour.
func motif(eng *variation.Engine, c contour) []int {
	n := eng.IntRange(2, 4)
	steps := []int{0, 2, 4, -2, -4, 5, -5}
	out := make([]int, n)
	switch c {
	case contourAscending:
		for i := range out {
			out[i] = i * 2
		}
	case contourDescending:
		for i := range out {
			out[i] = -i * 2
		}
	case contourArch:
		mid := n / 2
		for i := range out {
			d := i
			if i > mid {
				d = n - 1 - i
			}
			out[i] = d * 3
		}
	case contourValley:
		mid := n / 2
		for i := range out {
			d := i
			if i > mid {
				d = n - 1 - i
			}
			out[i] = -d * 3
		}
	default: // call_and_response
		for i := range out {
			if i%2 == 0 {
				out[i] = variation.Choose(eng, steps)
			} else {
				out[i] = -out[i-1] / 2
			}
		}
	}
	return out
}

// noteDuration picks a duration (in beats) for the i'th note of a motif,
// biased by genre.
func noteDuration(eng *variation.Engine, genre string) float64 {
	switch genre {
	case "jazz":
		choices := []float64{0.5, 0.5, 0.75, 1.0}
		return variation.Choose(eng, choices)
	case "ambient", "cinematic":
		choices := []float64{2.0, 3.0, 4.0}
		return variation.Choose(eng, choices)
	case "electronic":
		choices := []float64{0.25, 0.25, 0.5}
		return variation.Choose(eng, choices)
	default:
		choices := []float64{0.5, 1.0, 1.0, 1.5}
		return variation.Choose(eng, choices)
	}
}

// Lead builds the melody track for a section: a short motif transformed by
// repetition, transposition, rhythmic variation or contrast across the
// section's bars.
func Lead(ctx Context) []model.Note {
	eng := ctx.Engine
	root, scale := ctx.root(), ctx.scale()
	center := ctx.pitchCenter()
	c := chooseContour(eng, ctx.Intent.Emotions)
	baseSteps := motif(eng, c)

	basePitches := make([]int, len(baseSteps))
	for i, s := range baseSteps {
		p := theory.NearestInRange(center+s, center-12, center+12)
		basePitches[i] = snapToScale(p, root, scale)
	}

	totalBeats := float64(ctx.bars() * ctx.beatsPerBar())
	velLo, velHi := velocityRange(ctx.Section.EnergyLevel)

	var notes []model.Note
	t := 0.0
	pitches := basePitches
	for t < totalBeats {
		op := variation.WeightedChoice(eng,
			[]string{"repeat", "transpose", "rhythmic", "contrast", "sustain"},
			[]float64{0.30, 0.25, 0.20, 0.15, 0.10})

		switch op {
		case "transpose":
			shift := variation.Choose(eng, []int{-4, -2, 2, 4})
			pitches = transposeInScale(pitches, shift, root, scale)
		case "contrast":
			pitches = make([]int, len(basePitches))
			newSteps := motif(eng, chooseContour(eng, ctx.Intent.Emotions))
			for i := range pitches {
				s := 0
				if i < len(newSteps) {
					s = newSteps[i]
				}
				pitches[i] = snapToScale(theory.NearestInRange(center+s, center-12, center+12), root, scale)
			}
		case "sustain":
			dur := 2.0
			if t+dur > totalBeats {
				dur = totalBeats - t
			}
			if dur <= 0 {
				break
			}
			notes = append(notes, model.Note{
				Pitch: pitches[0], StartTime: t, Duration: dur,
				Velocity: eng.IntRange(velLo, velHi),
			})
			t += dur
			continue
		}

		for _, p := range pitches {
			if t >= totalBeats {
				break
			}
			dur := noteDuration(eng, ctx.Intent.Genre)
			if op == "rhythmic" {
				dur *= variation.Choose(eng, []float64{0.5, 2.0})
			}
			if t+dur > totalBeats {
				dur = totalBeats - t
			}
			if dur <= 0 {
				continue
			}
			notes = append(notes, model.Note{
				Pitch: p, StartTime: t, Duration: dur,
				Velocity: eng.IntRange(velLo, velHi),
			})
			t += dur
		}
	}
	return notes
}

func snapToScale(p, root int, scale theory.ScaleName) int {
	if theory.InScale(p, root, scale) {
		return p
	}
	neighbors := theory.ConsonantNeighbors(p, root, scale)
	if len(neighbors) > 0 {
		return neighbors[0]
	}
	return p
}

func transposeInScale(pitches []int, semitoneShift, root int, scale theory.ScaleName) []int {
	out := make([]int, len(pitches))
	for i, p := range pitches {
		out[i] = snapToScale(p+semitoneShift, root, scale)
	}
	return out
}

// velocityRange scales a [lo,hi] MIDI velocity window by a section's
// energy level.
func velocityRange(energy float64) (lo, hi int) {
	lo = 50 + int(30*energy)
	hi = 80 + int(40*energy)
	if hi > 120 {
		hi = 120
	}
	if lo >= hi {
		lo = hi - 5
	}
	return lo, hi
}
