// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package structure maps a total bar budget to a sequence of sections with
// energy/density envelopes, choosing among four fixed templates by size.
package structure

import "github.com/Michael-F-Ellis/midigen/internal/model"

// envelope holds the baseline energy/density target for a section role,
// before intent-energy modulation.
type envelope struct {
	energy  float64
	density float64
}

var baseEnvelopes = map[model.SectionName]envelope{
	model.SectionIntro:  {0.4, 0.5},
	model.SectionVerse:  {0.6, 0.7},
	model.SectionChorus: {0.9, 0.9},
	model.SectionBridge: {0.7, 0.6},
	model.SectionOutro:  {0.5, 0.5},
	model.SectionBody:   {0.6, 0.6},
}

// energyShift maps an Intent.Energy to the +/-0.15 modulation applied to
// every section's baseline energy/density target.
func energyShift(e model.Energy) float64 {
	switch e {
	case model.EnergyLow:
		return -0.15
	case model.EnergyHigh:
		return 0.15
	default:
		return 0.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// template names a section role with its nominal share of the bar budget;
// shares are integers for templates with fixed bar counts and proportional
// weights for templates that scale with total_bars.
type templateSlot struct {
	name   model.SectionName
	weight int
}

func templateFor(totalBars int) []templateSlot {
	switch {
	case totalBars <= 16:
		return []templateSlot{
			{model.SectionIntro, 1},
			{model.SectionBody, 2},
			{model.SectionOutro, 1},
		}
	case totalBars <= 32:
		return []templateSlot{
			{model.SectionIntro, 2},
			{model.SectionVerse, 2},
			{model.SectionChorus, 2},
			{model.SectionBridge, 1},
			{model.SectionOutro, 1},
		}
	case totalBars <= 64:
		return []templateSlot{
			{model.SectionIntro, 1},
			{model.SectionVerse, 1},
			{model.SectionChorus, 1},
			{model.SectionVerse, 1},
			{model.SectionChorus, 1},
			{model.SectionBridge, 1},
			{model.SectionOutro, 1},
		}
	default:
		return []templateSlot{
			{model.SectionIntro, 1},
			{model.SectionVerse, 1},
			{model.SectionChorus, 1},
			{model.SectionVerse, 1},
			{model.SectionChorus, 1},
			{model.SectionBridge, 1},
			{model.SectionChorus, 1},
			{model.SectionOutro, 1},
		}
	}
}

// Characteristics tags the section immediately before a chorus as "build",
// a chorus itself as "peak", a bridge as "contrast", and an outro as "fade".
func characteristicsFor(slots []templateSlot, i int) []model.Characteristic {
	var chars []model.Characteristic
	switch slots[i].name {
	case model.SectionChorus:
		chars = append(chars, model.CharPeak)
	case model.SectionBridge:
		chars = append(chars, model.CharContrast)
	case model.SectionOutro:
		chars = append(chars, model.CharFade)
	}
	if i+1 < len(slots) && slots[i+1].name == model.SectionChorus && slots[i].name != model.SectionChorus {
		chars = append(chars, model.CharBuild)
	}
	return chars
}

// collapseSlots reduces slots to exactly n entries by dropping interior
// slots first, keeping the first and last intact so the bookend sections
// of the template still appear in a degenerately short budget.
func collapseSlots(slots []templateSlot, n int) []templateSlot {
	if n < 1 {
		n = 1
	}
	if n >= len(slots) {
		return slots
	}
	if n == 1 {
		return []templateSlot{{slots[0].name, 1}}
	}
	out := make([]templateSlot, 0, n)
	out = append(out, templateSlot{slots[0].name, 1})
	mid := n - 2
	step := float64(len(slots)-2) / float64(mid+1)
	for i := 0; i < mid; i++ {
		idx := 1 + int(float64(i+1)*step)
		if idx >= len(slots)-1 {
			idx = len(slots) - 2
		}
		out = append(out, templateSlot{slots[idx].name, 1})
	}
	out = append(out, templateSlot{slots[len(slots)-1].name, 1})
	return out
}

// Plan builds the Section list for totalBars bars, modulated by energy. The
// sum of returned section bar counts always equals totalBars exactly; any
// rounding remainder is absorbed by the longest section.
func Plan(totalBars int, energy model.Energy) []model.Section {
	if totalBars < 1 {
		totalBars = 1
	}
	slots := templateFor(totalBars)
	if totalBars < len(slots) {
		// Too few bars to give every template slot its own bar: collapse to
		// one bar per section, dropping slots from the middle of the
		// template so the intro/outro bookends survive.
		slots = collapseSlots(slots, totalBars)
	}

	totalWeight := 0
	for _, s := range slots {
		totalWeight += s.weight
	}

	bars := make([]int, len(slots))
	assigned := 0
	longest := 0
	for i, s := range slots {
		b := totalBars * s.weight / totalWeight
		if b < 1 {
			b = 1
		}
		bars[i] = b
		assigned += b
		if bars[i] > bars[longest] {
			longest = i
		}
	}
	// Absorb any rounding remainder (positive or negative) into the
	// longest section so the sum matches totalBars exactly. collapseSlots
	// above guarantees len(slots) <= totalBars, so every section can give
	// up bars down to a floor of 1 without going non-positive.
	bars[longest] += totalBars - assigned
	for bars[longest] < 1 {
		// Extremely rare rounding edge case: pull one bar at a time from
		// whichever section currently has the most to spare.
		donor := 0
		for i := 1; i < len(bars); i++ {
			if bars[i] > bars[donor] {
				donor = i
			}
		}
		bars[donor]--
		bars[longest]++
	}

	shift := energyShift(energy)
	sections := make([]model.Section, len(slots))
	start := 0
	for i, s := range slots {
		env := baseEnvelopes[s.name]
		sections[i] = model.Section{
			Name:            s.name,
			StartBar:        start,
			EndBar:          start + bars[i],
			EnergyLevel:     clamp01(env.energy + shift),
			DensityLevel:    clamp01(env.density + shift),
			Characteristics: characteristicsFor(slots, i),
		}
		start += bars[i]
	}
	return sections
}
