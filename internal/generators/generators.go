// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package generators holds one pure function per track type. Each consumes
// a Context describing the track being built, the section it fills, the
// governing intent, and a variation engine, and returns a list of Notes
// with start_time expressed in beats relative to the section's own start;
// the orchestrator offsets them to track-global beats afterward.
package generators

import (
	"strings"

	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/theory"
	"github.com/Michael-F-Ellis/midigen/internal/variation"
)

// Context is everything a generator needs beyond its own track type.
type Context struct {
	Config      model.TrackConfig
	Section     model.Section
	Intent      model.Intent
	BeatsPerBar int
	Engine      *variation.Engine

	// SectionTracks holds the notes already generated for other track
	// types within the same section (section-local beats), so dependent
	// generators (counter-melody on lead, bass/arpeggio on harmony)
	// can read their source material. Populated by the caller in
	// generation order; absent entries are nil.
	SectionTracks map[model.TrackType][]model.Note

	// PrevChordVoicing is the previous section's harmony voicing, carried
	// across sections for voice-leading continuity. Only read/written by
	// the Harmony generator.
	PrevChordVoicing []int
}

// Func is the signature every track-type generator implements.
type Func func(ctx Context) []model.Note

// Dispatch maps a track type to its generator, built once at init so the
// set of supported track types is closed and lookups are allocation-free.
var Dispatch = map[model.TrackType]Func{
	model.TrackLead:          Lead,
	model.TrackCounterMelody: CounterMelody,
	model.TrackHarmony:       Harmony,
	model.TrackBass:          Bass,
	model.TrackDrums:         Drums,
	model.TrackArpeggio:      Arpeggio,
	model.TrackPad:           Pad,
	model.TrackFX:            FX,
}

// Order lists the track types in the sequence generation must run so that
// dependent generators see their source material: lead before
// counter-melody, harmony before bass/arpeggio.
var Order = []model.TrackType{
	model.TrackHarmony, model.TrackLead, model.TrackCounterMelody,
	model.TrackBass, model.TrackDrums, model.TrackArpeggio,
	model.TrackPad, model.TrackFX,
}

// culturalScales maps a recognized Intent.CulturalStyle to the pentatonic
// scale its lead/harmony lines should draw from, overriding the
// genre/mode default whenever CulturalStyle is set and ScaleName isn't.
var culturalScales = map[string]theory.ScaleName{
	"japanese":  theory.Hirajoshi,
	"hirajoshi": theory.Hirajoshi,
	"yo":        theory.Yo,
	"in":        theory.In,
}

func (c Context) scale() theory.ScaleName {
	if c.Intent.ScaleName != "" && theory.KnownScale(theory.ScaleName(c.Intent.ScaleName)) {
		return theory.ScaleName(c.Intent.ScaleName)
	}
	if s, ok := culturalScales[strings.ToLower(c.Intent.CulturalStyle)]; ok {
		return s
	}
	if c.Intent.Mode == model.ModeMinor {
		return theory.NaturalMinor
	}
	return theory.Major
}

func (c Context) root() int {
	return ((c.Intent.Root % 12) + 12) % 12
}

func (c Context) beatsPerBar() int {
	if c.BeatsPerBar <= 0 {
		return 4
	}
	return c.BeatsPerBar
}

func (c Context) bars() int {
	n := c.Section.Bars()
	if n < 1 {
		return 1
	}
	return n
}

// pitchCenter returns a scale pitch near the middle of a generous melodic
// register (MIDI 60-72), used as the anchor for motif construction.
func (c Context) pitchCenter() int {
	pcs := theory.PitchClassesInScale(c.root(), c.scale())
	if len(pcs) == 0 {
		return 64
	}
	return theory.NearestInRange(60+pcs[0], 55, 76)
}
