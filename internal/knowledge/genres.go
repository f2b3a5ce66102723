// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package knowledge

import "github.com/Michael-F-Ellis/midigen/internal/theory"

// GenreProfile records one genre's conventions: tempo range, default
// mode/scale, preferred instrument keys per track type, a chord-degree
// progression template, a named drum-pattern template, a density bias and a
// rhythm target. The last two are recorded per genre only: the structure
// planner and the quality reviewer do not read them.
type GenreProfile struct {
	Name              string
	TempoLow, TempoHi int
	DefaultScale      theory.ScaleName
	Instruments       map[string][]string // track-type string -> ranked instrument keys
	ChordDegrees      []int               // e.g. I-V-vi-IV as {1,5,6,4}
	DrumPattern       string              // key into drumPatterns
	DensityBias       float64             // additive density offset; structure.Plan does not apply it
	RhythmTarget      float64             // target syncopation ratio; the quality reviewer uses its own rhythmTargets table instead
}

// OtherGenreDefaults is what an unrecognized genre string degrades to, per
// (unknown genres degrade to "other", a rule-based default profile).
const OtherGenreDefaults = "other"

var genres = map[string]GenreProfile{
	"pop": {
		Name: "pop", TempoLow: 95, TempoHi: 130, DefaultScale: theory.Major,
		Instruments: map[string][]string{
			"lead": {"lead_2_sawtooth", "acoustic_grand_piano"},
			"harmony": {"string_ensemble_1", "acoustic_guitar_steel"},
			"bass": {"electric_bass_finger"},
			"drums": {"standard_kit"},
		},
		ChordDegrees: []int{1, 5, 6, 4}, DrumPattern: "backbeat", DensityBias: 0, RhythmTarget: 0.2,
	},
	"rock": {
		Name: "rock", TempoLow: 110, TempoHi: 150, DefaultScale: theory.Major,
		Instruments: map[string][]string{
			"lead": {"distortion_guitar", "electric_guitar_jazz"},
			"harmony": {"electric_guitar_clean"},
			"bass": {"electric_bass_pick"},
			"drums": {"standard_kit"},
		},
		ChordDegrees: []int{1, 4, 5, 4}, DrumPattern: "backbeat", DensityBias: 0.1, RhythmTarget: 0.25,
	},
	"jazz": {
		Name: "jazz", TempoLow: 90, TempoHi: 200, DefaultScale: theory.Dorian,
		Instruments: map[string][]string{
			"lead": {"alto_sax", "trumpet"},
			"harmony": {"electric_piano_1"},
			"bass": {"acoustic_bass"},
			"drums": {"swing_kit"},
		},
		ChordDegrees: []int{2, 5, 1, 6}, DrumPattern: "swing", DensityBias: 0.05, RhythmTarget: 0.6,
	},
	"classical": {
		Name: "classical", TempoLow: 60, TempoHi: 120, DefaultScale: theory.Major,
		Instruments: map[string][]string{
			"lead": {"violin", "flute"},
			"harmony": {"string_ensemble_1"},
			"bass": {"cello", "contrabass"},
			"drums": {"timpani_only"},
		},
		ChordDegrees: []int{1, 4, 5, 1}, DrumPattern: "sparse", DensityBias: -0.1, RhythmTarget: 0.1,
	},
	"electronic": {
		Name: "electronic", TempoLow: 118, TempoHi: 140, DefaultScale: theory.NaturalMinor,
		Instruments: map[string][]string{
			"lead": {"lead_2_sawtooth", "lead_1_square"},
			"harmony": {"pad_2_warm"},
			"bass": {"synth_bass_1"},
			"drums": {"four_on_floor"},
			"arpeggio": {"lead_3_calliope"},
		},
		ChordDegrees: []int{6, 4, 1, 5}, DrumPattern: "four_on_floor", DensityBias: 0.15, RhythmTarget: 0.35,
	},
	"lofi": {
		Name: "lofi", TempoLow: 60, TempoHi: 90, DefaultScale: theory.Dorian,
		Instruments: map[string][]string{
			"lead": {"electric_piano_1"},
			"harmony": {"electric_piano_2"},
			"bass": {"acoustic_bass"},
			"drums": {"lofi_kit"},
		},
		ChordDegrees: []int{2, 5, 1, 1}, DrumPattern: "lofi_swing", DensityBias: -0.15, RhythmTarget: 0.45,
	},
	"ambient": {
		Name: "ambient", TempoLow: 50, TempoHi: 90, DefaultScale: theory.PentatonicMaj,
		Instruments: map[string][]string{
			"lead": {"flute", "pad_1_new_age"},
			"pad": {"pad_1_new_age", "pad_7_halo"},
			"fx": {"fx_4_atmosphere"},
		},
		ChordDegrees: []int{1, 6, 4, 5}, DrumPattern: "sparse", DensityBias: -0.25, RhythmTarget: 0.1,
	},
	"cinematic": {
		Name: "cinematic", TempoLow: 60, TempoHi: 110, DefaultScale: theory.NaturalMinor,
		Instruments: map[string][]string{
			"lead": {"french_horn", "violin"},
			"harmony": {"string_ensemble_1"},
			"bass": {"contrabass"},
			"drums": {"taiko"},
			"pad": {"pad_5_bowed"},
		},
		ChordDegrees: []int{1, 6, 4, 5}, DrumPattern: "build", DensityBias: 0.0, RhythmTarget: 0.15,
	},
	"funk": {
		Name: "funk", TempoLow: 95, TempoHi: 115, DefaultScale: theory.Dorian,
		Instruments: map[string][]string{
			"lead": {"electric_guitar_muted"},
			"harmony": {"clavinet"},
			"bass": {"slap_bass_1"},
			"drums": {"funk_kit"},
		},
		ChordDegrees: []int{1, 1, 4, 1}, DrumPattern: "syncopated", DensityBias: 0.2, RhythmTarget: 0.55,
	},
	"rnb": {
		Name: "rnb", TempoLow: 65, TempoHi: 100, DefaultScale: theory.Dorian,
		Instruments: map[string][]string{
			"lead": {"synth_voice", "electric_piano_1"},
			"harmony": {"electric_piano_2"},
			"bass": {"electric_bass_finger"},
			"drums": {"rnb_kit"},
		},
		ChordDegrees: []int{1, 4, 2, 5}, DrumPattern: "backbeat", DensityBias: 0.05, RhythmTarget: 0.4,
	},
}

// Genre returns the named genre's profile, falling back to "other" (pop
// defaults as the boundary-case fallback) when the genre is unrecognized.
func Genre(name string) GenreProfile {
	if p, ok := genres[name]; ok {
		return p
	}
	other := genres["pop"]
	other.Name = OtherGenreDefaults
	return other
}

// KnownGenre reports whether name is a recognized genre (not "other").
func KnownGenre(name string) bool {
	_, ok := genres[name]
	return ok
}

// Overlay overrides part of one genre's compiled-in profile: a tempo
// range and/or a ranked instrument list per track type. Zero-valued
// fields leave the built-in default for that field untouched.
type Overlay struct {
	Genre       string
	TempoLow    int
	TempoHi     int
	Instruments map[string][]string
}

// ApplyOverlay merges config-supplied overrides into the compiled-in genre
// table. It is meant to run once at process start, before any generation
// begins; the core never calls it, and nothing mutates the table again
// afterward.
func ApplyOverlay(overlays []Overlay) {
	for _, o := range overlays {
		p, ok := genres[o.Genre]
		if !ok {
			continue
		}
		if o.TempoLow > 0 {
			p.TempoLow = o.TempoLow
		}
		if o.TempoHi > 0 {
			p.TempoHi = o.TempoHi
		}
		for trackType, keys := range o.Instruments {
			if p.Instruments == nil {
				p.Instruments = map[string][]string{}
			}
			p.Instruments[trackType] = keys
		}
		genres[o.Genre] = p
	}
}

// GenreNames returns the sorted-by-declaration list of supported genre
// keys, for validation and testing.
func GenreNames() []string {
	return []string{"pop", "rock", "jazz", "classical", "electronic", "lofi", "ambient", "cinematic", "funk", "rnb"}
}
