// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package knowledge

// General MIDI percussion key numbers used by the drums generator. These
// are the standard channel-10 mappings.
const (
	GMKick        = 36
	GMSnare       = 38
	GMClosedHat   = 42
	GMOpenHat     = 46
	GMLowTom      = 45
	GMMidTom      = 47
	GMHighTom     = 50
	GMCrash       = 49
	GMRide        = 51
)

// DrumHit is one scheduled percussion onset within a single bar, expressed
// as a beat offset (0-based, 0..beatsPerBar) and GM key.
type DrumHit struct {
	Beat     float64
	Key      int
	Velocity int
	Ghost    bool
}

// DrumPattern is a named, one-bar template of percussion onsets. The drums
// generator tiles this across a section's bars and layers in fills/ghosts
// per the drums generator's energy rules.
type DrumPattern struct {
	Name string
	Hits []DrumHit
}

var drumPatterns = map[string]DrumPattern{
	"sparse": {Name: "sparse", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 90},
		{Beat: 2, Key: GMKick, Velocity: 80},
	}},
	"backbeat": {Name: "backbeat", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 100},
		{Beat: 1, Key: GMSnare, Velocity: 95},
		{Beat: 2, Key: GMKick, Velocity: 100},
		{Beat: 3, Key: GMSnare, Velocity: 95},
		{Beat: 0, Key: GMClosedHat, Velocity: 70},
		{Beat: 0.5, Key: GMClosedHat, Velocity: 60},
		{Beat: 1, Key: GMClosedHat, Velocity: 70},
		{Beat: 1.5, Key: GMClosedHat, Velocity: 60},
		{Beat: 2, Key: GMClosedHat, Velocity: 70},
		{Beat: 2.5, Key: GMClosedHat, Velocity: 60},
		{Beat: 3, Key: GMClosedHat, Velocity: 70},
		{Beat: 3.5, Key: GMClosedHat, Velocity: 60},
	}},
	"swing": {Name: "swing", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 90},
		{Beat: 1, Key: GMRide, Velocity: 70},
		{Beat: 1.66, Key: GMRide, Velocity: 55},
		{Beat: 2, Key: GMSnare, Velocity: 80, Ghost: true},
		{Beat: 3, Key: GMRide, Velocity: 70},
		{Beat: 3.66, Key: GMRide, Velocity: 55},
	}},
	"four_on_floor": {Name: "four_on_floor", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 105},
		{Beat: 1, Key: GMKick, Velocity: 105},
		{Beat: 2, Key: GMKick, Velocity: 105},
		{Beat: 3, Key: GMKick, Velocity: 105},
		{Beat: 1, Key: GMSnare, Velocity: 90},
		{Beat: 3, Key: GMSnare, Velocity: 90},
	}},
	"lofi_swing": {Name: "lofi_swing", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 75},
		{Beat: 1, Key: GMSnare, Velocity: 65},
		{Beat: 2.5, Key: GMKick, Velocity: 70},
		{Beat: 3, Key: GMSnare, Velocity: 65},
	}},
	"syncopated": {Name: "syncopated", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 100},
		{Beat: 0.75, Key: GMKick, Velocity: 85},
		{Beat: 1, Key: GMSnare, Velocity: 95},
		{Beat: 2.25, Key: GMKick, Velocity: 85},
		{Beat: 2.5, Key: GMKick, Velocity: 90},
		{Beat: 3, Key: GMSnare, Velocity: 95},
	}},
	"build": {Name: "build", Hits: []DrumHit{
		{Beat: 0, Key: GMKick, Velocity: 85},
		{Beat: 2, Key: GMCrash, Velocity: 70},
	}},
	"taiko": {Name: "taiko", Hits: []DrumHit{
		{Beat: 0, Key: GMLowTom, Velocity: 100},
		{Beat: 2, Key: GMMidTom, Velocity: 95},
	}},
	"timpani_only": {Name: "timpani_only", Hits: []DrumHit{
		{Beat: 0, Key: GMLowTom, Velocity: 80},
	}},
}

// DrumPatternFor resolves a pattern name, falling back to "backbeat" for an
// unknown name so drum generation never produces silence by accident.
func DrumPatternFor(name string) DrumPattern {
	if p, ok := drumPatterns[name]; ok {
		return p
	}
	return drumPatterns["backbeat"]
}
