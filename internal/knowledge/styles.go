// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package knowledge

// StyleProfile records a style descriptor's bias, structured the same way
// as EmotionProfile since both feed the same instrument-selection scoring
// function (see selection.go).
type StyleProfile struct {
	TempoMultiplier  float64
	ConsonanceTarget float64
	Instruments      []string
	DensityBias      float64
}

var styles = map[string]StyleProfile{
	"ambient":    {TempoMultiplier: 0.9, ConsonanceTarget: 0.8, Instruments: []string{"pad_1_new_age", "fx_4_atmosphere"}, DensityBias: -0.2},
	"cinematic":  {TempoMultiplier: 0.95, ConsonanceTarget: 0.65, Instruments: []string{"string_ensemble_1", "french_horn"}, DensityBias: 0.0},
	"funky":      {TempoMultiplier: 1.0, ConsonanceTarget: 0.55, Instruments: []string{"slap_bass_1", "clavinet"}, DensityBias: 0.2},
	"minimal":    {TempoMultiplier: 1.0, ConsonanceTarget: 0.75, Instruments: []string{"electric_piano_1"}, DensityBias: -0.25},
	"ethereal":   {TempoMultiplier: 0.88, ConsonanceTarget: 0.85, Instruments: []string{"pad_7_halo", "choir_aahs"}, DensityBias: -0.15},
	"orchestral": {TempoMultiplier: 1.0, ConsonanceTarget: 0.7, Instruments: []string{"string_ensemble_1", "timpani"}, DensityBias: 0.05},
	"rhythmic":   {TempoMultiplier: 1.05, ConsonanceTarget: 0.5, Instruments: []string{"standard_kit", "slap_bass_1"}, DensityBias: 0.15},
}

// Style returns the named style's profile and whether it was found.
func Style(name string) (StyleProfile, bool) {
	p, ok := styles[name]
	return p, ok
}

// StyleNames lists the minimum required style vocabulary.
func StyleNames() []string {
	return []string{"ambient", "cinematic", "funky", "minimal", "ethereal", "orchestral", "rhythmic"}
}

// DefaultStyleProfile mirrors DefaultEmotionProfile for an empty style set.
func DefaultStyleProfile() StyleProfile {
	return StyleProfile{TempoMultiplier: 1.0, ConsonanceTarget: 0.7}
}
