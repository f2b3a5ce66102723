// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package knowledge

import "github.com/Michael-F-Ellis/midigen/internal/model"

// EmotionProfile records how one emotion word biases tempo, mode and
// consonance, plus a ranked list of instrument keys it favors.
type EmotionProfile struct {
	TempoMultiplier float64
	ModePreference  model.Mode
	ConsonanceTarget float64 // 0=dissonant bias, 1=consonant bias
	Instruments     []string
	ContourBias     string // preferred melodic contour; the lead generator keeps its own emotion-to-contour table and does not read this
}

var emotions = map[string]EmotionProfile{
	"peaceful":   {TempoMultiplier: 0.85, ModePreference: model.ModeMajor, ConsonanceTarget: 0.85, Instruments: []string{"flute", "pad_1_new_age"}, ContourBias: "valley"},
	"epic":       {TempoMultiplier: 1.05, ModePreference: model.ModeMinor, ConsonanceTarget: 0.6, Instruments: []string{"french_horn", "brass_section"}, ContourBias: "arch"},
	"sad":        {TempoMultiplier: 0.8, ModePreference: model.ModeMinor, ConsonanceTarget: 0.55, Instruments: []string{"cello", "violin"}, ContourBias: "descending"},
	"happy":      {TempoMultiplier: 1.1, ModePreference: model.ModeMajor, ConsonanceTarget: 0.8, Instruments: []string{"acoustic_grand_piano", "lead_1_square"}, ContourBias: "ascending"},
	"energetic":  {TempoMultiplier: 1.2, ModePreference: model.ModeMajor, ConsonanceTarget: 0.6, Instruments: []string{"distortion_guitar", "synth_bass_1"}, ContourBias: "ascending"},
	"mysterious": {TempoMultiplier: 0.9, ModePreference: model.ModeMinor, ConsonanceTarget: 0.4, Instruments: []string{"fx_4_atmosphere", "pad_6_metallic"}, ContourBias: "call_and_response"},
	"triumphant": {TempoMultiplier: 1.1, ModePreference: model.ModeMajor, ConsonanceTarget: 0.75, Instruments: []string{"trumpet", "brass_section"}, ContourBias: "arch"},
	"melancholic": {TempoMultiplier: 0.82, ModePreference: model.ModeMinor, ConsonanceTarget: 0.6, Instruments: []string{"electric_piano_1", "cello"}, ContourBias: "descending"},
}

// Emotion returns the named emotion's profile and whether it was found.
func Emotion(name string) (EmotionProfile, bool) {
	p, ok := emotions[name]
	return p, ok
}

// EmotionNames lists the minimum required emotion vocabulary.
func EmotionNames() []string {
	return []string{"peaceful", "epic", "sad", "happy", "energetic", "mysterious", "triumphant", "melancholic"}
}

// DefaultEmotionProfile returns a neutral profile for an empty emotion set:
// no tempo change, no mode preference, an ascending contour. Nothing in the
// pipeline calls it; an empty emotion set simply contributes no emotion bias.
func DefaultEmotionProfile() EmotionProfile {
	return EmotionProfile{TempoMultiplier: 1.0, ConsonanceTarget: 0.7, ContourBias: "ascending"}
}
