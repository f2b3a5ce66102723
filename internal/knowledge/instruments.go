// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package knowledge holds the static, process-wide tables that encode
// musical convention: General MIDI program names, genre/emotion/style
// profiles, chord and drum-pattern templates. Tables are built once at
// package init(); the only later change is ApplyOverlay, which patches the
// genre table once at process start, before any generation reads it.
package knowledge

import (
	"fmt"
	"strings"
)

// gmProgramNames is the General MIDI program table, 0-indexed. It is the
// authority for what "instrument key (string, resolves to a General MIDI
// program 0..127)" means in TrackConfig.
var gmProgramNames = map[string]int{
	"Acoustic Grand Piano": 0, "Bright Acoustic Piano": 1, "Electric Grand Piano": 2,
	"Honky-tonk Piano": 3, "Electric Piano 1": 4, "Electric Piano 2": 5,
	"Harpsichord": 6, "Clavinet": 7, "Celesta": 8, "Glockenspiel": 9,
	"Music Box": 10, "Vibraphone": 11, "Marimba": 12, "Xylophone": 13,
	"Tubular Bells": 14, "Dulcimer": 15, "Drawbar Organ": 16, "Percussive Organ": 17,
	"Rock Organ": 18, "Church Organ": 19, "Reed Organ": 20, "Accordion": 21,
	"Harmonica": 22, "Tango Accordion": 23, "Acoustic Guitar (nylon)": 24,
	"Acoustic Guitar (steel)": 25, "Electric Guitar (jazz)": 26, "Electric Guitar (clean)": 27,
	"Electric Guitar (muted)": 28, "Overdriven Guitar": 29, "Distortion Guitar": 30,
	"Guitar Harmonics": 31, "Acoustic Bass": 32, "Electric Bass (finger)": 33,
	"Electric Bass (pick)": 34, "Fretless Bass": 35, "Slap Bass 1": 36, "Slap Bass 2": 37,
	"Synth Bass 1": 38, "Synth Bass 2": 39, "Violin": 40, "Viola": 41, "Cello": 42,
	"Contrabass": 43, "Tremolo Strings": 44, "Pizzicato Strings": 45, "Orchestral Harp": 46,
	"Timpani": 47, "String Ensemble 1": 48, "String Ensemble 2": 49, "SynthStrings 1": 50,
	"SynthStrings 2": 51, "Choir Aahs": 52, "Voice Oohs": 53, "Synth Voice": 54,
	"Orchestra Hit": 55, "Trumpet": 56, "Trombone": 57, "Tuba": 58, "Muted Trumpet": 59,
	"French Horn": 60, "Brass Section": 61, "Synth Brass 1": 62, "Synth Brass 2": 63,
	"Soprano Sax": 64, "Alto Sax": 65, "Tenor Sax": 66, "Baritone Sax": 67, "Oboe": 68,
	"English Horn": 69, "Bassoon": 70, "Clarinet": 71, "Piccolo": 72, "Flute": 73,
	"Recorder": 74, "Pan Flute": 75, "Blown Bottle": 76, "Shakuhachi": 77, "Whistle": 78,
	"Ocarina": 79, "Lead 1 (square)": 80, "Lead 2 (sawtooth)": 81, "Lead 3 (calliope)": 82,
	"Lead 4 (chiff)": 83, "Lead 5 (charang)": 84, "Lead 6 (voice)": 85, "Lead 7 (fifths)": 86,
	"Lead 8 (bass+lead)": 87, "Pad 1 (new age)": 88, "Pad 2 (warm)": 89, "Pad 3 (polysynth)": 90,
	"Pad 4 (choir)": 91, "Pad 5 (bowed)": 92, "Pad 6 (metallic)": 93, "Pad 7 (halo)": 94,
	"Pad 8 (sweep)": 95, "FX 1 (train)": 96, "FX 2 (soundtrack)": 97, "FX 3 (crystal)": 98,
	"FX 4 (atmosphere)": 99, "FX 5 (brightness)": 100, "FX 6 (goblins)": 101, "FX 7 (echoes)": 102,
	"FX 8 (sci-fi)": 103, "Sitar": 104, "Banjo": 105, "Shamisen": 106, "Koto": 107,
	"Kalimba": 108, "Bagpipe": 109, "Fiddle": 110, "Shanai": 111, "Tinkle Bell": 112,
	"Agogo": 113, "Steel Drums": 114, "Woodblock": 115, "Taiko Drum": 116, "Melodic Tom": 117,
	"Synth Drum": 118, "Reverse Cymbal": 119, "Guitar Fret Noise": 120, "Breath Noise": 121,
	"Seashore": 122, "Bird Tweet": 123, "Telephone Ring": 124, "Helicopter": 125,
	"Applause": 126, "Gunshot": 127,
}

// InstrumentKey is the clean, snake_case form of a GM program name used as
// the "instrument key" string throughout TrackConfig, e.g.
// "acoustic_grand_piano" or "fx_4_atmosphere".
func InstrumentKey(programName string) string {
	clean := strings.ToLower(programName)
	clean = strings.ReplaceAll(clean, "(", "")
	clean = strings.ReplaceAll(clean, ")", "")
	clean = strings.ReplaceAll(clean, "-", "_")
	clean = strings.ReplaceAll(clean, " ", "_")
	return clean
}

var keyToProgram = make(map[string]int)
var programToKey = make(map[int]string)

func init() {
	for name, num := range gmProgramNames {
		key := InstrumentKey(name)
		keyToProgram[key] = num
		programToKey[num] = key
	}
}

// ProgramForKey resolves an instrument key to its GM program number.
func ProgramForKey(key string) (int, error) {
	if p, ok := keyToProgram[key]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%q is not a recognized instrument key", key)
}

// KeyForProgram resolves a GM program number to its canonical instrument
// key.
func KeyForProgram(program int) (string, error) {
	if k, ok := programToKey[program]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%d is not a valid GM program number", program)
}

// InstrumentFamily is used to infer a TrackType from an explicit instrument
// key, per the track planner's rule (1): percussion -> drums, bass range ->
// bass, pad/strings -> pad/harmony, other -> lead.
type InstrumentFamily string

const (
	FamilyPercussion InstrumentFamily = "percussion"
	FamilyBass       InstrumentFamily = "bass"
	FamilyPad        InstrumentFamily = "pad"
	FamilyHarmony    InstrumentFamily = "harmony"
	FamilyOther      InstrumentFamily = "other"
)

// FamilyForKey classifies an instrument key by substring match against its
// canonical GM name, since the program ranges group naturally by name
// prefix.
func FamilyForKey(key string) InstrumentFamily {
	switch {
	case strings.Contains(key, "drum") || strings.Contains(key, "kit") || strings.Contains(key, "percussion"):
		return FamilyPercussion
	case strings.Contains(key, "bass"):
		return FamilyBass
	case strings.Contains(key, "pad") || strings.Contains(key, "strings") || strings.Contains(key, "choir"):
		return FamilyPad
	case strings.Contains(key, "organ") || strings.Contains(key, "ensemble"):
		return FamilyHarmony
	default:
		return FamilyOther
	}
}

// RegisterFor returns a sensible [midilo, midihi] pitch register for an
// instrument key, falling back to a wide general register for anything not
// named explicitly in the registers table.
func RegisterFor(key string) (lo, hi int) {
	if r, ok := registers[key]; ok {
		return r[0], r[1]
	}
	switch FamilyForKey(key) {
	case FamilyBass:
		return 28, 60
	case FamilyPad, FamilyHarmony:
		return 48, 84
	case FamilyPercussion:
		return 35, 81
	default:
		return 48, 96
	}
}

var registers = map[string][2]int{
	"acoustic_bass":           {28, 55},
	"electric_bass_finger":    {28, 67},
	"electric_bass_pick":      {28, 67},
	"slap_bass_1":             {28, 67},
	"cello":                   {36, 72},
	"violin":                  {55, 91},
	"viola":                   {48, 84},
	"flute":                   {60, 98},
	"clarinet":                {50, 79},
	"trumpet":                 {54, 86},
	"trombone":                {40, 77},
	"bassoon":                 {34, 72},
	"acoustic_guitar_steel":   {44, 76},
	"electric_guitar_jazz":    {40, 88},
	"acoustic_grand_piano":    {36, 96},
}
