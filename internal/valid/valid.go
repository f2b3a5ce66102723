// Package valid provides the boolean lookups the rest of the core uses to
// check Intent fields against the knowledge base's vocabulary: key names,
// genres, emotions, style descriptors, track types, tempo and track count.
package valid

import (
	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
)

// NameInfo pairs a key's file-safe name with its display name. KeyInfo
// below lists the twelve pitch-class keys, and KeyName checks a name
// against it; the CLI takes Intent.Root as a number and does not use them.
type NameInfo struct {
	FileName string
	UiName   string
}

var KeyInfo = []NameInfo{
	{"c", "C"}, {"dflat", "D♭"}, {"d", "D"}, {"eflat", "E♭"}, {"e", "E"},
	{"f", "F"}, {"gflat", "G♭"}, {"g", "G"}, {"aflat", "A♭"}, {"a", "A"},
	{"bflat", "B♭"}, {"b", "B"},
}

// KeyName returns true if name is one of the twelve pitch-class key names.
func KeyName(name string) (ok bool) {
	for _, k := range KeyInfo {
		if k.FileName == name {
			ok = true
			break
		}
	}
	return
}

// Genre returns true if name is a recognized genre. Unlike the others,
// callers should not reject an unrecognized genre -- unknown genres degrade
// to "other", not an error -- so this is informational, not a gate.
func Genre(name string) bool {
	return knowledge.KnownGenre(name)
}

// Emotion returns true if name is in the emotion vocabulary.
func Emotion(name string) bool {
	_, ok := knowledge.Emotion(name)
	return ok
}

// StyleDescriptor returns true if name is in the style vocabulary.
func StyleDescriptor(name string) bool {
	_, ok := knowledge.Style(name)
	return ok
}

// TrackType returns true if t is one of the eight supported track types.
func TrackType(t model.TrackType) (ok bool) {
	switch t {
	case model.TrackLead, model.TrackCounterMelody, model.TrackHarmony,
		model.TrackBass, model.TrackDrums, model.TrackArpeggio,
		model.TrackPad, model.TrackFX:
		ok = true
	}
	return
}

// Tempo returns true if bpm falls within the generous absolute limits the
// core will accept from any caller, independent of genre-specific ranges.
func Tempo(bpm int) (ok bool) {
	return bpm >= 20 && bpm <= 300
}

// TrackCount returns true if n is a legal requested_track_count (a count
// outside 1..8 is the failure condition).
func TrackCount(n int) (ok bool) {
	return n >= 1 && n <= 8
}
