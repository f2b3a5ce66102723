// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package theory

import (
	"testing"

	"github.com/go-test/deep"
)

func TestPitchClassesInScale(t *testing.T) {
	got := PitchClassesInScale(0, Major)
	exp := []int{0, 2, 4, 5, 7, 9, 11}
	if diff := deep.Equal(got, exp); diff != nil {
		t.Error(diff)
	}

	got = PitchClassesInScale(0, NaturalMinor)
	exp = []int{0, 2, 3, 5, 7, 8, 10}
	if diff := deep.Equal(got, exp); diff != nil {
		t.Error(diff)
	}

	// transposed root wraps around the octave
	got = PitchClassesInScale(11, Major)
	exp = []int{11, 1, 3, 4, 6, 8, 10}
	if diff := deep.Equal(got, exp); diff != nil {
		t.Error(diff)
	}
}

func TestScaleNotesRange(t *testing.T) {
	notes := ScaleNotes(0, Major, 3, 5)
	if len(notes) == 0 {
		t.Fatal("expected non-empty scale")
	}
	for _, p := range notes {
		if p < 0 || p > 127 {
			t.Errorf("pitch %d out of MIDI range", p)
		}
	}
}

func TestIntervalTensionBounds(t *testing.T) {
	cases := []struct {
		p1, p2 int
		want   float64
	}{
		{60, 60, 0},
		{60, 72, 0},
		{60, 66, 1.0},
		{60, 67, 0.05},
	}
	for _, c := range cases {
		got := IntervalTension(c.p1, c.p2)
		if got != c.want {
			t.Errorf("IntervalTension(%d,%d) = %v, want %v", c.p1, c.p2, got, c.want)
		}
	}
}

func TestChordFromDegreeTriad(t *testing.T) {
	chord := ChordFromDegree(0, Major, 1, Triad)
	if len(chord) != 3 {
		t.Fatalf("expected 3 pitches, got %d", len(chord))
	}
	for i := 1; i < len(chord); i++ {
		if chord[i] <= chord[i-1] {
			t.Errorf("expected ascending close voicing, got %v", chord)
		}
	}
}

func TestVoiceLeadMinimizesMotion(t *testing.T) {
	prev := ChordFromDegree(0, Major, 1, Triad)
	next := ChordFromDegree(0, Major, 5, Triad)
	led := VoiceLead(prev, next, 0, Major)
	naive := TotalMotion(prev, next)
	smoothed := TotalMotion(prev, led)
	if smoothed > naive {
		t.Errorf("voice-led motion %d should not exceed naive motion %d", smoothed, naive)
	}
}

func TestNearestInRange(t *testing.T) {
	got := NearestInRange(100, 36, 84)
	if got < 36 || got > 84 {
		t.Errorf("NearestInRange(100,36,84) = %d, out of range", got)
	}
}
