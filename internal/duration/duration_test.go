// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package duration

import (
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func TestParseMinutesBeforeSeconds(t *testing.T) {
	req, ok := Parse("5 minutes")
	if !ok || req.Kind != model.DurationMinutes || req.Minutes != 5 {
		t.Fatalf("got %+v, %v", req, ok)
	}
}

func TestParseWordBoundaryExcludesWarmth(t *testing.T) {
	_, ok := Parse("warmth and reverb")
	if ok {
		t.Fatal("expected no match in 'warmth and reverb'")
	}
}

func TestParseMMSSNotAmbiguous(t *testing.T) {
	req, ok := Parse("2:30")
	if !ok || req.Kind != model.DurationMMSS || req.Seconds != 150 {
		t.Fatalf("got %+v, %v", req, ok)
	}
}

func TestParseBars(t *testing.T) {
	req, ok := Parse("32 bars")
	if !ok || req.Kind != model.DurationBars || req.Bars != 32 {
		t.Fatalf("got %+v, %v", req, ok)
	}
}

func TestParseBeats(t *testing.T) {
	req, ok := Parse("64 beats")
	if !ok || req.Kind != model.DurationBeats || req.Beats != 64 {
		t.Fatalf("got %+v, %v", req, ok)
	}
}

func TestToSecondsIdempotent(t *testing.T) {
	cases := []string{"5 minutes", "2:30", "90 seconds", "32 bars", "64 beats"}
	for _, s := range cases {
		req, ok := Parse(s)
		if !ok {
			t.Fatalf("%q did not parse", s)
		}
		secs1 := ToSeconds(req, 120, 4)
		// Re-parsing the canonical seconds form should reproduce the same
		// wall-clock duration.
		req2 := model.DurationRequest{Kind: model.DurationSeconds, Seconds: secs1}
		secs2 := ToSeconds(req2, 120, 4)
		if secs1 != secs2 {
			t.Errorf("%q: %.3f != %.3f", s, secs1, secs2)
		}
	}
}

func TestValidateClampsBounds(t *testing.T) {
	short := model.DurationRequest{Kind: model.DurationSeconds, Seconds: 1}
	got := Validate(short, 120, 4)
	if !got.Clamped || got.Seconds != minSeconds {
		t.Errorf("expected clamp to %v, got %+v", minSeconds, got)
	}

	long := model.DurationRequest{Kind: model.DurationMinutes, Minutes: 15}
	got = Validate(long, 120, 4)
	if !got.Clamped || got.Seconds != maxSeconds {
		t.Errorf("expected clamp to %v, got %+v", maxSeconds, got)
	}
}

func TestToBarsMatchesExpectedDuration(t *testing.T) {
	req, _ := Parse("2 minutes")
	bars := ToBars(req, 120, 4)
	secs := ToSeconds(req, 120, 4)
	wantBars := int(secs / (60.0 / 120.0 * 4) + 0.5)
	if bars != wantBars {
		t.Errorf("ToBars = %d, want %d", bars, wantBars)
	}
}
