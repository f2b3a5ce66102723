// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package duration canonicalizes the free-text duration expressions the
// upstream parser hands the core, and converts between seconds, bars and
// beats once a tempo is known, deriving the tempo-to-time relationship
// algebraically rather than reading it back from an existing file.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

const (
	minSeconds     = 5.0
	maxSeconds     = 600.0
	defaultSeconds = 60.0
)

// Pattern order is fixed: minutes, then MM:SS, then seconds, then bars,
// then beats. Word-boundary anchors keep "5m" from matching "warmth".
var (
	reMinutes = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(minutes?|mins?|m)\b`)
	reMMSS    = regexp.MustCompile(`\b(\d+):(\d{2})\b`)
	reSeconds = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(seconds?|secs?|s)\b`)
	reBars    = regexp.MustCompile(`(?i)(\d+)\s*bars?\b`)
	reBeats   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*beats?\b`)
)

// Parse recognizes a duration expression and returns its canonical form, or
// ok=false if nothing in the grammar matched. The first pattern to match in
// the fixed order (minutes, MM:SS, seconds, bars, beats) wins, even if a
// later pattern would also match a different substring.
func Parse(text string) (req model.DurationRequest, ok bool) {
	if m := reMinutes.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return model.DurationRequest{Kind: model.DurationMinutes, Minutes: v}, true
		}
	}
	if m := reMMSS.FindStringSubmatch(text); m != nil {
		mm, errM := strconv.Atoi(m[1])
		ss, errS := strconv.Atoi(m[2])
		if errM == nil && errS == nil {
			return model.DurationRequest{Kind: model.DurationMMSS, Seconds: float64(mm*60 + ss)}, true
		}
	}
	if m := reSeconds.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return model.DurationRequest{Kind: model.DurationSeconds, Seconds: v}, true
		}
	}
	if m := reBars.FindStringSubmatch(text); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			return model.DurationRequest{Kind: model.DurationBars, Bars: v}, true
		}
	}
	if m := reBeats.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return model.DurationRequest{Kind: model.DurationBeats, Beats: v}, true
		}
	}
	return model.DurationRequest{}, false
}

// ToSeconds converts a canonical request to wall-clock seconds given a tempo
// (BPM) and beats-per-bar (time signature numerator, 4 for 4/4).
func ToSeconds(req model.DurationRequest, tempoBPM int, beatsPerBar int) float64 {
	if tempoBPM <= 0 {
		tempoBPM = 120
	}
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}
	secPerBeat := 60.0 / float64(tempoBPM)
	switch req.Kind {
	case model.DurationMinutes:
		return req.Minutes * 60.0
	case model.DurationSeconds, model.DurationMMSS:
		return req.Seconds
	case model.DurationBars:
		return float64(req.Bars*beatsPerBar) * secPerBeat
	case model.DurationBeats:
		return req.Beats * secPerBeat
	default:
		return defaultSeconds
	}
}

// ToBars converts a canonical request to a whole number of bars, rounding to
// the nearest bar.
func ToBars(req model.DurationRequest, tempoBPM int, beatsPerBar int) int {
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}
	secs := ToSeconds(req, tempoBPM, beatsPerBar)
	secPerBar := (60.0 / float64(nonZeroTempo(tempoBPM))) * float64(beatsPerBar)
	bars := int(secs/secPerBar + 0.5)
	if bars < 1 {
		bars = 1
	}
	return bars
}

func nonZeroTempo(t int) int {
	if t <= 0 {
		return 120
	}
	return t
}

// Validate clamps a request's equivalent seconds to [minSeconds,
// maxSeconds], returning a request with Clamped/Warning populated when an
// adjustment was needed. tempoBPM/beatsPerBar are needed to round-trip
// bar/beat expressions through seconds for the clamp check.
func Validate(req model.DurationRequest, tempoBPM, beatsPerBar int) model.DurationRequest {
	secs := ToSeconds(req, tempoBPM, beatsPerBar)
	if secs < minSeconds {
		return model.DurationRequest{
			Kind: model.DurationSeconds, Seconds: minSeconds,
			Clamped: true,
			Warning: fmt.Sprintf("duration %.1fs below minimum, clamped to %.0fs", secs, minSeconds),
		}
	}
	if secs > maxSeconds {
		return model.DurationRequest{
			Kind: model.DurationSeconds, Seconds: maxSeconds,
			Clamped: true,
			Warning: fmt.Sprintf("duration %.1fs above maximum, clamped to %.0fs", secs, maxSeconds),
		}
	}
	return req
}

// Default returns the canonical 60-second default duration used when no
// duration was specified at all.
func Default() model.DurationRequest {
	return model.DurationRequest{Kind: model.DurationSeconds, Seconds: defaultSeconds}
}

// ParseOrDefault is a convenience wrapper: parse text, falling back to the
// default duration (with no warning) if text is empty or unrecognized.
func ParseOrDefault(text string) model.DurationRequest {
	text = strings.TrimSpace(text)
	if text == "" {
		return Default()
	}
	if req, ok := Parse(text); ok {
		return req
	}
	return Default()
}
