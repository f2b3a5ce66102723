// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package midiwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func sampleTracks() []model.Track {
	return []model.Track{
		{
			Name: "lead", TrackType: model.TrackLead, Channel: 0, Program: 4,
			Notes: []model.Note{
				{Pitch: 60, StartTime: 0, Duration: 1, Velocity: 90},
				{Pitch: 64, StartTime: 1, Duration: 1, Velocity: 90},
			},
		},
		{
			Name: "drums", TrackType: model.TrackDrums, Channel: 9, Program: 0,
			Notes: []model.Note{
				{Pitch: 36, StartTime: 0, Duration: 0.1, Velocity: 100},
				{Pitch: 38, StartTime: 1, Duration: 0.1, Velocity: 95},
			},
		},
	}
}

func TestEncodeProducesValidHeader(t *testing.T) {
	data := Encode(sampleTracks(), 120, 4)
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Fatal("expected file to start with MThd chunk id")
	}
	// chunk length (6), format (1), numTracks (3 = conductor + 2 instrument), division (480)
	want := []byte{0, 0, 0, 6, 0, 1, 0, 3, 0x01, 0xE0}
	got := data[4:14]
	if !bytes.Equal(got, want) {
		t.Errorf("header mismatch: got % x, want % x", got, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a := Encode(sampleTracks(), 120, 4)
	b := Encode(sampleTracks(), 120, 4)
	if !bytes.Equal(a, b) {
		t.Error("Encode produced different bytes for identical inputs")
	}
}

func TestEncodeForcesDrumChannelRegardlessOfConfig(t *testing.T) {
	tracks := sampleTracks()
	tracks[1].Channel = 3 // wrong on purpose; midiwriter must still force channel 9
	data := Encode(tracks, 120, 4)

	// the program-change status byte for the drum track must carry channel 9
	// (0xC9), never the misconfigured 0xC3.
	if bytes.Contains(data, []byte{0xC3}) {
		t.Error("drum track's program change leaked a non-9 channel nibble")
	}
}

func TestEncodeEachTrackEndsWithEndOfTrack(t *testing.T) {
	data := Encode(sampleTracks(), 120, 4)
	eot := []byte{0xFF, 0x2F, 0x00}
	count := bytes.Count(data, eot)
	// conductor + 2 instrument tracks = 3 end-of-track markers
	if count != 3 {
		t.Errorf("expected 3 end-of-track markers, found %d", count)
	}
}

func TestVlqRoundTripsKnownValues(t *testing.T) {
	cases := map[uint32][]byte{
		0:       {0x00},
		0x40:    {0x40},
		0x7F:    {0x7F},
		0x80:    {0x81, 0x00},
		0x2000:  {0xC0, 0x00},
		0x1FFFFF: {0xFF, 0xFF, 0x7F},
	}
	for n, want := range cases {
		got := vlq(n)
		if !bytes.Equal(got, want) {
			t.Errorf("vlq(0x%X) = % x, want % x", n, got, want)
		}
	}
}

func TestFilenameFollowsNamingConvention(t *testing.T) {
	at := time.Date(2026, 7, 30, 14, 5, 9, 0, time.UTC)
	name := Filename("lofi", "abcdef1234567890", at)
	want := "midigen_lofi_abcdef12_20260730_140509.mid"
	if name != want {
		t.Errorf("Filename() = %q, want %q", name, want)
	}
}

func TestFilenameFallsBackWhenSessionIDEmpty(t *testing.T) {
	at := time.Date(2026, 7, 30, 14, 5, 9, 0, time.UTC)
	name := Filename("pop", "", at)
	want := "midigen_pop_nosession_20260730_140509.mid"
	if name != want {
		t.Errorf("Filename() = %q, want %q", name, want)
	}
}

func TestEncodeSkipsZeroVelocityOrDurationNotes(t *testing.T) {
	tracks := []model.Track{{
		Name: "lead", TrackType: model.TrackLead, Channel: 0, Program: 0,
		Notes: []model.Note{
			{Pitch: 60, StartTime: 0, Duration: 1, Velocity: 0},
			{Pitch: 62, StartTime: 1, Duration: 0, Velocity: 80},
			{Pitch: 64, StartTime: 2, Duration: 1, Velocity: 80},
		},
	}}
	data := Encode(tracks, 120, 4)
	// only pitch 64's note-on (0x90 0x40 0x50) should survive
	if !bytes.Contains(data, []byte{0x90, 64, 80}) {
		t.Error("expected the valid note to be encoded")
	}
	if bytes.Contains(data, []byte{0x90, 60, 0}) || bytes.Contains(data, []byte{0x90, 62, 80}) {
		t.Error("expected zero-velocity and zero-duration notes to be skipped")
	}
}
