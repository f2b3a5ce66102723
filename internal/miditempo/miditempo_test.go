// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package miditempo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/midiwriter"
	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func sampleMidi(tempoBPM int) []byte {
	tracks := []model.Track{
		{
			Name: "lead:acoustic_grand_piano", TrackType: model.TrackLead, Channel: 0, Program: 0,
			Notes: []model.Note{{Pitch: 60, Velocity: 100, StartTime: 0, Duration: 1}},
		},
	}
	return midiwriter.Encode(tracks, tempoBPM, 4)
}

func TestReadTempoFindsTheEncodedBPM(t *testing.T) {
	data := sampleMidi(120)
	_, micros, err := ReadTempo(data)
	if err != nil {
		t.Fatalf("ReadTempo: %v", err)
	}
	if want := uint32(60_000_000 / 120); micros != want {
		t.Errorf("microseconds = %d, want %d", micros, want)
	}
}

func TestReadTempoErrorsOnDataWithNoTempoEvent(t *testing.T) {
	_, _, err := ReadTempo([]byte{0x00, 0x01, 0x02})
	if err == nil {
		t.Error("expected an error for data with no tempo event")
	}
}

func TestSetTempoRewritesTheEvent(t *testing.T) {
	data := sampleMidi(120)
	rewritten, err := SetTempo(data, 90)
	if err != nil {
		t.Fatalf("SetTempo: %v", err)
	}
	_, micros, err := ReadTempo(rewritten)
	if err != nil {
		t.Fatalf("ReadTempo after rewrite: %v", err)
	}
	if want := uint32(60_000_000 / 90); micros != want {
		t.Errorf("microseconds after rewrite = %d, want %d", micros, want)
	}
	if len(rewritten) != len(data) {
		t.Errorf("expected rewrite to preserve file length, got %d want %d", len(rewritten), len(data))
	}
}

func TestSetTempoDoesNotMutateTheInput(t *testing.T) {
	data := sampleMidi(120)
	original := append([]byte{}, data...)
	if _, err := SetTempo(data, 200); err != nil {
		t.Fatalf("SetTempo: %v", err)
	}
	for i := range data {
		if data[i] != original[i] {
			t.Fatalf("input data mutated at byte %d", i)
		}
	}
}

func TestSetTempoRejectsOutOfRangeBPM(t *testing.T) {
	data := sampleMidi(120)
	if _, err := SetTempo(data, 500); err == nil {
		t.Error("expected an error for an out-of-range bpm")
	}
}

func TestRetempoFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mid")
	data := sampleMidi(120)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := RetempoFile(path, 80); err != nil {
		t.Fatalf("RetempoFile: %v", err)
	}
	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	_, micros, err := ReadTempo(rewritten)
	if err != nil {
		t.Fatalf("ReadTempo: %v", err)
	}
	if want := uint32(60_000_000 / 80); micros != want {
		t.Errorf("microseconds = %d, want %d", micros, want)
	}
}
