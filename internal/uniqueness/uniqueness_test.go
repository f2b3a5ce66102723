// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package uniqueness

import (
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func sampleTracksA() []model.Track {
	return []model.Track{
		{Name: "lead", TrackType: model.TrackLead, Notes: []model.Note{
			{Pitch: 60, StartTime: 0, Duration: 1, Velocity: 80},
			{Pitch: 64, StartTime: 1, Duration: 1, Velocity: 80},
			{Pitch: 67, StartTime: 2, Duration: 1, Velocity: 80},
			{Pitch: 65, StartTime: 3, Duration: 1, Velocity: 80},
		}},
		{Name: "harmony", TrackType: model.TrackHarmony, Notes: []model.Note{
			{Pitch: 48, StartTime: 0, Duration: 4, Velocity: 70},
			{Pitch: 52, StartTime: 0, Duration: 4, Velocity: 70},
			{Pitch: 53, StartTime: 4, Duration: 4, Velocity: 70},
		}},
	}
}

func sampleTracksB() []model.Track {
	return []model.Track{
		{Name: "lead", TrackType: model.TrackLead, Notes: []model.Note{
			{Pitch: 72, StartTime: 0.1, Duration: 0.5, Velocity: 90},
			{Pitch: 69, StartTime: 0.6, Duration: 0.5, Velocity: 90},
			{Pitch: 65, StartTime: 1.2, Duration: 0.5, Velocity: 90},
			{Pitch: 60, StartTime: 1.9, Duration: 0.5, Velocity: 90},
		}},
		{Name: "harmony", TrackType: model.TrackHarmony, Notes: []model.Note{
			{Pitch: 41, StartTime: 0, Duration: 2, Velocity: 60},
			{Pitch: 44, StartTime: 0, Duration: 2, Velocity: 60},
			{Pitch: 46, StartTime: 2.3, Duration: 2, Velocity: 60},
		}},
	}
}

func sampleSectionsA() []model.Section {
	return []model.Section{
		{Name: model.SectionIntro, StartBar: 0, EndBar: 4, EnergyLevel: 0.4, DensityLevel: 0.5},
		{Name: model.SectionChorus, StartBar: 4, EndBar: 12, EnergyLevel: 0.9, DensityLevel: 0.9},
		{Name: model.SectionOutro, StartBar: 12, EndBar: 16, EnergyLevel: 0.5, DensityLevel: 0.5},
	}
}

func TestSignatureIsDeterministic(t *testing.T) {
	tracks := sampleTracksA()
	sections := sampleSectionsA()
	a := Signature(tracks, sections, 120, "pop")
	b := Signature(tracks, sections, 120, "pop")
	if a != b {
		t.Errorf("Signature is not deterministic for identical inputs: %+v vs %+v", a, b)
	}
}

func TestSimilarityOfIdenticalCompositionsIsHigh(t *testing.T) {
	tracks := sampleTracksA()
	sections := sampleSectionsA()
	sig := Signature(tracks, sections, 120, "pop")
	sim := Similarity(sig, sig)
	if sim < 0.95 {
		t.Errorf("expected near-1.0 similarity comparing a signature to itself, got %v", sim)
	}
}

func TestSimilarityOfDifferentCompositionsIsLow(t *testing.T) {
	sigA := Signature(sampleTracksA(), sampleSectionsA(), 90, "jazz")
	sigB := Signature(sampleTracksB(), sampleSectionsA(), 170, "electronic")
	sim := Similarity(sigA, sigB)
	if sim > 0.5 {
		t.Errorf("expected low similarity between distinct compositions, got %v", sim)
	}
}

func TestMaxSimilarityOnEmptyHistory(t *testing.T) {
	sig := Signature(sampleTracksA(), sampleSectionsA(), 120, "pop")
	sim, idx := MaxSimilarity(sig, model.NewSessionHistory())
	if sim != 0.0 || idx != -1 {
		t.Errorf("expected (0.0, -1) against empty history, got (%v, %v)", sim, idx)
	}
}

func TestMaxSimilarityFindsClosestEntry(t *testing.T) {
	sig := Signature(sampleTracksA(), sampleSectionsA(), 120, "pop")
	other := Signature(sampleTracksB(), sampleSectionsA(), 170, "electronic")

	hist := model.NewSessionHistory()
	hist.Push(model.HistoryEntry{Signature: other})
	hist.Push(model.HistoryEntry{Signature: sig})

	sim, idx := MaxSimilarity(sig, hist)
	if idx != 1 {
		t.Errorf("expected the identical entry (index 1) to be the closest match, got index %v", idx)
	}
	if sim < 0.95 {
		t.Errorf("expected near-1.0 similarity against the identical history entry, got %v", sim)
	}
}

func TestAcceptAlwaysAcceptsBelowThreshold(t *testing.T) {
	sig := Signature(sampleTracksA(), sampleSectionsA(), 90, "jazz")
	other := Signature(sampleTracksB(), sampleSectionsA(), 170, "electronic")
	hist := model.NewSessionHistory()
	hist.Push(model.HistoryEntry{Signature: other})

	accepted, sim := Accept(sig, hist, 2)
	if !accepted {
		t.Errorf("expected acceptance when similarity %v is below threshold %v", sim, SimilarityThreshold)
	}
}

func TestAcceptRejectsNearDuplicateWithAttemptsRemaining(t *testing.T) {
	tracks := sampleTracksA()
	sections := sampleSectionsA()
	sig := Signature(tracks, sections, 120, "pop")
	hist := model.NewSessionHistory()
	hist.Push(model.HistoryEntry{Signature: sig})

	accepted, sim := Accept(sig, hist, 1)
	if accepted {
		t.Errorf("expected rejection for a near-duplicate (similarity %v) with attempts remaining", sim)
	}
}

func TestAcceptBoundedEffortAcceptsWhenAttemptsExhausted(t *testing.T) {
	tracks := sampleTracksA()
	sections := sampleSectionsA()
	sig := Signature(tracks, sections, 120, "pop")
	hist := model.NewSessionHistory()
	hist.Push(model.HistoryEntry{Signature: sig})

	accepted, _ := Accept(sig, hist, 0)
	if !accepted {
		t.Error("expected bounded-effort acceptance once refinement attempts are exhausted")
	}
}

func TestLcsRatioHandlesEmptyStrings(t *testing.T) {
	if lcsRatio("", "60,64,67") != 0 {
		t.Error("expected 0 similarity when one side is empty")
	}
	if lcsRatio("", "") != 0 {
		t.Error("expected 0 similarity when both sides are empty")
	}
}
