// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package orchestrator

import (
	"os"
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func baseIntent() model.Intent {
	return model.Intent{
		Action: model.ActionNew, Genre: "pop", Mode: model.ModeMajor, Root: 0,
		Energy: model.EnergyMedium, RequestedTempo: 120,
		Duration:  model.DurationRequest{Kind: model.DurationBars, Bars: 8},
		SessionID: "test-session-0001",
	}
}

func TestGenerateProducesAPlayableFile(t *testing.T) {
	dir := t.TempDir()
	path, report, updated, err := GenerateWithOptions(baseIntent(), model.NewSessionHistory(), Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected a midi file at %s: %v", path, statErr)
	}
	if report.Overall < 0 || report.Overall > 1 {
		t.Errorf("overall score %v out of [0,1]", report.Overall)
	}
	if len(updated.Entries) != 1 {
		t.Errorf("expected session history to gain one entry, got %d", len(updated.Entries))
	}
}

func TestGenerateDegradesUnknownGenreToOther(t *testing.T) {
	intent := baseIntent()
	intent.Genre = "not_a_real_genre"
	dir := t.TempDir()
	path, _, _, err := GenerateWithOptions(intent, model.NewSessionHistory(), Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("expected an unknown genre to degrade to \"other\", got error: %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected a midi file at %s: %v", path, statErr)
	}
}

func TestGenerateRejectsOutOfRangeTempo(t *testing.T) {
	intent := baseIntent()
	intent.RequestedTempo = 999
	dir := t.TempDir()
	_, _, _, err := GenerateWithOptions(intent, model.NewSessionHistory(), Options{OutputDir: dir})
	if err == nil {
		t.Fatal("expected an error for an out-of-range tempo")
	}
}

func TestGenerateHonorsStageHook(t *testing.T) {
	dir := t.TempDir()
	var stages []string
	opts := Options{OutputDir: dir, Hook: func(stage, detail string) { stages = append(stages, stage) }}
	_, _, _, err := GenerateWithOptions(baseIntent(), model.NewSessionHistory(), opts)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	seen := map[string]bool{}
	for _, s := range stages {
		seen[s] = true
	}
	for _, want := range []string{"planning", "generating", "reviewing", "serializing", "done"} {
		if !seen[want] {
			t.Errorf("expected stage hook to observe %q, saw %v", want, stages)
		}
	}
}

func TestGenerateHonorsConfiguredMaxRefinementIterations(t *testing.T) {
	dir := t.TempDir()
	intent := baseIntent()
	intent.RequestedTempo = 200 // far outside pop's range: a hard violation on every pass, so refinement always wants to run
	refining := 0
	opts := Options{OutputDir: dir, MaxRefinementIterations: 1, Hook: func(stage, detail string) {
		if stage == "refining" {
			refining++
		}
	}}
	_, _, _, err := GenerateWithOptions(intent, model.NewSessionHistory(), opts)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if refining != 1 {
		t.Errorf("expected exactly 1 refinement pass with MaxRefinementIterations 1, got %d", refining)
	}
}

func TestGenerateAppendsSignatureEvenOnRepeatedCalls(t *testing.T) {
	dir := t.TempDir()
	hist := model.NewSessionHistory()
	_, _, hist, err := GenerateWithOptions(baseIntent(), hist, Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	_, _, hist, err = GenerateWithOptions(baseIntent(), hist, Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	if len(hist.Entries) != 2 {
		t.Errorf("expected 2 history entries after two generations, got %d", len(hist.Entries))
	}
}
