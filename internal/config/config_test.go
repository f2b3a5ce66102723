// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	want := Default()
	if cfg.OutputDir != want.OutputDir || cfg.RefinementThreshold != want.RefinementThreshold ||
		cfg.DefaultHistoryCapacity != want.DefaultHistoryCapacity || cfg.MaxRefinementIterations != want.MaxRefinementIterations {
		t.Errorf("expected defaults for a missing file, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "midigen.toml")
	content := `
output_dir = "/tmp/out"
refinement_threshold = 0.8
max_refinement_iterations = 3

[[knowledge_overlay]]
genre = "pop"
tempo_low = 100
tempo_hi = 140
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want /tmp/out", cfg.OutputDir)
	}
	if cfg.RefinementThreshold != 0.8 {
		t.Errorf("RefinementThreshold = %v, want 0.8", cfg.RefinementThreshold)
	}
	if len(cfg.KnowledgeOverlays) != 1 || cfg.KnowledgeOverlays[0].TempoLow != 100 {
		t.Errorf("expected one knowledge overlay with tempo_low 100, got %+v", cfg.KnowledgeOverlays)
	}
}

func TestApplyKnowledgeOverlaysUpdatesGenreTable(t *testing.T) {
	before := knowledge.Genre("rock")
	cfg := Config{KnowledgeOverlays: []knowledgeOverlay{{Genre: "rock", TempoLow: 200, TempoHi: 210}}}
	cfg.ApplyKnowledgeOverlays()
	after := knowledge.Genre("rock")
	if after.TempoLow != 200 || after.TempoHi != 210 {
		t.Errorf("expected overlay to set rock tempo range to [200,210], got [%d,%d]", after.TempoLow, after.TempoHi)
	}
	// restore so other tests in the package (and other packages sharing the
	// process in a full `go test ./...` run) see the original profile.
	restore := Config{KnowledgeOverlays: []knowledgeOverlay{{Genre: "rock", TempoLow: before.TempoLow, TempoHi: before.TempoHi}}}
	restore.ApplyKnowledgeOverlays()
}
