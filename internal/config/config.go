// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the process-wide TOML overlay and sets up
// structured logging, replacing the teacher's bare log-to-file setup in
// main.go with github.com/sirupsen/logrus while keeping its "log to a
// file, fail loud on fatal errors" shape.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
)

// knowledgeOverlay is the TOML-tagged shape of a knowledge.Overlay entry.
type knowledgeOverlay struct {
	Genre       string              `toml:"genre"`
	TempoLow    int                 `toml:"tempo_low"`
	TempoHi     int                 `toml:"tempo_hi"`
	Instruments map[string][]string `toml:"instruments"`
}

// Config is the full process configuration, loaded once at startup.
type Config struct {
	OutputDir               string             `toml:"output_dir"`
	DefaultHistoryCapacity  int                `toml:"default_history_capacity"`
	RefinementThreshold     float64            `toml:"refinement_threshold"`
	MaxRefinementIterations int                `toml:"max_refinement_iterations"`
	LogFile                 string             `toml:"log_file"`
	LogLevel                string             `toml:"log_level"`
	KnowledgeOverlays       []knowledgeOverlay `toml:"knowledge_overlay"`
}

// ApplyKnowledgeOverlays pushes cfg's knowledge-base overrides into the
// knowledge package's compiled-in tables. Call once at process start,
// before the first generation.
func (cfg Config) ApplyKnowledgeOverlays() {
	overlays := make([]knowledge.Overlay, 0, len(cfg.KnowledgeOverlays))
	for _, o := range cfg.KnowledgeOverlays {
		overlays = append(overlays, knowledge.Overlay{
			Genre: o.Genre, TempoLow: o.TempoLow, TempoHi: o.TempoHi, Instruments: o.Instruments,
		})
	}
	knowledge.ApplyOverlay(overlays)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		OutputDir:               ".",
		DefaultHistoryCapacity:  100,
		RefinementThreshold:     0.75,
		MaxRefinementIterations: 2,
		LogFile:                 "midigen.log",
		LogLevel:                "info",
	}
}

// Load reads a TOML config file, overlaying its values onto Default().
// A missing file is not an error: the defaults apply unchanged, mirroring
// the teacher's tolerance for an absent optional flag.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SetupLogging opens cfg.LogFile for append and routes logrus output
// there at cfg.LogLevel, the same "log to a file, fail loud on open
// failure" shape as the teacher's main.go. Returns the file so the caller
// can close it on shutdown.
func SetupLogging(cfg Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", cfg.LogFile, err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	return f, nil
}
