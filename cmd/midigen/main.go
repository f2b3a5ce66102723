// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
/*
midigen generates original, multi-track MIDI compositions from a short
description of genre, mood and duration.

Command line usage is

   midigen [-h] [-genre pop] [-mode major] [-energy medium] [-tempo 120]
           [-duration "2 minutes"] [-session ID] [-config path] [-watch]
           [-serve] [-addr :8080] [-retempo path -tempo 90]
*/
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Michael-F-Ellis/midigen/internal/config"
	"github.com/Michael-F-Ellis/midigen/internal/duration"
	"github.com/Michael-F-Ellis/midigen/internal/httpapi"
	"github.com/Michael-F-Ellis/midigen/internal/miditempo"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/orchestrator"
	"github.com/Michael-F-Ellis/midigen/internal/quality"
	"github.com/Michael-F-Ellis/midigen/internal/sessionstore"
	"github.com/Michael-F-Ellis/midigen/internal/tui"
)

const description = `
midigen generates ear-pleasing, original MIDI compositions from a short
description of genre, mood, key and duration.

You can run it from the command line (cli mode) to write a single
composition to the current working directory, or as a web server (server
mode) that accepts the same parameters as a JSON POST body and streams
back the finished file.

Session history (used to keep successive generations from sounding too
similar to one another) persists across invocations in a small SQLite
database; pass -session to continue the same run of generations, or
leave it blank to start a fresh one.
`

func usage() {
	fmt.Printf("Usage: midigen [OPTIONS]\n  -h    print this help message.\n")
	flag.PrintDefaults()
	fmt.Println(description)
}

func main() {
	flag.Usage = usage

	var genre string
	flag.StringVar(&genre, "genre", "pop", "genre: pop, rock, jazz, classical, electronic, lofi, ambient, cinematic, funk, rnb")

	var mode string
	flag.StringVar(&mode, "mode", "major", "mode: major or minor")

	var root int
	flag.IntVar(&root, "root", 0, "tonic pitch class, 0=C .. 11=B")

	var tempo int
	flag.IntVar(&tempo, "tempo", 0, "tempo in BPM; 0 uses the genre's default range")

	var energy string
	flag.StringVar(&energy, "energy", "medium", "energy: low, medium, or high")

	var durationText string
	flag.StringVar(&durationText, "duration", "60s", `length, e.g. "90s", "2 minutes", "1:30", "16 bars"`)

	var trackCount int
	flag.IntVar(&trackCount, "tracks", 0, "requested track count (1-8); 0 lets the genre decide")

	var sessionID string
	flag.StringVar(&sessionID, "session", "", "session id to thread uniqueness history across runs; blank starts a new one")

	var outputDir string
	flag.StringVar(&outputDir, "out", ".", "directory to write the generated MIDI file to")

	var configPath string
	flag.StringVar(&configPath, "config", "", "path to an optional TOML config file")

	var dbPath string
	flag.StringVar(&dbPath, "db", "midigen_sessions.db", "path to the session-history SQLite database")

	var watch bool
	flag.BoolVar(&watch, "watch", false, "show a live pipeline-progress view while generating")

	var serve bool
	flag.BoolVar(&serve, "serve", false, "run as an HTTP server instead of generating once")

	var addr string
	flag.StringVar(&addr, "addr", "localhost:8080", "address to listen on (server mode only)")

	var retempoPath string
	flag.StringVar(&retempoPath, "retempo", "", "path to an existing midigen file to rewrite in place at -tempo, skipping generation entirely")

	flag.Parse()

	if retempoPath != "" {
		if tempo == 0 {
			log.Fatal("-retempo requires -tempo to be set")
		}
		if err := miditempo.RetempoFile(retempoPath, tempo); err != nil {
			log.Fatalf("retempo failed: %v", err)
		}
		fmt.Printf("rewrote %s at %d bpm\n", retempoPath, tempo)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg.ApplyKnowledgeOverlays()
	if cfg.RefinementThreshold > 0 {
		quality.RefinementThreshold = cfg.RefinementThreshold
	}

	logf, err := config.SetupLogging(cfg)
	if err != nil {
		log.Fatalf("setting up logging: %v", err)
	}
	defer logf.Close()

	store, err := sessionstore.Open(dbPath)
	if err != nil {
		log.Fatalf("opening session store %s: %v", dbPath, err)
	}
	defer store.Close()

	if serve {
		runServer(cfg, store, addr)
		return
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	intent, err := buildIntent(genre, mode, energy, durationText, sessionID, root, tempo, trackCount)
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	history, err := store.Load(sessionID)
	if err != nil {
		log.Fatalf("loading session history: %v", err)
	}

	opts := orchestrator.Options{OutputDir: outputDir, MaxRefinementIterations: cfg.MaxRefinementIterations}

	var path string
	var report model.QualityReport
	var updated model.SessionHistory
	if watch {
		path, report, updated, err = tui.Run(intent, history, opts)
	} else {
		opts.Hook = func(stage, detail string) { fmt.Printf("%-12s %s\n", stage, detail) }
		path, report, updated, err = orchestrator.GenerateWithOptions(intent, history, opts)
	}
	if err != nil {
		log.Fatalf("generation failed: %v", err)
	}

	if err := store.Save(sessionID, updated); err != nil {
		logrus.WithError(err).Warn("could not persist session history")
	}

	fmt.Printf("wrote %s (quality %.2f, session %s)\n", path, report.Overall, sessionID)
}

func runServer(cfg config.Config, store *sessionstore.Store, addr string) {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	server := httpapi.New(outputDir, store, cfg.MaxRefinementIterations)
	logrus.WithField("addr", addr).Info("midigen server starting")
	if err := server.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func buildIntent(genre, mode, energy, durationText, sessionID string, root, tempo, trackCount int) (model.Intent, error) {
	dur, ok := duration.Parse(durationText)
	if !ok {
		return model.Intent{}, fmt.Errorf("could not parse duration %q", durationText)
	}
	return model.Intent{
		Action:              model.ActionNew,
		Genre:               genre,
		Mode:                model.Mode(mode),
		Root:                root,
		RequestedTempo:      tempo,
		Energy:              model.Energy(energy),
		RequestedTrackCount: trackCount,
		Duration:            dur,
		SessionID:           sessionID,
	}, nil
}
