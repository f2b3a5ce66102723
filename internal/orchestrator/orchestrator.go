// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package orchestrator runs the full composition pipeline for one
// generation: track planning, section structure, per-section track
// generation, humanizing, quality review, a bounded refinement loop,
// the uniqueness guard, and MIDI serialization. It owns the single
// per-generation variation engine and the working CompositionState.
package orchestrator

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Michael-F-Ellis/midigen/internal/duration"
	"github.com/Michael-F-Ellis/midigen/internal/generators"
	"github.com/Michael-F-Ellis/midigen/internal/humanize"
	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/midiwriter"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/quality"
	"github.com/Michael-F-Ellis/midigen/internal/structure"
	"github.com/Michael-F-Ellis/midigen/internal/trackplan"
	"github.com/Michael-F-Ellis/midigen/internal/uniqueness"
	"github.com/Michael-F-Ellis/midigen/internal/valid"
	"github.com/Michael-F-Ellis/midigen/internal/variation"
)

const beatsPerBar = 4 // time signature is fixed at 4/4 across the core

// StageHook, when non-nil, is called on every state-machine transition so a
// caller (the CLI's --watch TUI, an HTTP progress stream) can observe
// pipeline progress without polling CompositionState.
type StageHook func(stage string, detail string)

// Options configures one Generate call beyond the fixed Intent/history
// contract: where to write the finished MIDI file and an optional
// progress hook.
type Options struct {
	OutputDir               string
	Hook                    StageHook
	PlanTrack               trackplan.PlanFunc // nil uses trackplan.Plan
	MaxRefinementIterations int                 // <= 0 uses the default of 2
}

var log = logrus.WithField("component", "orchestrator")

// Generate runs one full composition and returns the path to the written
// MIDI file, its quality report, and the session history updated with this
// composition's signature.
func Generate(intent model.Intent, history model.SessionHistory) (string, model.QualityReport, model.SessionHistory, error) {
	return GenerateWithOptions(intent, history, Options{})
}

// GenerateWithOptions is Generate with ambient configuration (output
// directory, progress hook, an alternate track-planning strategy). Callers
// that don't need those should use Generate.
func GenerateWithOptions(intent model.Intent, history model.SessionHistory, opts Options) (string, model.QualityReport, model.SessionHistory, error) {
	state := model.NewCompositionState(intent, opts.MaxRefinementIterations)
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	planFn := opts.PlanTrack
	if planFn == nil {
		planFn = trackplan.Plan
	}

	transition := func(stage, detail string) {
		log.WithFields(logrus.Fields{"stage": stage, "attempt": state.RefinementAttempts}).Info(detail)
		if opts.Hook != nil {
			opts.Hook(stage, detail)
		}
	}

	// planning
	transition("planning", "validating intent")
	if err := validateIntent(intent); err != nil {
		state.Error = &model.StateError{Kind: model.ErrKindPlan, Message: err.Error(), Fatal: true}
		return "", model.QualityReport{}, history, state.Error
	}

	tempo := resolveTempo(intent)
	bars := resolveBars(intent, tempo)

	configs, err := planFn(intent)
	if err != nil {
		state.Error = &model.StateError{Kind: model.ErrKindPlan, Message: err.Error(), Fatal: true}
		return "", model.QualityReport{}, history, state.Error
	}
	state.TrackPlan = configs

	sections := structure.Plan(bars, intent.Energy)
	state.Sections = sections

	// generating
	transition("generating", fmt.Sprintf("generating %d tracks across %d sections", len(configs), len(sections)))
	eng := variation.New(time.Now().UnixNano(), intent.SessionID, len(history.Entries))

	tracks := buildAll(configs, sections, intent, eng, nil, nil)
	tracks = humanizeAll(tracks, intent.Genre, eng, nil)
	state.GeneratedTracks = tracks

	requestedSeconds := duration.ToSeconds(intent.Duration, tempo, beatsPerBar)
	actualSeconds := float64(bars*beatsPerBar) * (60.0 / float64(tempo))

	// reviewing / refining loop
	transition("reviewing", "scoring composition")
	report := quality.Review(intent, tracks, sections, requestedSeconds, actualSeconds, beatsPerBar)
	for report.NeedsRefinement && state.RefinementAttempts < state.MaxRefinementIterations {
		transition("refining", "regenerating suggested tracks")
		targets := suggestionTargets(report.Suggestions, configs)
		tracks = buildAll(configs, sections, intent, eng, tracks, targets)
		tracks = humanizeAll(tracks, intent.Genre, eng, targets)
		state.RefinementAttempts++
		state.GeneratedTracks = tracks
		transition("reviewing", "re-scoring after refinement")
		report = quality.Review(intent, tracks, sections, requestedSeconds, actualSeconds, beatsPerBar)
	}

	// uniqueness guard
	sig := uniqueness.Signature(tracks, sections, tempo, intent.Genre)
	for {
		attemptsLeft := state.MaxRefinementIterations - state.RefinementAttempts
		accepted, similarity := uniqueness.Accept(sig, history, attemptsLeft)
		if accepted {
			if similarity >= uniqueness.SimilarityThreshold {
				report.Issues = append(report.Issues, model.Issue{
					Kind: model.IssueUniqueness, Severity: model.SeverityMedium,
					Description: fmt.Sprintf("similarity %.2f to recent history exceeds threshold but refinement budget is exhausted; accepting", similarity),
				})
			}
			break
		}
		transition("refining", fmt.Sprintf("regenerating: similarity %.2f to recent history", similarity))
		report.Issues = append(report.Issues, model.Issue{
			Kind: model.IssueRepetition, Severity: model.SeverityHigh,
			Description: fmt.Sprintf("candidate similarity %.2f exceeds threshold %.2f", similarity, uniqueness.SimilarityThreshold),
		})
		tracks = buildAll(configs, sections, intent, eng, tracks, nil)
		tracks = humanizeAll(tracks, intent.Genre, eng, nil)
		state.RefinementAttempts++
		state.GeneratedTracks = tracks
		report = quality.Review(intent, tracks, sections, requestedSeconds, actualSeconds, beatsPerBar)
		sig = uniqueness.Signature(tracks, sections, tempo, intent.Genre)
	}
	state.QualityReport = report

	// serializing
	transition("serializing", "writing midi file")
	path, err := midiwriter.Write(tracks, tempo, beatsPerBar, intent.Genre, intent.SessionID, outDir)
	if err != nil {
		state.Error = &model.StateError{Kind: model.ErrKindSerialization, Message: err.Error(), Fatal: true}
		return "", report, history, state.Error
	}
	state.FinalMIDIPath = path

	updated := history
	updated.Push(model.HistoryEntry{Signature: sig})

	transition("done", path)
	return path, report, updated, nil
}

func validateIntent(intent model.Intent) error {
	// An unrecognized genre is not an error: knowledge.Genre degrades it to
	// "other".
	if intent.RequestedTempo != 0 && !valid.Tempo(intent.RequestedTempo) {
		return fmt.Errorf("requested tempo %d out of range [20,300]", intent.RequestedTempo)
	}
	if intent.RequestedTrackCount != 0 && !valid.TrackCount(intent.RequestedTrackCount) {
		return fmt.Errorf("requested track count %d out of range [1,8]", intent.RequestedTrackCount)
	}
	return nil
}

func resolveTempo(intent model.Intent) int {
	if intent.RequestedTempo > 0 {
		return intent.RequestedTempo
	}
	g := knowledge.Genre(intent.Genre)
	return (g.TempoLow + g.TempoHi) / 2
}

func resolveBars(intent model.Intent, tempo int) int {
	req := intent.Duration
	if req.Kind == "" {
		req = duration.Default()
	}
	req = duration.Validate(req, tempo, beatsPerBar)
	return duration.ToBars(req, tempo, beatsPerBar)
}

// suggestionTargets converts quality suggestions into the set of track
// types to regenerate. A suggestion with TrackIndex -1 (an overall-scope
// directive) falls back to regenerating every track, since no single
// track was named.
func suggestionTargets(suggestions []model.Suggestion, configs []model.TrackConfig) map[model.TrackType]bool {
	targets := map[model.TrackType]bool{}
	for _, s := range suggestions {
		if s.TrackIndex < 0 || s.TrackIndex >= len(configs) {
			for _, c := range configs {
				targets[c.TrackType] = true
			}
			return targets
		}
		targets[configs[s.TrackIndex].TrackType] = true
	}
	return targets
}

func configForType(configs []model.TrackConfig, tt model.TrackType) (model.TrackConfig, bool) {
	for _, c := range configs {
		if c.TrackType == tt {
			return c, true
		}
	}
	return model.TrackConfig{}, false
}

// sliceBySections splits a track-global note list into one slice per
// section, converting StartTime back to section-local beats.
func sliceBySections(notes []model.Note, sections []model.Section) [][]model.Note {
	out := make([][]model.Note, len(sections))
	for i, sec := range sections {
		lo := float64(sec.StartBar * beatsPerBar)
		hi := float64(sec.EndBar * beatsPerBar)
		var bucket []model.Note
		for _, n := range notes {
			if n.StartTime >= lo && n.StartTime < hi {
				local := n
				local.StartTime -= lo
				bucket = append(bucket, local)
			}
		}
		out[i] = bucket
	}
	return out
}

func offsetNotes(notes []model.Note, offsetBeats int) []model.Note {
	out := make([]model.Note, len(notes))
	for i, n := range notes {
		out[i] = n
		out[i].StartTime += float64(offsetBeats)
	}
	return out
}

// buildAll generates note lists for every configured track. A nil
// regenerate map means regenerate everything, whether or not existing is
// also nil -- this covers both the first fresh build and a full rebuild
// seeded from a prior set of tracks (the uniqueness guard's retry, which
// wants every track regenerated but still needs per-section slicing of
// the superseded tracks for sibling context below). When regenerate is
// non-nil, only the track types present in it (true) are rebuilt;
// everything else is carried over unchanged from existing, but still
// sliced per section so dependent generators (counter-melody reading
// lead, bass/arpeggio reading harmony) see correct sibling context.
func buildAll(configs []model.TrackConfig, sections []model.Section, intent model.Intent, eng *variation.Engine, existing []model.Track, regenerate map[model.TrackType]bool) []model.Track {
	existingByType := map[model.TrackType]model.Track{}
	sectionLocal := map[model.TrackType][][]model.Note{}
	for _, t := range existing {
		existingByType[t.TrackType] = t
		sectionLocal[t.TrackType] = sliceBySections(t.Notes, sections)
	}

	finalNotes := map[model.TrackType][]model.Note{}
	for _, cfg := range configs {
		if existing != nil && regenerate != nil && !regenerate[cfg.TrackType] {
			if tr, ok := existingByType[cfg.TrackType]; ok {
				finalNotes[cfg.TrackType] = append([]model.Note{}, tr.Notes...)
			}
		}
	}

	var prevChord []int
	for secIdx, sec := range sections {
		sectionTracks := map[model.TrackType][]model.Note{}
		for _, tt := range generators.Order {
			cfg, ok := configForType(configs, tt)
			if !ok {
				continue
			}
			if existing != nil && regenerate != nil && !regenerate[tt] {
				var notes []model.Note
				if pre, ok := sectionLocal[tt]; ok && secIdx < len(pre) {
					notes = pre[secIdx]
				}
				sectionTracks[tt] = notes
				if tt == model.TrackHarmony {
					prevChord = generators.LastChord(notes)
				}
				continue
			}
			ctx := generators.Context{
				Config: cfg, Section: sec, Intent: intent, BeatsPerBar: beatsPerBar,
				Engine: eng, SectionTracks: sectionTracks, PrevChordVoicing: prevChord,
			}
			fn := generators.Dispatch[tt]
			notes := fn(ctx)
			sectionTracks[tt] = notes
			finalNotes[tt] = append(finalNotes[tt], offsetNotes(notes, sec.StartBar*beatsPerBar)...)
			if tt == model.TrackHarmony {
				prevChord = generators.LastChord(notes)
			}
		}
	}

	tracks := make([]model.Track, 0, len(configs))
	for _, cfg := range configs {
		tracks = append(tracks, model.Track{
			Name:       string(cfg.TrackType) + ":" + cfg.Instrument,
			TrackType:  cfg.TrackType,
			Instrument: cfg.Instrument,
			Channel:    cfg.Channel,
			Program:    cfg.Program,
			Notes:      finalNotes[cfg.TrackType],
		})
	}
	return tracks
}

// humanizeAll applies humanize.Apply to every track, or (when regenerate is
// non-nil) only to the tracks named in it, leaving previously humanized
// tracks untouched so a refinement pass doesn't re-jitter stable material.
// It draws from the composition's single owned engine rather than minting
// a new one, so repeated refinement passes stay within one generation's
// random stream.
func humanizeAll(tracks []model.Track, genre string, eng *variation.Engine, regenerate map[model.TrackType]bool) []model.Track {
	out := make([]model.Track, len(tracks))
	for i, tr := range tracks {
		if regenerate != nil && !regenerate[tr.TrackType] {
			out[i] = tr
			continue
		}
		humanized := tr
		humanized.Notes = humanize.Apply(tr.Notes, tr.TrackType, genre, beatsPerBar, eng)
		out[i] = humanized
	}
	return out
}
