// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package quality scores a finished track set against its governing intent
// across six weighted dimensions and decides whether the composition needs
// another refinement pass.
package quality

import (
	"fmt"
	"sort"

	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
)

// RefinementThreshold is the overall score below which a composition is
// flagged for refinement, absent a hard violation.
var RefinementThreshold = 0.75

const (
	weightMelodic   = 0.20
	weightHarmonic  = 0.20
	weightRhythmic  = 0.15
	weightStructural = 0.15
	weightTimbral    = 0.10
	weightEmotional  = 0.20
)

// Review computes a QualityReport for the given track set against intent,
// sections, and the requested duration in seconds.
func Review(intent model.Intent, tracks []model.Track, sections []model.Section, requestedSeconds, actualSeconds float64, beatsPerBar int) model.QualityReport {
	var issues []model.Issue
	var suggestions []model.Suggestion

	melodic := melodicScore(tracks)
	harmonic := harmonicScore(tracks)
	rhythmic := rhythmicScore(tracks, intent.Genre, beatsPerBar)
	structural := structuralScore(sections, requestedSeconds, actualSeconds)
	timbral, timbralIssue := timbralScore(tracks, intent.RequestedTrackCount)
	emotional, emoIssues := emotionalScore(intent, tracks)

	if timbralIssue != nil {
		issues = append(issues, *timbralIssue)
	}
	issues = append(issues, emoIssues...)

	for i, tr := range tracks {
		if len(tr.Notes) == 0 && sectionIsNotOutroOnly(sections) {
			issues = append(issues, model.Issue{
				TrackIndex: i, Kind: model.IssueDensity, Severity: model.SeverityMedium,
				Description: fmt.Sprintf("track %d (%s) produced no notes", i, tr.Name),
			})
			suggestions = append(suggestions, model.Suggestion{
				TrackIndex: i, Directive: fmt.Sprintf("regenerate track %d with higher density, target 0.6", i),
			})
		}
	}

	overall := weightMelodic*melodic + weightHarmonic*harmonic + weightRhythmic*rhythmic +
		weightStructural*structural + weightTimbral*timbral + weightEmotional*emotional

	hardViolation := hasHardViolation(issues)
	needsRefinement := overall < RefinementThreshold || hardViolation

	if needsRefinement && len(suggestions) == 0 {
		suggestions = append(suggestions, weakestDimensionSuggestion(melodic, harmonic, rhythmic, structural, timbral, emotional))
	}

	return model.QualityReport{
		Melodic: melodic, Harmonic: harmonic, Rhythmic: rhythmic,
		Structural: structural, Timbral: timbral, Emotional: emotional,
		Overall: overall, Issues: issues, NeedsRefinement: needsRefinement,
		Suggestions: suggestions,
	}
}

func hasHardViolation(issues []model.Issue) bool {
	for _, is := range issues {
		if is.Kind == model.IssueIntentMismatch && is.Severity == model.SeverityHigh {
			return true
		}
	}
	return false
}

func sectionIsNotOutroOnly(sections []model.Section) bool {
	for _, s := range sections {
		if s.Name != model.SectionOutro {
			return true
		}
	}
	return false
}

func isMelodic(t model.TrackType) bool {
	return t == model.TrackLead || t == model.TrackCounterMelody
}

// melodicScore averages normalized pitch range and contour/interval
// variety across melodic tracks.
func melodicScore(tracks []model.Track) float64 {
	var scores []float64
	for _, tr := range tracks {
		if !isMelodic(tr.TrackType) || len(tr.Notes) < 2 {
			continue
		}
		lo, hi := tr.Notes[0].Pitch, tr.Notes[0].Pitch
		pitches := make([]int, len(tr.Notes))
		for i, n := range tr.Notes {
			pitches[i] = n.Pitch
			if n.Pitch < lo {
				lo = n.Pitch
			}
			if n.Pitch > hi {
				hi = n.Pitch
			}
		}
		rangeScore := clamp01(float64(hi-lo) / 36.0)
		contour := 1 - absF(autocorrelationLag1(pitches))
		variety := intervalVariety(pitches)
		scores = append(scores, (rangeScore+contour+variety)/3)
	}
	return averageOr(scores, 0.5)
}

func autocorrelationLag1(series []int) float64 {
	n := len(series)
	if n < 3 {
		return 0
	}
	mean := 0.0
	for _, v := range series {
		mean += float64(v)
	}
	mean /= float64(n)

	var num, den float64
	for i := 0; i < n-1; i++ {
		num += (float64(series[i]) - mean) * (float64(series[i+1]) - mean)
	}
	for i := 0; i < n; i++ {
		den += (float64(series[i]) - mean) * (float64(series[i]) - mean)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func intervalVariety(pitches []int) float64 {
	if len(pitches) < 2 {
		return 0
	}
	seen := make(map[int]bool)
	total := 0
	for i := 1; i < len(pitches); i++ {
		d := pitches[i] - pitches[i-1]
		seen[d] = true
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(len(seen)) / float64(total)
}

// harmonicScore averages voice-leading smoothness across a composition's
// harmony tracks.
func harmonicScore(tracks []model.Track) float64 {
	var scores []float64
	for _, tr := range tracks {
		if tr.TrackType != model.TrackHarmony || len(tr.Notes) < 2 {
			continue
		}
		motion := 0
		comparisons := 0
		for i := 1; i < len(tr.Notes); i++ {
			d := tr.Notes[i].Pitch - tr.Notes[i-1].Pitch
			if d < 0 {
				d = -d
			}
			motion += d
			comparisons++
		}
		if comparisons == 0 {
			continue
		}
		mean := float64(motion) / float64(comparisons)
		smoothness := clamp01(1 - mean/12)
		scores = append(scores, smoothness)
	}
	return averageOr(scores, 0.5)
}

// rhythmTargets gives the genre-specific regularity/syncopation target
// (regularity fraction); score penalizes distance from this target.
var rhythmTargets = map[string]float64{
	"jazz": 0.4, "pop": 0.8, "rock": 0.75, "electronic": 0.6,
	"funk": 0.5, "classical": 0.85, "ambient": 0.9, "lofi": 0.55,
	"cinematic": 0.8, "rnb": 0.6,
}

func rhythmicScore(tracks []model.Track, genre string, beatsPerBar int) float64 {
	target, ok := rhythmTargets[genre]
	if !ok {
		target = 0.7
	}
	onGrid, total := 0, 0
	for _, tr := range tracks {
		for _, n := range tr.Notes {
			total++
			frac := n.StartTime - float64(int(n.StartTime))
			if frac < 0.05 || frac > 0.95 {
				onGrid++
			}
		}
	}
	if total == 0 {
		return 0.5
	}
	observed := float64(onGrid) / float64(total)
	return clamp01(1 - absF(observed-target))
}

func structuralScore(sections []model.Section, requestedSeconds, actualSeconds float64) float64 {
	durScore := 1.0
	if requestedSeconds > 0 {
		diff := absF(actualSeconds-requestedSeconds) / requestedSeconds
		durScore = clamp01(1 - diff/0.05)
	}
	envScore := 1.0
	for _, s := range sections {
		if s.EnergyLevel < 0 || s.EnergyLevel > 1 || s.DensityLevel < 0 || s.DensityLevel > 1 {
			envScore -= 0.1
		}
	}
	return clamp01((durScore + clamp01(envScore)) / 2)
}

func timbralScore(tracks []model.Track, requestedCount int) (float64, *model.Issue) {
	families := make(map[knowledge.InstrumentFamily]bool)
	for _, tr := range tracks {
		families[familyForTrack(tr)] = true
	}
	score := 0.5
	if len(tracks) > 0 {
		score = clamp01(float64(len(families)) / float64(len(tracks)))
	}
	if requestedCount > 0 && len(tracks) < requestedCount {
		issue := &model.Issue{
			Kind: model.IssueIntentMismatch, Severity: model.SeverityHigh,
			Description: fmt.Sprintf("track count %d is below requested %d", len(tracks), requestedCount),
		}
		return score * 0.5, issue
	}
	return score, nil
}

func familyForTrack(tr model.Track) knowledge.InstrumentFamily {
	switch tr.TrackType {
	case model.TrackDrums:
		return knowledge.FamilyPercussion
	case model.TrackBass:
		return knowledge.FamilyBass
	case model.TrackPad:
		return knowledge.FamilyPad
	case model.TrackHarmony:
		return knowledge.FamilyHarmony
	default:
		return knowledge.FamilyOther
	}
}

func emotionalScore(intent model.Intent, tracks []model.Track) (float64, []model.Issue) {
	score := 0.7
	var issues []model.Issue

	for _, e := range intent.Emotions {
		profile, ok := knowledge.Emotion(e)
		if !ok {
			continue
		}
		if intent.Mode != "" && profile.ModePreference != "" && intent.Mode != profile.ModePreference {
			score -= 0.1
		}
	}

	genre := knowledge.Genre(intent.Genre)
	if intent.RequestedTempo > 0 && (intent.RequestedTempo < genre.TempoLow-20 || intent.RequestedTempo > genre.TempoHi+20) {
		issues = append(issues, model.Issue{
			Kind: model.IssueIntentMismatch, Severity: model.SeverityHigh,
			Description: fmt.Sprintf("requested tempo %d is far outside %s's conventional range [%d,%d]",
				intent.RequestedTempo, intent.Genre, genre.TempoLow, genre.TempoHi),
		})
		score -= 0.2
	}

	for _, want := range intent.ExplicitInstruments {
		found := false
		for _, tr := range tracks {
			if tr.Instrument == want {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, model.Issue{
				Kind: model.IssueIntentMismatch, Severity: model.SeverityHigh,
				Description: fmt.Sprintf("requested instrument %q is missing from the generated track set", want),
			})
			score -= 0.2
		}
	}

	return clamp01(score), issues
}

func weakestDimensionSuggestion(melodic, harmonic, rhythmic, structural, timbral, emotional float64) model.Suggestion {
	type dim struct {
		name  string
		score float64
	}
	dims := []dim{
		{"melodic", melodic}, {"harmonic", harmonic}, {"rhythmic", rhythmic},
		{"structural", structural}, {"timbral", timbral}, {"emotional", emotional},
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i].score < dims[j].score })
	weakest := dims[0]
	return model.Suggestion{
		TrackIndex: -1,
		Directive:  fmt.Sprintf("overall score held back by %s quality (%.2f); regenerate with higher density, target 0.8", weakest.name, weakest.score),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func averageOr(scores []float64, fallback float64) float64 {
	if len(scores) == 0 {
		return fallback
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return clamp01(total / float64(len(scores)))
}
