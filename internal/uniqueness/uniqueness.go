// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package uniqueness fingerprints a finished composition and checks it
// against recent session history, flagging (but never indefinitely
// blocking) compositions that repeat too closely.
package uniqueness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

// SimilarityThreshold is the maximum allowed similarity to any history
// entry before a candidate is flagged for refinement.
var SimilarityThreshold = 0.70

// Signature computes the five-token-stream fingerprint of a finished
// composition. Each field is a comma-joined token stream rather than a
// cryptographic digest, since the similarity check below runs longest-
// common-subsequence directly over these strings -- a cryptographic hash
// would destroy exactly the ordering locality LCS depends on.
func Signature(tracks []model.Track, sections []model.Section, tempo int, genre string) model.CompositionSignature {
	melody := melodyTokens(tracks)
	harmony := harmonyTokens(tracks)
	rhythm := rhythmTokens(tracks)
	structure := structureTokens(sections)
	return model.CompositionSignature{
		Melody:    joinTokens(melody),
		Harmony:   joinTokens(harmony),
		Rhythm:    joinTokens(rhythm),
		Structure: joinTokens(structure),
		Overall:   joinTokens(append(append(append(append([]string{}, melody...), harmony...), rhythm...), structure...)),
		Tempo:     tempo,
		Genre:     genre,
	}
}

func melodyTokens(tracks []model.Track) []string {
	for _, tr := range tracks {
		if tr.TrackType != model.TrackLead && tr.TrackType != model.TrackCounterMelody {
			continue
		}
		return pitchTokens(tr.Notes)
	}
	return nil
}

func harmonyTokens(tracks []model.Track) []string {
	for _, tr := range tracks {
		if tr.TrackType != model.TrackHarmony {
			continue
		}
		// Root progression: lowest pitch at each distinct start time.
		byStart := make(map[float64]int)
		var order []float64
		for _, n := range tr.Notes {
			if cur, ok := byStart[n.StartTime]; !ok || n.Pitch < cur {
				if !ok {
					order = append(order, n.StartTime)
				}
				byStart[n.StartTime] = n.Pitch
			}
		}
		tokens := make([]string, len(order))
		for i, s := range order {
			tokens[i] = strconv.Itoa(byStart[s] % 12)
		}
		return tokens
	}
	return nil
}

func rhythmTokens(tracks []model.Track) []string {
	var starts []float64
	for _, tr := range tracks {
		for _, n := range tr.Notes {
			starts = append(starts, n.StartTime)
		}
	}
	if len(starts) < 2 {
		return nil
	}
	sortFloats(starts)
	tokens := make([]string, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		ioi := starts[i] - starts[i-1]
		quantized := int(ioi*16 + 0.5) // quantize to 1/16 beat grid
		tokens = append(tokens, strconv.Itoa(quantized))
	}
	return tokens
}

func structureTokens(sections []model.Section) []string {
	tokens := make([]string, len(sections))
	for i, s := range sections {
		tokens[i] = fmt.Sprintf("%s:%d:%.1f", s.Name, s.Bars(), s.EnergyLevel)
	}
	return tokens
}

func pitchTokens(notes []model.Note) []string {
	tokens := make([]string, len(notes))
	for i, n := range notes {
		tokens[i] = strconv.Itoa(n.Pitch)
	}
	return tokens
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, ",")
}

func sortFloats(s []float64) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// Similarity scores how close sig is to hist, combining normalized
// longest-common-subsequence similarity on each token stream with
// tempo/genre match.
func Similarity(sig model.CompositionSignature, hist model.CompositionSignature) float64 {
	melody := lcsRatio(sig.Melody, hist.Melody)
	harmony := lcsRatio(sig.Harmony, hist.Harmony)
	rhythm := lcsRatio(sig.Rhythm, hist.Rhythm)

	tempoMatch := 0.0
	if tempoClose(sig.Tempo, hist.Tempo) {
		tempoMatch = 1.0
	}
	genreMatch := 0.0
	if sig.Genre == hist.Genre {
		genreMatch = 1.0
	}

	return 0.4*melody + 0.3*harmony + 0.2*rhythm + 0.1*(tempoMatch+genreMatch)/2
}

func tempoClose(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 5
}

// lcsRatio returns the longest-common-subsequence length between a and b,
// normalized by the length of the longer string.
func lcsRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	n, m := len(a), len(b)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	longest := n
	if m > longest {
		longest = m
	}
	return float64(prev[m]) / float64(longest)
}

// MaxSimilarity returns the highest Similarity score of sig against any
// entry in history, and the matching entry's index (-1 if history is
// empty).
func MaxSimilarity(sig model.CompositionSignature, history model.SessionHistory) (float64, int) {
	best := 0.0
	bestIdx := -1
	for i, e := range history.Entries {
		s := Similarity(sig, e.Signature)
		if s > best {
			best = s
			bestIdx = i
		}
	}
	return best, bestIdx
}

// Accept decides whether a candidate signature is sufficiently distinct
// from session history. When it is not, and refinement attempts remain,
// the caller should trigger another refinement pass; once
// max_refinement_iterations is exhausted, the bounded-effort contract
// accepts the candidate regardless and the caller should record a warning.
func Accept(sig model.CompositionSignature, history model.SessionHistory, attemptsLeft int) (accepted bool, similarity float64) {
	similarity, _ = MaxSimilarity(sig, history)
	if similarity < SimilarityThreshold {
		return true, similarity
	}
	return attemptsLeft <= 0, similarity
}
