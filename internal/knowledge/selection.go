// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package knowledge

// candidateScore implements the instrument-selection scoring contract:
// score = 0.4*genre_fit + 0.3*emotion_fit + 0.2*style_fit + 0.1*versatility,
// ties broken by priority field (lower index in a ranked list wins).
type candidateScore struct {
	key   string
	score float64
}

// ResolveInstrument picks the best instrument key for (trackType, genre,
// emotions, style) using the scoring contract above. versatility rewards
// instruments that appear in more than one contributing ranked list, since
// those are, by construction, usable across a wider range of contexts.
func ResolveInstrument(trackType, genreName string, emotionNames, styleNames []string) string {
	genre := Genre(genreName)
	genreList := genre.Instruments[trackType]
	if len(genreList) == 0 {
		genreList = []string{fallbackInstrument(trackType)}
	}

	scores := make(map[string]float64)
	rank := make(map[string]int)
	add := func(list []string, weight float64) {
		for i, key := range list {
			fit := 1.0 - float64(i)/float64(len(list)+1)
			scores[key] += weight * fit
			if _, seen := rank[key]; !seen {
				rank[key] = i
			}
		}
	}
	add(genreList, 0.4)

	var emoList []string
	for _, e := range emotionNames {
		if p, ok := Emotion(e); ok {
			emoList = append(emoList, p.Instruments...)
		}
	}
	if len(emoList) > 0 {
		add(emoList, 0.3)
	}

	var styList []string
	for _, s := range styleNames {
		if p, ok := Style(s); ok {
			styList = append(styList, p.Instruments...)
		}
	}
	if len(styList) > 0 {
		add(styList, 0.2)
	}

	// versatility: reward instruments scored by more than one source list.
	occurrences := make(map[string]int)
	for _, list := range [][]string{genreList, emoList, styList} {
		seen := make(map[string]bool)
		for _, k := range list {
			if !seen[k] {
				occurrences[k]++
				seen[k] = true
			}
		}
	}
	for k, n := range occurrences {
		if n > 1 {
			scores[k] += 0.1 * (float64(n) / 3.0)
		}
	}

	best := genreList[0]
	bestScore := -1.0
	bestRank := 1 << 30
	for key, score := range scores {
		r := rank[key]
		if score > bestScore || (score == bestScore && r < bestRank) {
			best = key
			bestScore = score
			bestRank = r
		}
	}
	return best
}

// fallbackInstrument returns a sensible instrument key when a genre's table
// has nothing registered for trackType at all.
func fallbackInstrument(trackType string) string {
	switch trackType {
	case "bass":
		return "acoustic_bass"
	case "drums":
		return "standard_kit"
	case "harmony", "pad":
		return "string_ensemble_1"
	case "arpeggio":
		return "lead_2_sawtooth"
	case "fx":
		return "fx_4_atmosphere"
	default:
		return "acoustic_grand_piano"
	}
}
