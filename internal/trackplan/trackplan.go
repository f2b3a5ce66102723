// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package trackplan builds the ordered list of TrackConfigs a composition
// will generate, from either explicit instruments or genre/emotion/style
// defaults, then pads or truncates to match a requested track count.
package trackplan

import (
	"fmt"

	"github.com/Michael-F-Ellis/midigen/internal/knowledge"
	"github.com/Michael-F-Ellis/midigen/internal/model"
)

// PlanFunc builds a track plan from an Intent. The default rule-based
// planner implements this signature; a caller may substitute another
// implementation (e.g. one backed by a language model), but the core never
// invokes one on its own.
type PlanFunc func(intent model.Intent) ([]model.TrackConfig, error)

// defaultTrackOrder is the genre-independent set of track types used when
// the intent names no explicit instruments, in priority order.
var defaultTrackOrder = []model.TrackType{
	model.TrackLead, model.TrackHarmony, model.TrackBass, model.TrackDrums,
}

// padOrder lists the additional track types appended, in order, when the
// plan must grow to satisfy a larger requested_track_count.
var padOrder = []model.TrackType{
	model.TrackCounterMelody, model.TrackArpeggio, model.TrackPad, model.TrackFX,
}

// Plan is the default rule-based PlanFunc.
func Plan(intent model.Intent) ([]model.TrackConfig, error) {
	if intent.RequestedTrackCount != 0 && (intent.RequestedTrackCount < 1 || intent.RequestedTrackCount > 8) {
		return nil, fmt.Errorf("requested_track_count %d out of range [1,8]", intent.RequestedTrackCount)
	}

	var configs []model.TrackConfig
	if len(intent.ExplicitInstruments) > 0 {
		configs = fromExplicitInstruments(intent.ExplicitInstruments)
	} else {
		configs = fromGenreDefaults(intent)
	}

	if intent.RequestedTrackCount > 0 {
		configs = fitToCount(configs, intent, intent.RequestedTrackCount)
	}

	assignChannelsAndPriority(configs)
	return configs, nil
}

// fromExplicitInstruments builds one track per named instrument, inferring
// its track type from the instrument's family.
func fromExplicitInstruments(keys []string) []model.TrackConfig {
	configs := make([]model.TrackConfig, 0, len(keys))
	for _, key := range keys {
		tt := trackTypeForFamily(knowledge.FamilyForKey(key))
		program, err := knowledge.ProgramForKey(key)
		if err != nil {
			program = 0
		}
		configs = append(configs, model.TrackConfig{
			TrackType:  tt,
			Instrument: key,
			Role:       "explicit",
			Program:    program,
		})
	}
	return configs
}

func trackTypeForFamily(f knowledge.InstrumentFamily) model.TrackType {
	switch f {
	case knowledge.FamilyPercussion:
		return model.TrackDrums
	case knowledge.FamilyBass:
		return model.TrackBass
	case knowledge.FamilyPad:
		return model.TrackPad
	case knowledge.FamilyHarmony:
		return model.TrackHarmony
	default:
		return model.TrackLead
	}
}

// fromGenreDefaults builds the typical lead+harmony+bass+drums set,
// resolving each track type's instrument via the knowledge base's scoring
// contract.
func fromGenreDefaults(intent model.Intent) []model.TrackConfig {
	configs := make([]model.TrackConfig, 0, len(defaultTrackOrder))
	for _, tt := range defaultTrackOrder {
		configs = append(configs, newConfig(tt, intent, "genre_default"))
	}
	return configs
}

func newConfig(tt model.TrackType, intent model.Intent, role string) model.TrackConfig {
	key := knowledge.ResolveInstrument(string(tt), intent.Genre, intent.Emotions, intent.StyleDescriptors)
	program, err := knowledge.ProgramForKey(key)
	if err != nil {
		program = 0
	}
	return model.TrackConfig{
		TrackType:  tt,
		Instrument: key,
		Role:       role,
		Program:    program,
	}
}

// fitToCount pads or truncates configs until len(configs) == count.
// Padding appends from padOrder, skipping any track type already present.
// Truncation drops from the tail (the least important tracks, since
// defaultTrackOrder/padOrder are both given in descending priority).
func fitToCount(configs []model.TrackConfig, intent model.Intent, count int) []model.TrackConfig {
	present := make(map[model.TrackType]bool, len(configs))
	for _, c := range configs {
		present[c.TrackType] = true
	}
	for _, tt := range padOrder {
		if len(configs) >= count {
			break
		}
		if present[tt] {
			continue
		}
		configs = append(configs, newConfig(tt, intent, "padded"))
		present[tt] = true
	}
	if len(configs) > count {
		configs = configs[:count]
	}
	return configs
}

// assignChannelsAndPriority assigns stable priorities in slice order and
// MIDI channels: drums always get channel 9, everything else gets the next
// unused channel in 0..15 skipping 9.
func assignChannelsAndPriority(configs []model.TrackConfig) {
	next := 0
	for i := range configs {
		configs[i].Priority = i + 1
		if configs[i].TrackType == model.TrackDrums {
			configs[i].Channel = 9
			continue
		}
		if next == 9 {
			next++
		}
		configs[i].Channel = next
		next++
		if next == 9 {
			next++
		}
	}
}
