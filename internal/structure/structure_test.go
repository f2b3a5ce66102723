// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package structure

import (
	"testing"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func sumBars(sections []model.Section) int {
	total := 0
	for _, s := range sections {
		total += s.Bars()
	}
	return total
}

func TestPlanSumsExactlyAcrossTemplates(t *testing.T) {
	for _, totalBars := range []int{8, 16, 17, 32, 33, 64, 65, 128, 3, 1} {
		sections := Plan(totalBars, model.EnergyMedium)
		if got := sumBars(sections); got != totalBars {
			t.Errorf("totalBars=%d: section bars sum to %d", totalBars, got)
		}
	}
}

func TestPlanSectionsContiguous(t *testing.T) {
	sections := Plan(32, model.EnergyMedium)
	for i := 1; i < len(sections); i++ {
		if sections[i].StartBar != sections[i-1].EndBar {
			t.Errorf("gap/overlap between section %d (end %d) and %d (start %d)",
				i-1, sections[i-1].EndBar, i, sections[i].StartBar)
		}
	}
	if sections[0].StartBar != 0 {
		t.Errorf("first section should start at bar 0, got %d", sections[0].StartBar)
	}
}

func TestPlanShortFormUsesThreeSections(t *testing.T) {
	sections := Plan(12, model.EnergyMedium)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections for a <=16 bar budget, got %d", len(sections))
	}
	if sections[0].Name != model.SectionIntro || sections[2].Name != model.SectionOutro {
		t.Errorf("expected intro..outro bookends, got %v", sections)
	}
}

func TestPlanEnergyShiftsEnvelope(t *testing.T) {
	low := Plan(32, model.EnergyLow)
	high := Plan(32, model.EnergyHigh)
	if !(low[0].EnergyLevel < high[0].EnergyLevel) {
		t.Errorf("expected low-energy intro (%v) < high-energy intro (%v)", low[0].EnergyLevel, high[0].EnergyLevel)
	}
}

func TestPlanEnvelopeClampedToUnitRange(t *testing.T) {
	sections := Plan(32, model.EnergyHigh)
	for _, s := range sections {
		if s.EnergyLevel < 0 || s.EnergyLevel > 1 {
			t.Errorf("section %v energy out of [0,1]: %v", s.Name, s.EnergyLevel)
		}
		if s.DensityLevel < 0 || s.DensityLevel > 1 {
			t.Errorf("section %v density out of [0,1]: %v", s.Name, s.DensityLevel)
		}
	}
}

func TestPlanChorusIsTaggedPeak(t *testing.T) {
	sections := Plan(48, model.EnergyMedium)
	found := false
	for _, s := range sections {
		if s.Name != model.SectionChorus {
			continue
		}
		found = true
		hasPeak := false
		for _, c := range s.Characteristics {
			if c == model.CharPeak {
				hasPeak = true
			}
		}
		if !hasPeak {
			t.Errorf("chorus section missing peak characteristic: %v", s)
		}
	}
	if !found {
		t.Fatal("expected at least one chorus section in the 33-64 bar template")
	}
}
