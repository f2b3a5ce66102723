// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func TestUpdateRecordsStageTransitions(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(stageMsg{stage: "planning", detail: "validating intent"})
	mm := updated.(Model)
	if mm.current != "planning" {
		t.Errorf("current = %q, want planning", mm.current)
	}
	if len(mm.log) != 1 || !strings.Contains(mm.log[0], "validating intent") {
		t.Errorf("expected log to record the transition detail, got %v", mm.log)
	}
}

func TestUpdateOnResultQuitsWithFinalState(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(resultMsg{path: "/tmp/out.mid", report: model.QualityReport{Overall: 0.9}})
	mm := updated.(Model)
	if !mm.finished || mm.err != nil || mm.path != "/tmp/out.mid" {
		t.Errorf("unexpected final state: %+v", mm)
	}
	if cmd == nil {
		t.Error("expected a tea.Quit command on result")
	}
}

func TestUpdateOnErrorResultRecordsFailure(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(resultMsg{err: errors.New("generation failed")})
	mm := updated.(Model)
	if !mm.finished || mm.err == nil {
		t.Errorf("expected a recorded failure, got %+v", mm)
	}
	if !strings.Contains(mm.View(), "failed") {
		t.Errorf("expected View to mention the failure, got %q", mm.View())
	}
}

func TestQuitKeyStopsTheProgram(t *testing.T) {
	m := NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("expected the 'q' key to issue a quit command")
	}
}

func TestStageBarHighlightsCurrentStage(t *testing.T) {
	m := NewModel()
	m.current = "reviewing"
	bar := m.stageBar()
	if !strings.Contains(bar, "reviewing") {
		t.Errorf("expected the stage bar to mention the current stage, got %q", bar)
	}
}
