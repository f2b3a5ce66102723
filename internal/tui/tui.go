// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tui is a live progress view for one composition run, invoked
// from the CLI's --watch flag. It subscribes to the orchestrator's
// StageHook and renders the pipeline's current stage plus a scrolling
// log of transitions.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/orchestrator"
)

var pipelineStages = []string{"planning", "generating", "reviewing", "refining", "serializing", "done"}

type stageMsg struct {
	stage  string
	detail string
}

type resultMsg struct {
	path    string
	report  model.QualityReport
	history model.SessionHistory
	err     error
}

// Model is the bubbletea model for the progress view.
type Model struct {
	current string
	log     []string
	width   int

	finished bool
	err      error
	path     string
	report   model.QualityReport
	history  model.SessionHistory
}

// NewModel creates an idle progress view; call Run to start a generation.
func NewModel() Model {
	return Model{width: 72}
}

// Run starts intent's generation in the background and blocks, driving
// the bubbletea program, until the pipeline finishes or the user quits.
// It returns the same values orchestrator.GenerateWithOptions would; if the
// user quits before the pipeline finishes, it returns an error and the
// history it was given.
func Run(intent model.Intent, history model.SessionHistory, opts orchestrator.Options) (string, model.QualityReport, model.SessionHistory, error) {
	p := tea.NewProgram(NewModel())

	hook := opts.Hook
	opts.Hook = func(stage, detail string) {
		if hook != nil {
			hook(stage, detail)
		}
		p.Send(stageMsg{stage: stage, detail: detail})
	}

	go func() {
		path, report, updated, err := orchestrator.GenerateWithOptions(intent, history, opts)
		p.Send(resultMsg{path: path, report: report, history: updated, err: err})
	}()

	finalModel, runErr := p.Run()
	if runErr != nil {
		return "", model.QualityReport{}, history, runErr
	}
	final := finalModel.(Model)
	if !final.finished {
		return "", model.QualityReport{}, history, fmt.Errorf("generation interrupted before it finished")
	}
	if final.err != nil {
		return "", model.QualityReport{}, history, final.err
	}
	return final.path, final.report, final.history, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stageMsg:
		m.current = msg.stage
		m.log = append(m.log, fmt.Sprintf("[%s] %s", msg.stage, msg.detail))
		return m, nil

	case resultMsg:
		m.finished = true
		m.err = msg.err
		m.path = msg.path
		m.report = msg.report
		m.history = msg.history
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("midigen")
	b.WriteString(title + "\n\n")
	b.WriteString(m.stageBar() + "\n\n")

	start := 0
	if len(m.log) > 12 {
		start = len(m.log) - 12
	}
	for _, line := range m.log[start:] {
		b.WriteString(line + "\n")
	}

	if m.finished {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("failed: " + m.err.Error()))
		} else {
			done := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(
				fmt.Sprintf("wrote %s (quality %.2f)", m.path, m.report.Overall))
			b.WriteString(done)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("\n[q] quit\n")
	}
	return b.String()
}

func (m Model) stageBar() string {
	var parts []string
	pastCurrent := false
	for _, s := range pipelineStages {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // not yet reached
		switch {
		case s == m.current:
			style = style.Bold(true).Foreground(lipgloss.Color("11"))
			pastCurrent = true
		case !pastCurrent && m.current != "":
			style = style.Foreground(lipgloss.Color("10")) // already completed
		}
		parts = append(parts, style.Render(s))
	}
	return strings.Join(parts, "  →  ")
}
