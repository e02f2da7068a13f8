package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/internal/macdispatch"
	"github.com/go-lemac/lemacd/pkg/lemac"
	"github.com/go-lemac/lemacd/pkg/petitmac"
)

// traceModel steps a StepTracer forward one chunk at a time, rendering
// its lane state after each absorption.
type traceModel struct {
	algo    string
	tracer  StepTracer
	history []string
	quit    bool
}

// NewModel builds the initial trace model for algo ("lemac", "lemacv0",
// or "petitmac") over key, nonce, and message.
func NewModel(algo string, key, nonce, message []byte) (tea.Model, error) {
	tracer, err := newTracer(algo, key, nonce, message)
	if err != nil {
		return nil, err
	}

	return traceModel{algo: algo, tracer: tracer}, nil
}

func newTracer(algo string, key, nonce, message []byte) (StepTracer, error) {
	switch algo {
	case macdispatch.LeMacV1, macdispatch.LeMacV0:
		sched, err := lemac.DeriveSchedule(key)
		if err != nil {
			return nil, err
		}
		version := lemac.V1
		if algo == macdispatch.LeMacV0 {
			version = lemac.V0
		}
		t, err := lemac.NewTracer(sched, nonce, message, version)
		if err != nil {
			return nil, err
		}

		return newLemacAdapter(t), nil
	case macdispatch.PetitMac:
		sched, err := petitmac.DeriveSchedule(key)
		if err != nil {
			return nil, err
		}
		t, err := petitmac.NewTracer(sched, nonce, message)
		if err != nil {
			return nil, err
		}

		return newPetitmacAdapter(t), nil
	default:
		return nil, errorcodes.ErrUnknownAlgorithm
	}
}

// Init implements tea.Model.
func (m traceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m traceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true

			return m, tea.Quit
		case "enter", " ", "n":
			m.step()
			if m.tracer.Done() {
				return m, nil
			}
		case "e":
			for !m.tracer.Done() {
				m.step()
			}
		}
	}

	return m, nil
}

func (m *traceModel) step() {
	if m.tracer.Step() {
		m.history = append(m.history, strings.Join(m.tracer.Lines(), "  "))
	}
}

// View implements tea.Model.
func (m traceModel) View() string {
	var s strings.Builder

	fmt.Fprintf(&s, "%s trace — step %d of %d\n", m.algo, m.tracer.Current(), m.tracer.Steps())
	s.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, line := range m.tracer.Lines() {
		s.WriteString(line + "\n")
	}
	s.WriteString("\n")

	if len(m.history) > 1 {
		s.WriteString("History:\n")
		for i, line := range m.history[:len(m.history)-1] {
			fmt.Fprintf(&s, "  [%d] %s\n", i, line)
		}
		s.WriteString("\n")
	}

	if m.tracer.Done() {
		fmt.Fprintf(&s, "final tag: %s\n\n", m.tracer.Tag())
	}

	s.WriteString("Navigation:\n")
	s.WriteString("  Enter/Space/n: step forward\n")
	s.WriteString("  e: jump to the end\n")
	s.WriteString("  q or Ctrl+C: quit\n")

	return s.String()
}
