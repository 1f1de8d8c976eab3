package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuistrum/internal/practice"
)

// eventMsg carries a scheduled engine event back into the update loop.
type eventMsg struct {
	ev practice.Event
}

// cmdScheduler turns engine schedule requests into tea.Tick commands. The
// commands are collected during Update and returned by flush, so events come
// back through the same update loop as keys and mouse input.
type cmdScheduler struct {
	pending []tea.Cmd
}

func (s *cmdScheduler) Schedule(delay time.Duration, ev practice.Event) {
	s.pending = append(s.pending, tea.Tick(delay, func(time.Time) tea.Msg {
		return eventMsg{ev: ev}
	}))
}

func (s *cmdScheduler) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
