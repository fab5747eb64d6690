// Package tui provides the Bubble Tea front end for the sorting game:
// the round view, the scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/greensort/internal/sorting"
)

// CountdownMsg fires one tick of an engine timer.
type CountdownMsg struct {
	ID   int
	Time time.Time
}

// countdownCmd returns a Bubble Tea command that sends a CountdownMsg after interval.
func countdownCmd(id int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return CountdownMsg{ID: id, Time: t}
	})
}

// teaScheduler runs engine timers on the Bubble Tea loop. Every arms a
// timer and leaves a pending command for the model to return; each
// CountdownMsg runs the timer's callback on the Update goroutine.
// Messages for stopped timers are dropped.
type teaScheduler struct {
	nextID  int
	timers  map[int]*teaTimer
	pending []tea.Cmd
}

type teaTimer struct {
	id       int
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *teaTimer) Stop() { t.stopped = true }

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[int]*teaTimer)}
}

// Every implements sorting.Scheduler.
func (s *teaScheduler) Every(interval time.Duration, fn func()) sorting.Timer {
	s.nextID++
	t := &teaTimer{id: s.nextID, interval: interval, fn: fn}
	s.timers[t.id] = t
	s.pending = append(s.pending, countdownCmd(t.id, interval))
	return t
}

// Cmd drains the commands armed since the last call.
func (s *teaScheduler) Cmd() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmd := tea.Batch(s.pending...)
	s.pending = nil
	return cmd
}

// Fire runs the timer msg belongs to and re-arms it while it is live.
func (s *teaScheduler) Fire(msg CountdownMsg) tea.Cmd {
	t, ok := s.timers[msg.ID]
	if !ok {
		return nil
	}
	if !t.stopped {
		t.fn()
	}
	if t.stopped {
		delete(s.timers, t.id)
		return nil
	}
	return countdownCmd(t.id, t.interval)
}

// Live returns the number of timers that have not been stopped.
func (s *teaScheduler) Live() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
