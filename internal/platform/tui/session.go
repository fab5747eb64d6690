package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/greensort/internal/points"
)

// SessionModel manages a player's session: game <-> scoreboard.
// It is the top-level model for both local play and SSH sessions.
type SessionModel struct {
	game       Model
	scoreboard ScoreboardModel
	rounds     RoundLister
	ledger     *points.Ledger
	width      int
	height     int
	showScores bool
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg Config) SessionModel {
	return SessionModel{
		game:   NewModel(cfg),
		rounds: cfg.Rounds,
		ledger: cfg.Ledger,
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		if m.showScores {
			next, _ := m.scoreboard.Update(msg)
			m.scoreboard = next.(ScoreboardModel)
		}
		next, cmd := m.game.Update(msg)
		m.game = next.(Model)
		return m, cmd
	}

	// Countdown ticks always go to the game
	if _, ok := msg.(CountdownMsg); ok || !m.showScores {
		return m.updateGame(msg)
	}
	return m.updateScoreboard(msg)
}

// updateGame handles updates when the game is on screen.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, cmd
	}

	if m.game.openScores {
		m.game.openScores = false
		m.scoreboard = NewScoreboardModel(m.rounds, m.ledger, m.width, m.height)
		m.showScores = true
	}
	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is on screen.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	if m.scoreboard.IsQuitting() {
		m.game.Discard()
		m.quitting = true
		return m, cmd
	}
	if m.scoreboard.IsGoingBack() {
		m.showScores = false
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.showScores {
		return m.scoreboard.View()
	}
	return m.game.View()
}

// Run starts a local session.
func Run(cfg Config) error {
	p := tea.NewProgram(
		NewSessionModel(cfg),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
