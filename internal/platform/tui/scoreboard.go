package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/greensort/internal/points"
)

// RoundLister lists the best rounds across all players.
type RoundLister interface {
	TopRounds(ctx context.Context, limit int) ([]points.RoundRecord, error)
	HighScore(ctx context.Context) (int, error)
}

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show board list sidebar
	sidebarWidth       = 20  // Width of board list sidebar
	maxRows            = 100 // Max rows to load
	loadTimeout        = 3 * time.Second
)

// board is one scoreboard tab.
type board int

const (
	boardRounds board = iota // Best single rounds
	boardPoints              // Lifetime Green Points
)

var boards = []board{boardRounds, boardPoints}

func (b board) Title() string {
	switch b {
	case boardPoints:
		return "Green Points"
	default:
		return "Top Rounds"
	}
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev board"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next board"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	rounds      RoundLister    // Source of top rounds; may be nil
	ledger      *points.Ledger // Source of standings; may be nil
	cursor      int            // Selected board
	rows        []table.Row
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	standalone  bool // Back quits the program instead of returning to the game
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show board list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(rounds RoundLister, ledger *points.Ledger, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		rounds:      rounds,
		ledger:      ledger,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.load()
	return m
}

// columns returns the table columns of the selected board.
func (m *ScoreboardModel) columns() []table.Column {
	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	playerWidth := min(max(tableWidth-40, 10), 20)

	if boards[m.cursor] == boardPoints {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: playerWidth},
			{Title: "Points", Width: 10},
			{Title: "Level", Width: 6},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: playerWidth},
		{Title: "Final", Width: 7},
		{Title: "Streak", Width: 7},
		{Title: "Date", Width: 14},
	}
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the rows of the selected board.
func (m *ScoreboardModel) load() {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	m.rows = nil
	m.loadErr = nil

	switch boards[m.cursor] {
	case boardPoints:
		if m.ledger == nil {
			break
		}
		standings, err := m.ledger.Leaderboard(ctx, maxRows)
		if err != nil {
			m.loadErr = err
			break
		}
		for i, s := range standings {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				s.Player,
				fmt.Sprintf("%d", s.Balance),
				fmt.Sprintf("%d", s.Level),
			})
		}

	default:
		if m.rounds == nil {
			break
		}
		rounds, err := m.rounds.TopRounds(ctx, maxRows)
		if err != nil {
			m.loadErr = err
			break
		}
		for i, r := range rounds {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				r.Player,
				fmt.Sprintf("%d", r.FinalScore),
				fmt.Sprintf("%d", r.MaxStreak),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}
	m.updateTable()
}

// updateTable swaps the table's columns and rows for the selected board.
func (m *ScoreboardModel) updateTable() {
	// Clear rows first: old rows may have more cells than the new columns
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextBoard), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(boards)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard), key.Matches(msg, m.keys.Left):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(boards) - 1
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTable()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || (m.goingBack && m.standalone) {
		return ""
	}

	var b strings.Builder

	// Title
	title := fmt.Sprintf("SCOREBOARD - %s", boards[m.cursor].Title())
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: board tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for board selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, bd := range boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + bd.Title()))
		sidebar.WriteString("\n")
	}

	tableRendered := boxStyle.Render(m.renderTableContent())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(sidebar.String()), "  ", tableRendered)
}

// renderNarrowLayout renders the scoreboard with board tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Padding(0, 1)

	tabs := make([]string, len(boards))
	for i, bd := range boards {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(bd.Title())
		} else {
			tabs[i] = tabStyle.Render(" " + bd.Title() + " ")
		}
	}

	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(boxStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render("Could not load scores:\n" + m.loadErr.Error())
	}
	if len(m.rows) == 0 {
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to get on the board!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the game.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard on its own.
func RunScoreboard(rounds RoundLister, ledger *points.Ledger, width, height int) error {
	model := NewScoreboardModel(rounds, ledger, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
