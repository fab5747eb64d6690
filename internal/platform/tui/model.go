package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/sorting"
)

// recordTimeout bounds the ledger write after a round.
const recordTimeout = 5 * time.Second

type phase int

const (
	phaseReady   phase = iota // Waiting for the first round
	phasePlaying              // Round in progress
	phaseSummary              // Round over, summary on screen
)

// Config holds what a game model needs.
type Config struct {
	Catalog *sorting.Catalog
	Rules   sorting.Rules
	Ledger  *points.Ledger // Optional; rounds are not credited without it
	Rounds  RoundLister    // Optional; source of the best round and the scoreboard
	Player  string
	Seed    int64 // 0 picks a time-based seed
	Logger  *log.Logger
	Width   int
	Height  int
}

// roundLog collects engine events between Update calls. Listeners run
// synchronously inside engine calls made from Update.
type roundLog struct {
	last  *sorting.ItemClassifiedEvent
	ended *sorting.Summary
}

// Model is the Bubble Tea model for playing sorting rounds.
type Model struct {
	engine *sorting.Engine
	sched  *teaScheduler
	events *roundLog
	ledger *points.Ledger
	rounds RoundLister
	player string
	logger *log.Logger

	keys   GameKeyMap
	help   help.Model
	phase  phase
	cursor int // Selected pool item

	summary sorting.Summary
	result  *points.RoundResult
	saveErr error
	best    int  // Best final score on record
	newBest bool // Last round beat best

	width      int
	height     int
	quitting   bool
	openScores bool // Set when the player asks for the scoreboard
}

// NewModel creates a game model with its own engine.
func NewModel(cfg Config) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	sched := newTeaScheduler()
	engine := sorting.NewEngine(cfg.Catalog, cfg.Rules,
		sorting.WithScheduler(sched),
		sorting.WithSeed(cfg.Seed),
	)

	events := &roundLog{}
	logger := cfg.Logger
	player := cfg.Player
	engine.Subscribe(func(ev sorting.Event) {
		switch e := ev.(type) {
		case sorting.RoundStartedEvent:
			events.last = nil
			logger.Debug("round started", "player", player, "round", e.RoundID)
		case sorting.ItemClassifiedEvent:
			events.last = &e
		case sorting.RoundEndedEvent:
			s := e.Summary
			events.ended = &s
			logger.Info("round ended",
				"player", player,
				"round", s.RoundID,
				"score", s.Score,
				"final", s.FinalScore,
				"max_streak", s.MaxStreak,
			)
		}
	})

	h := help.New()
	h.ShowAll = false

	m := Model{
		engine: engine,
		sched:  sched,
		events: events,
		ledger: cfg.Ledger,
		rounds: cfg.Rounds,
		player: cfg.Player,
		logger: cfg.Logger,
		keys:   DefaultGameKeyMap(),
		help:   h,
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.best = m.loadBest()
	return m
}

// loadBest reads the best final score on record, 0 without a source.
func (m Model) loadBest() int {
	if m.rounds == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	best, err := m.rounds.HighScore(ctx)
	if err != nil {
		m.logger.Warn("could not load high score", "error", err)
		return m.best
	}
	return best
}

// Init initializes the model. Rounds start on a key press.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case CountdownMsg:
		cmd := m.sched.Fire(msg)
		return m.afterEngine(), cmd
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		// Leaving mid-round forfeits it
		m.engine.Discard()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.phase != phasePlaying {
		switch {
		case key.Matches(msg, m.keys.Start), key.Matches(msg, m.keys.Replay):
			return m.startRound()
		case key.Matches(msg, m.keys.Scores):
			m.openScores = true
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.engine.Pool())-1 {
			m.cursor++
		}
		return m, nil
	}

	if bin := m.keys.Bin(msg); bin != sorting.CategoryNone {
		return m.drop(bin)
	}
	return m, nil
}

// startRound begins a round and arms its countdown.
func (m Model) startRound() (tea.Model, tea.Cmd) {
	if !m.engine.StartRound() {
		return m, nil
	}
	m.phase = phasePlaying
	m.cursor = 0
	m.result = nil
	m.saveErr = nil
	m.newBest = false
	m.best = m.loadBest()
	return m, m.sched.Cmd()
}

// drop sorts the selected item into bin.
func (m Model) drop(bin sorting.Category) (tea.Model, tea.Cmd) {
	pool := m.engine.Pool()
	if m.cursor >= len(pool) {
		return m, nil
	}

	m.engine.Classify(pool[m.cursor].Name, bin)
	if n := len(m.engine.Pool()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m.afterEngine(), nil
}

// afterEngine moves to the summary once the engine reports the round
// over, and credits the round to the ledger (once).
func (m Model) afterEngine() Model {
	if m.events.ended == nil {
		return m
	}

	m.summary = *m.events.ended
	m.events.ended = nil
	m.phase = phaseSummary
	m.cursor = 0
	m.newBest = m.summary.FinalScore > m.best
	m.best = max(m.best, m.summary.FinalScore)

	if m.ledger == nil || m.player == "" {
		return m
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	res, err := m.ledger.RecordRound(ctx, m.player, m.summary)
	if err != nil {
		m.saveErr = err
		m.logger.Error("could not record round", "player", m.player, "error", err)
		return m
	}
	m.result = &res
	return m
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phasePlaying:
		return renderRound(m)
	case phaseSummary:
		return renderSummary(m)
	default:
		return renderReady(m)
	}
}

// IsQuitting returns true if the player quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Playing reports whether a round is in progress.
func (m Model) Playing() bool {
	return m.phase == phasePlaying
}

// Discard abandons the round in progress, if any.
func (m Model) Discard() {
	m.engine.Discard()
}
