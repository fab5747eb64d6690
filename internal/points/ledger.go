// Package points implements the Green Points ledger: lifetime balances,
// levels, badges and certificate eligibility. Sorting rounds and
// waste lookups credit it; persistence is behind the Repository interface.
package points

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/greensort/internal/sorting"
)

const (
	// MaxLevel caps player levels.
	MaxLevel = 50
	// PointsPerLevel is the number of points between levels.
	PointsPerLevel = 100
	// CertificateThreshold is the balance needed for a champion certificate.
	CertificateThreshold = 1000
)

// ErrNoPlayer is returned when a ledger call has an empty player name.
var ErrNoPlayer = errors.New("points: player name is required")

// Challenge and reward errors.
var (
	ErrUnknownChallenge   = errors.New("points: unknown challenge")
	ErrChallengeDone      = errors.New("points: challenge already completed in this period")
	ErrUnknownReward      = errors.New("points: unknown reward")
	ErrRewardUnavailable  = errors.New("points: reward is not available")
	ErrInsufficientPoints = errors.New("points: not enough Green Points")
)

// Source identifies what earned the points.
type Source string

const (
	SourceSortingRound Source = "sorting_round"
	SourceWasteLookup  Source = "waste_lookup"
	SourceChallenge    Source = "challenge_completed"
	SourceRedemption   Source = "reward_redeemed"
)

// Activity is one ledger entry.
type Activity struct {
	ID        int64
	Player    string
	Source    Source
	Points    int
	Note      string
	CreatedAt time.Time
}

// RoundRecord is a finished sorting round as persisted.
type RoundRecord struct {
	RoundID    string
	Player     string
	Score      int
	TimeBonus  int
	FinalScore int
	MaxStreak  int
	Correct    int
	Incorrect  int
	Duration   time.Duration
	CreatedAt  time.Time
}

// RoundStats aggregates a player's rounds.
type RoundStats struct {
	Rounds     int
	BestScore  int
	BestStreak int
	Sorted     int
}

// EarnedBadge is a badge award as persisted.
type EarnedBadge struct {
	Player   string
	BadgeID  string
	EarnedAt time.Time
}

// Standing is one leaderboard row.
type Standing struct {
	Player  string
	Balance int
	Level   int
}

// Repository is the persistence the ledger needs.
type Repository interface {
	// SaveRound stores rec and, when credit.Points > 0, credit as one
	// atomic write: either both are stored or neither is.
	SaveRound(ctx context.Context, rec RoundRecord, credit Activity) error
	AddActivity(ctx context.Context, a Activity) (int64, error)
	Balance(ctx context.Context, player string) (int, error)
	RoundStats(ctx context.Context, player string) (RoundStats, error)
	AwardBadge(ctx context.Context, player, badgeID string) (bool, error)
	Badges(ctx context.Context, player string) ([]EarnedBadge, error)
	Standings(ctx context.Context, limit int) ([]Standing, error)

	// CompleteChallenge atomically stores c and credit unless the player
	// already completed the challenge at or after since. It reports
	// whether anything was stored.
	CompleteChallenge(ctx context.Context, c ChallengeCompletion, since time.Time, credit Activity) (bool, error)
	ChallengeCompletions(ctx context.Context, player string) ([]ChallengeCompletion, error)
	// Spend atomically appends a debit (a.Points < 0) if the balance
	// covers it. It reports whether the debit was stored.
	Spend(ctx context.Context, a Activity) (bool, error)
}

// Level returns the level for a balance: one level per 100 points, capped at 50.
func Level(balance int) int {
	if balance < 0 {
		balance = 0
	}
	return min(MaxLevel, balance/PointsPerLevel+1)
}

// Ledger credits Green Points and awards badges.
type Ledger struct {
	repo       Repository
	badges     []Badge
	challenges []Challenge
	rewards    []Reward
	now        func() time.Time
	logger     *log.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithBadges replaces the default badge set.
func WithBadges(b []Badge) LedgerOption {
	return func(l *Ledger) { l.badges = b }
}

// WithChallenges replaces the default challenge set.
func WithChallenges(c []Challenge) LedgerOption {
	return func(l *Ledger) { l.challenges = c }
}

// WithRewards replaces the default reward catalog.
func WithRewards(r []Reward) LedgerOption {
	return func(l *Ledger) { l.rewards = r }
}

// WithClock overrides the clock used for challenge windows.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger used for awards.
func WithLogger(logger *log.Logger) LedgerOption {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger creates a ledger over repo.
func NewLedger(repo Repository, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		repo:       repo,
		badges:     DefaultBadges(),
		challenges: DefaultChallenges(),
		rewards:    DefaultRewards(),
		now:        time.Now,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Badges returns the badge definitions the ledger checks.
func (l *Ledger) Badges() []Badge {
	return l.badges
}

// Credit records amount points for player and returns the new balance.
// Non-positive amounts record nothing.
func (l *Ledger) Credit(ctx context.Context, player string, source Source, amount int, note string) (int, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return 0, ErrNoPlayer
	}
	if amount > 0 {
		if _, err := l.repo.AddActivity(ctx, Activity{
			Player: player,
			Source: source,
			Points: amount,
			Note:   note,
		}); err != nil {
			return 0, fmt.Errorf("points: credit %s: %w", player, err)
		}
	}

	balance, err := l.repo.Balance(ctx, player)
	if err != nil {
		return 0, fmt.Errorf("points: balance %s: %w", player, err)
	}
	return balance, nil
}

// RoundResult is what recording a round changed for the player.
// Completing a challenge reports the same fields.
type RoundResult struct {
	Balance   int
	Level     int
	LevelUp   bool
	NewBadges []Badge
}

// RecordRound persists a finished round, credits its final score and
// awards any badges the player now qualifies for.
func (l *Ledger) RecordRound(ctx context.Context, player string, s sorting.Summary) (RoundResult, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return RoundResult{}, ErrNoPlayer
	}

	before, err := l.repo.Balance(ctx, player)
	if err != nil {
		return RoundResult{}, fmt.Errorf("points: balance %s: %w", player, err)
	}

	rec := RoundRecord{
		RoundID:    s.RoundID,
		Player:     player,
		Score:      s.Score,
		TimeBonus:  s.TimeBonus,
		FinalScore: s.FinalScore,
		MaxStreak:  s.MaxStreak,
		Correct:    s.Correct,
		Incorrect:  s.Incorrect,
		Duration:   s.Duration,
	}
	credit := Activity{
		Player: player,
		Source: SourceSortingRound,
		Points: s.FinalScore,
		Note:   fmt.Sprintf("sorting round %s: score %d, bonus %d", s.RoundID, s.Score, s.TimeBonus),
	}
	if err := l.repo.SaveRound(ctx, rec, credit); err != nil {
		return RoundResult{}, fmt.Errorf("points: save round: %w", err)
	}

	balance, err := l.repo.Balance(ctx, player)
	if err != nil {
		return RoundResult{}, fmt.Errorf("points: balance %s: %w", player, err)
	}

	awarded, err := l.CheckBadges(ctx, player)
	if err != nil {
		return RoundResult{}, err
	}

	res := RoundResult{
		Balance:   balance,
		Level:     Level(balance),
		LevelUp:   Level(balance) > Level(before),
		NewBadges: awarded,
	}
	l.logger.Info("round recorded",
		"player", player,
		"round", s.RoundID,
		"final", s.FinalScore,
		"balance", balance,
		"level", res.Level,
		"badges", len(awarded),
	)
	return res, nil
}

// CheckBadges awards every badge the player qualifies for and does not
// hold yet. It returns only the newly awarded badges.
func (l *Ledger) CheckBadges(ctx context.Context, player string) ([]Badge, error) {
	progress, err := l.progress(ctx, player)
	if err != nil {
		return nil, err
	}

	var awarded []Badge
	for _, b := range l.badges {
		if !b.Criterion.Met(progress) {
			continue
		}
		isNew, err := l.repo.AwardBadge(ctx, player, b.ID)
		if err != nil {
			return nil, fmt.Errorf("points: award %s to %s: %w", b.ID, player, err)
		}
		if isNew {
			awarded = append(awarded, b)
			l.logger.Info("badge awarded", "player", player, "badge", b.ID)
		}
	}
	return awarded, nil
}

func (l *Ledger) progress(ctx context.Context, player string) (Progress, error) {
	balance, err := l.repo.Balance(ctx, player)
	if err != nil {
		return Progress{}, fmt.Errorf("points: balance %s: %w", player, err)
	}
	stats, err := l.repo.RoundStats(ctx, player)
	if err != nil {
		return Progress{}, fmt.Errorf("points: round stats %s: %w", player, err)
	}
	done, err := l.repo.ChallengeCompletions(ctx, player)
	if err != nil {
		return Progress{}, fmt.Errorf("points: challenges %s: %w", player, err)
	}
	return Progress{
		Balance:    balance,
		BestStreak: stats.BestStreak,
		Rounds:     stats.Rounds,
		Sorted:     stats.Sorted,
		Challenges: len(done),
	}, nil
}

// Profile is a player's ledger overview.
type Profile struct {
	Player      string
	Balance     int
	Level       int
	NextLevelAt int // Balance needed for the next level, 0 at max level
	Stats       RoundStats
	Badges      []Badge
	Certificate bool
}

// Profile returns the player's balance, level, round stats and badges.
func (l *Ledger) Profile(ctx context.Context, player string) (Profile, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Profile{}, ErrNoPlayer
	}

	progress, err := l.progress(ctx, player)
	if err != nil {
		return Profile{}, err
	}
	stats, err := l.repo.RoundStats(ctx, player)
	if err != nil {
		return Profile{}, fmt.Errorf("points: round stats %s: %w", player, err)
	}
	earned, err := l.repo.Badges(ctx, player)
	if err != nil {
		return Profile{}, fmt.Errorf("points: badges %s: %w", player, err)
	}

	byID := make(map[string]Badge, len(l.badges))
	for _, b := range l.badges {
		byID[b.ID] = b
	}
	badges := make([]Badge, 0, len(earned))
	for _, e := range earned {
		if b, ok := byID[e.BadgeID]; ok {
			badges = append(badges, b)
		} else {
			badges = append(badges, Badge{ID: e.BadgeID, Name: e.BadgeID})
		}
	}

	level := Level(progress.Balance)
	next := 0
	if level < MaxLevel {
		next = level * PointsPerLevel
	}

	return Profile{
		Player:      player,
		Balance:     progress.Balance,
		Level:       level,
		NextLevelAt: next,
		Stats:       stats,
		Badges:      badges,
		Certificate: progress.Balance >= CertificateThreshold,
	}, nil
}

// Leaderboard returns the top players by balance.
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	rows, err := l.repo.Standings(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("points: leaderboard: %w", err)
	}
	for i := range rows {
		rows[i].Level = Level(rows[i].Balance)
	}
	return rows, nil
}
