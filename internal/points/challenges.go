package points

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a challenge can be completed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency resolves a frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	default:
		return "", fmt.Errorf("points: unknown frequency %q (want daily, weekly or monthly)", s)
	}
}

// WindowStart returns the start of the completion window containing t,
// in UTC. Weeks start on Monday.
func (f Frequency) WindowStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch f {
	case FrequencyWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case FrequencyMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// Challenge is a real-world task players report as done.
type Challenge struct {
	ID          string
	Name        string
	Description string
	Points      int
	Frequency   Frequency
}

// ChallengeCompletion is one completed challenge as persisted.
type ChallengeCompletion struct {
	Player      string
	ChallengeID string
	Points      int
	CompletedAt time.Time
}

// ChallengeStatus is a challenge and whether the player has done it in
// the current window.
type ChallengeStatus struct {
	Challenge
	Completed bool
	Times     int // Completions across all windows
}

// DefaultChallenges returns the built-in challenge set.
func DefaultChallenges() []Challenge {
	return []Challenge{
		{ID: "plastic-free-day", Name: "Plastic-Free Day", Points: 50, Frequency: FrequencyDaily,
			Description: "Avoid using any single-use plastic items for the entire day"},
		{ID: "kitchen-segregation", Name: "Kitchen Waste Segregation", Points: 30, Frequency: FrequencyDaily,
			Description: "Properly separate all kitchen waste into wet and dry categories"},
		{ID: "ewaste-identification", Name: "E-Waste Identification", Points: 40, Frequency: FrequencyDaily,
			Description: "Identify 3 e-waste items in your home and learn proper disposal"},
		{ID: "clean-your-galli", Name: "Clean Your Galli", Points: 100, Frequency: FrequencyWeekly,
			Description: "Organize or participate in cleaning your street or neighborhood"},
		{ID: "composting-starter", Name: "Composting Starter", Points: 80, Frequency: FrequencyWeekly,
			Description: "Begin home composting or maintain existing compost for the week"},
		{ID: "recycling-advocate", Name: "Recycling Advocate", Points: 70, Frequency: FrequencyWeekly,
			Description: "Educate 3 people about proper recycling practices"},
		{ID: "waste-audit", Name: "Waste Audit", Points: 200, Frequency: FrequencyMonthly,
			Description: "Conduct a full waste audit of your household for one month"},
		{ID: "zero-waste-week", Name: "Zero Waste Week", Points: 150, Frequency: FrequencyMonthly,
			Description: "Generate minimal to no waste for an entire week"},
		{ID: "community-leader", Name: "Community Leader", Points: 180, Frequency: FrequencyMonthly,
			Description: "Organize or lead a community cleanliness drive"},
	}
}

// Challenges returns the challenge definitions.
func (l *Ledger) Challenges() []Challenge {
	return l.challenges
}

func (l *Ledger) challenge(id string) (Challenge, bool) {
	id = strings.TrimSpace(id)
	for _, c := range l.challenges {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Challenge{}, false
}

// ChallengeBoard lists every challenge with the player's progress in
// the current window.
func (l *Ledger) ChallengeBoard(ctx context.Context, player string) ([]ChallengeStatus, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, ErrNoPlayer
	}

	done, err := l.repo.ChallengeCompletions(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("points: challenges %s: %w", player, err)
	}

	now := l.now()
	out := make([]ChallengeStatus, 0, len(l.challenges))
	for _, c := range l.challenges {
		st := ChallengeStatus{Challenge: c}
		since := c.Frequency.WindowStart(now)
		for _, d := range done {
			if d.ChallengeID != c.ID {
				continue
			}
			st.Times++
			if !d.CompletedAt.Before(since) {
				st.Completed = true
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// CompleteChallenge credits a challenge to player. A challenge counts
// once per window of its frequency; a repeat returns ErrChallengeDone.
func (l *Ledger) CompleteChallenge(ctx context.Context, player, id string) (Challenge, RoundResult, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Challenge{}, RoundResult{}, ErrNoPlayer
	}
	c, ok := l.challenge(id)
	if !ok {
		return Challenge{}, RoundResult{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, id)
	}

	before, err := l.repo.Balance(ctx, player)
	if err != nil {
		return c, RoundResult{}, fmt.Errorf("points: balance %s: %w", player, err)
	}

	now := l.now().UTC()
	stored, err := l.repo.CompleteChallenge(ctx,
		ChallengeCompletion{Player: player, ChallengeID: c.ID, Points: c.Points, CompletedAt: now},
		c.Frequency.WindowStart(now),
		Activity{Player: player, Source: SourceChallenge, Points: c.Points, Note: "completed challenge: " + c.Name},
	)
	if err != nil {
		return c, RoundResult{}, fmt.Errorf("points: complete %s: %w", c.ID, err)
	}
	if !stored {
		return c, RoundResult{}, fmt.Errorf("%w: %s (%s)", ErrChallengeDone, c.Name, c.Frequency)
	}

	balance, err := l.repo.Balance(ctx, player)
	if err != nil {
		return c, RoundResult{}, fmt.Errorf("points: balance %s: %w", player, err)
	}
	awarded, err := l.CheckBadges(ctx, player)
	if err != nil {
		return c, RoundResult{}, err
	}

	l.logger.Info("challenge completed", "player", player, "challenge", c.ID, "points", c.Points, "balance", balance)
	return c, RoundResult{
		Balance:   balance,
		Level:     Level(balance),
		LevelUp:   Level(balance) > Level(before),
		NewBadges: awarded,
	}, nil
}
