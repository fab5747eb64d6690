package points

import (
	"fmt"
	"strconv"
	"strings"
)

// CriterionKind is the statistic a badge is earned on.
type CriterionKind string

const (
	CriterionPoints CriterionKind = "points" // Lifetime Green Points balance
	CriterionStreak CriterionKind = "streak" // Best streak in any round
	CriterionRounds CriterionKind = "rounds" // Rounds played
	CriterionSorted CriterionKind = "sorted" // Items sorted correctly, all rounds

	CriterionChallenges CriterionKind = "challenges" // Challenges completed
)

// Criterion is a "kind:threshold" badge rule.
type Criterion struct {
	Kind      CriterionKind
	Threshold int
}

// String returns the "kind:threshold" form.
func (c Criterion) String() string {
	return fmt.Sprintf("%s:%d", c.Kind, c.Threshold)
}

// ParseCriterion parses "points:1000", "streak:7", "rounds:1", "sorted:50"
// or "challenges:5".
func ParseCriterion(s string) (Criterion, error) {
	kind, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Criterion{}, fmt.Errorf("points: criterion %q: want kind:threshold", s)
	}

	var k CriterionKind
	switch CriterionKind(kind) {
	case CriterionPoints, CriterionStreak, CriterionRounds, CriterionSorted, CriterionChallenges:
		k = CriterionKind(kind)
	default:
		return Criterion{}, fmt.Errorf("points: criterion %q: unknown kind %q", s, kind)
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return Criterion{}, fmt.Errorf("points: criterion %q: threshold must be a positive integer", s)
	}
	return Criterion{Kind: k, Threshold: n}, nil
}

// Met reports whether the progress satisfies the criterion.
func (c Criterion) Met(p Progress) bool {
	switch c.Kind {
	case CriterionPoints:
		return p.Balance >= c.Threshold
	case CriterionStreak:
		return p.BestStreak >= c.Threshold
	case CriterionRounds:
		return p.Rounds >= c.Threshold
	case CriterionSorted:
		return p.Sorted >= c.Threshold
	case CriterionChallenges:
		return p.Challenges >= c.Threshold
	default:
		return false
	}
}

// Badge is an achievement awarded once per player.
type Badge struct {
	ID          string
	Name        string
	Description string
	Criterion   Criterion
}

// Progress is the set of statistics badges are checked against.
type Progress struct {
	Balance    int
	BestStreak int
	Rounds     int
	Sorted     int
	Challenges int
}

// DefaultBadges returns the built-in badge set.
func DefaultBadges() []Badge {
	return []Badge{
		{ID: "green-beginner", Name: "Green Beginner", Description: "Finished your first sorting round",
			Criterion: Criterion{Kind: CriterionRounds, Threshold: 1}},
		{ID: "waste-warrior", Name: "Waste Warrior", Description: "Properly sorted 50 items",
			Criterion: Criterion{Kind: CriterionSorted, Threshold: 50}},
		{ID: "recycling-expert", Name: "Recycling Expert", Description: "Properly sorted 100 items",
			Criterion: Criterion{Kind: CriterionSorted, Threshold: 100}},
		{ID: "clean-streak", Name: "Clean Streak", Description: "Sorted 7 items in a row",
			Criterion: Criterion{Kind: CriterionStreak, Threshold: 7}},
		{ID: "challenge-taker", Name: "Challenge Taker", Description: "Completed 5 challenges",
			Criterion: Criterion{Kind: CriterionChallenges, Threshold: 5}},
		{ID: "rising-star", Name: "Rising Star", Description: "Reached 500 Green Points",
			Criterion: Criterion{Kind: CriterionPoints, Threshold: 500}},
		{ID: "eco-champion", Name: "Eco Champion", Description: "Reached 1000 Green Points",
			Criterion: Criterion{Kind: CriterionPoints, Threshold: CertificateThreshold}},
	}
}
