package points

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/greensort/internal/sorting"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	rounds     []RoundRecord
	activities []Activity
	badges     map[string][]string
	challenges []ChallengeCompletion
	failOn     string
}

func newMemRepo() *memRepo {
	return &memRepo{badges: map[string][]string{}}
}

var errBoom = errors.New("boom")

// SaveRound is all or nothing, like a transaction.
func (r *memRepo) SaveRound(ctx context.Context, rec RoundRecord, credit Activity) error {
	if r.failOn == "SaveRound" || (credit.Points > 0 && r.failOn == "AddActivity") {
		return errBoom
	}
	r.rounds = append(r.rounds, rec)
	if credit.Points > 0 {
		_, _ = r.AddActivity(ctx, credit)
	}
	return nil
}

func (r *memRepo) AddActivity(_ context.Context, a Activity) (int64, error) {
	if r.failOn == "AddActivity" {
		return 0, errBoom
	}
	a.ID = int64(len(r.activities) + 1)
	r.activities = append(r.activities, a)
	return a.ID, nil
}

func (r *memRepo) CompleteChallenge(ctx context.Context, c ChallengeCompletion, since time.Time, credit Activity) (bool, error) {
	if r.failOn == "CompleteChallenge" {
		return false, errBoom
	}
	for _, d := range r.challenges {
		if d.Player == c.Player && d.ChallengeID == c.ChallengeID && !d.CompletedAt.Before(since) {
			return false, nil
		}
	}
	r.challenges = append(r.challenges, c)
	if credit.Points > 0 {
		_, _ = r.AddActivity(ctx, credit)
	}
	return true, nil
}

func (r *memRepo) ChallengeCompletions(_ context.Context, player string) ([]ChallengeCompletion, error) {
	var out []ChallengeCompletion
	for _, d := range r.challenges {
		if d.Player == player {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memRepo) Spend(ctx context.Context, a Activity) (bool, error) {
	have, _ := r.Balance(ctx, a.Player)
	if have+a.Points < 0 {
		return false, nil
	}
	_, err := r.AddActivity(ctx, a)
	return err == nil, err
}

func (r *memRepo) Balance(_ context.Context, player string) (int, error) {
	total := 0
	for _, a := range r.activities {
		if a.Player == player {
			total += a.Points
		}
	}
	return total, nil
}

func (r *memRepo) RoundStats(_ context.Context, player string) (RoundStats, error) {
	var st RoundStats
	for _, rec := range r.rounds {
		if rec.Player != player {
			continue
		}
		st.Rounds++
		st.BestScore = max(st.BestScore, rec.FinalScore)
		st.BestStreak = max(st.BestStreak, rec.MaxStreak)
		st.Sorted += rec.Correct
	}
	return st, nil
}

func (r *memRepo) AwardBadge(_ context.Context, player, badgeID string) (bool, error) {
	for _, id := range r.badges[player] {
		if id == badgeID {
			return false, nil
		}
	}
	r.badges[player] = append(r.badges[player], badgeID)
	return true, nil
}

func (r *memRepo) Badges(_ context.Context, player string) ([]EarnedBadge, error) {
	var out []EarnedBadge
	for _, id := range r.badges[player] {
		out = append(out, EarnedBadge{Player: player, BadgeID: id})
	}
	return out, nil
}

func (r *memRepo) Standings(ctx context.Context, limit int) ([]Standing, error) {
	seen := map[string]bool{}
	var out []Standing
	for _, a := range r.activities {
		if seen[a.Player] {
			continue
		}
		seen[a.Player] = true
		b, _ := r.Balance(ctx, a.Player)
		out = append(out, Standing{Player: a.Player, Balance: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func quietLedger(repo Repository, opts ...LedgerOption) *Ledger {
	opts = append([]LedgerOption{WithLogger(log.New(io.Discard))}, opts...)
	return NewLedger(repo, opts...)
}

func summary(final, streak, correct int) sorting.Summary {
	return sorting.Summary{
		RoundID:    "round",
		Score:      final,
		FinalScore: final,
		MaxStreak:  streak,
		Correct:    correct,
		Duration:   time.Minute,
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		balance int
		want    int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{4899, 49},
		{4900, 50},
		{100000, MaxLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.balance), "balance %d", tt.balance)
	}
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("points:1000")
	require.NoError(t, err)
	assert.Equal(t, Criterion{Kind: CriterionPoints, Threshold: 1000}, c)
	assert.Equal(t, "points:1000", c.String())

	c, err = ParseCriterion(" streak:7 ")
	require.NoError(t, err)
	assert.Equal(t, CriterionStreak, c.Kind)

	for _, bad := range []string{"", "points", "karma:5", "points:abc", "rounds:0", "sorted:-3"} {
		_, err := ParseCriterion(bad)
		assert.Error(t, err, bad)
	}
}

func TestCriterionMet(t *testing.T) {
	p := Progress{Balance: 500, BestStreak: 6, Rounds: 2, Sorted: 50}

	assert.True(t, Criterion{CriterionPoints, 500}.Met(p))
	assert.False(t, Criterion{CriterionPoints, 501}.Met(p))
	assert.False(t, Criterion{CriterionStreak, 7}.Met(p))
	assert.True(t, Criterion{CriterionRounds, 1}.Met(p))
	assert.True(t, Criterion{CriterionSorted, 50}.Met(p))
	assert.False(t, Criterion{CriterionChallenges, 1}.Met(p))
	assert.True(t, Criterion{CriterionChallenges, 1}.Met(Progress{Challenges: 1}))
	assert.False(t, Criterion{Kind: "unknown", Threshold: 1}.Met(p))
}

func TestCredit(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	balance, err := l.Credit(ctx, "ana", SourceWasteLookup, 15, "battery")
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	balance, err = l.Credit(ctx, " ana ", SourceChallenge, 0, "nothing")
	require.NoError(t, err)
	assert.Equal(t, 15, balance, "zero credit records nothing")
	assert.Len(t, repo.activities, 1)

	_, err = l.Credit(ctx, "  ", SourceChallenge, 5, "")
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestCreditRepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.failOn = "AddActivity"
	l := quietLedger(repo)

	_, err := l.Credit(context.Background(), "ana", SourceChallenge, 5, "")
	assert.ErrorIs(t, err, errBoom)
}

func TestRecordRound(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	res, err := l.RecordRound(ctx, "ana", summary(65, 4, 6))
	require.NoError(t, err)

	assert.Equal(t, 65, res.Balance)
	assert.Equal(t, 1, res.Level)
	assert.False(t, res.LevelUp)
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "green-beginner", res.NewBadges[0].ID)

	require.Len(t, repo.rounds, 1)
	assert.Equal(t, "ana", repo.rounds[0].Player)
	require.Len(t, repo.activities, 1)
	assert.Equal(t, SourceSortingRound, repo.activities[0].Source)

	// Second round crosses a level and earns no repeated badge
	res, err = l.RecordRound(ctx, "ana", summary(40, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, 105, res.Balance)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LevelUp)
	assert.Empty(t, res.NewBadges)
}

func TestRecordRoundZeroScore(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)

	res, err := l.RecordRound(context.Background(), "ana", summary(0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Balance)
	assert.Len(t, repo.rounds, 1, "the round is still saved")
	assert.Empty(t, repo.activities)
}

func TestRecordRoundErrors(t *testing.T) {
	_, err := quietLedger(newMemRepo()).RecordRound(context.Background(), "", summary(10, 1, 1))
	assert.ErrorIs(t, err, ErrNoPlayer)

	repo := newMemRepo()
	repo.failOn = "SaveRound"
	_, err = quietLedger(repo).RecordRound(context.Background(), "ana", summary(10, 1, 1))
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, repo.activities, "nothing credited when the round is not saved")
}

func TestRecordRoundCreditFailureSavesNothing(t *testing.T) {
	repo := newMemRepo()
	repo.failOn = "AddActivity"
	l := quietLedger(repo)
	ctx := context.Background()

	_, err := l.RecordRound(ctx, "ana", summary(40, 3, 4))
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, repo.rounds, "round must not be saved without its points")
	assert.Empty(t, repo.activities)

	// No badge can be earned from the lost round
	repo.failOn = ""
	awarded, err := l.CheckBadges(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, awarded)

	// Retrying the same round succeeds and credits it
	res, err := l.RecordRound(ctx, "ana", summary(40, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Balance)
	assert.Len(t, repo.rounds, 1)
}

func TestCustomBadges(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo, WithBadges([]Badge{
		{ID: "hot", Name: "Hot Hand", Criterion: Criterion{CriterionStreak, 3}},
	}))

	res, err := l.RecordRound(context.Background(), "ana", summary(50, 3, 5))
	require.NoError(t, err)
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "hot", res.NewBadges[0].ID)
	assert.Len(t, l.Badges(), 1)
}

func TestProfile(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	_, err := l.RecordRound(ctx, "ana", summary(120, 7, 12))
	require.NoError(t, err)
	// A badge the ledger no longer defines still shows up by ID
	repo.badges["ana"] = append(repo.badges["ana"], "retired")

	p, err := l.Profile(ctx, "ana")
	require.NoError(t, err)

	assert.Equal(t, 120, p.Balance)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 200, p.NextLevelAt)
	assert.Equal(t, RoundStats{Rounds: 1, BestScore: 120, BestStreak: 7, Sorted: 12}, p.Stats)
	assert.False(t, p.Certificate)

	names := make([]string, 0, len(p.Badges))
	for _, b := range p.Badges {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Green Beginner", "Clean Streak", "retired"}, names)
}

func TestProfileCertificateAndMaxLevel(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	_, err := l.Credit(ctx, "ana", SourceChallenge, 6000, "gift")
	require.NoError(t, err)

	p, err := l.Profile(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, p.Certificate)
	assert.Equal(t, MaxLevel, p.Level)
	assert.Zero(t, p.NextLevelAt)

	awarded, err := l.CheckBadges(ctx, "ana")
	require.NoError(t, err)
	ids := make([]string, 0, len(awarded))
	for _, b := range awarded {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"rising-star", "eco-champion"}, ids)
}

func TestLeaderboard(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	for player, amount := range map[string]int{"ana": 90, "ben": 310, "cid": 150} {
		_, err := l.Credit(ctx, player, SourceChallenge, amount, "")
		require.NoError(t, err)
	}

	rows, err := l.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Standing{Player: "ben", Balance: 310, Level: 4}, rows[0])
	assert.Equal(t, Standing{Player: "cid", Balance: 150, Level: 2}, rows[1])
}
