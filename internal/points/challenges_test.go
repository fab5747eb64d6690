package points

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, f)

	_, err = ParseFrequency("hourly")
	assert.Error(t, err)
}

func TestFrequencyWindowStart(t *testing.T) {
	// Thursday afternoon, in a zone ahead of UTC
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 3, 5, 16, 30, 0, 0, ist)

	tests := []struct {
		freq Frequency
		want time.Time
	}{
		{FrequencyDaily, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{FrequencyWeekly, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.True(t, tt.want.Equal(tt.freq.WindowStart(at)), "%s: got %s", tt.freq, tt.freq.WindowStart(at))
	}

	// A Sunday belongs to the week that started the Monday before
	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).Equal(FrequencyWeekly.WindowStart(sunday)))
}

// clock is a settable ledger clock.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func challengeLedger(repo *memRepo, c *clock, opts ...LedgerOption) *Ledger {
	return quietLedger(repo, append([]LedgerOption{WithClock(c.Now)}, opts...)...)
}

func TestCompleteChallenge(t *testing.T) {
	repo := newMemRepo()
	c := &clock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	l := challengeLedger(repo, c)
	ctx := context.Background()

	ch, res, err := l.CompleteChallenge(ctx, "ana", "clean-your-galli")
	require.NoError(t, err)
	assert.Equal(t, "Clean Your Galli", ch.Name)
	assert.Equal(t, 100, res.Balance)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LevelUp)
	require.Len(t, repo.activities, 1)
	assert.Equal(t, SourceChallenge, repo.activities[0].Source)

	// Same week, even on another day
	c.now = c.now.AddDate(0, 0, 4)
	_, _, err = l.CompleteChallenge(ctx, "ana", "clean-your-galli")
	assert.ErrorIs(t, err, ErrChallengeDone)
	assert.Len(t, repo.activities, 1, "a repeat credits nothing")

	// Next Monday opens a new window
	c.now = c.now.AddDate(0, 0, 3)
	_, res, err = l.CompleteChallenge(ctx, "ana", "CLEAN-YOUR-GALLI")
	require.NoError(t, err)
	assert.Equal(t, 200, res.Balance)
}

func TestCompleteChallengeErrors(t *testing.T) {
	repo := newMemRepo()
	l := challengeLedger(repo, &clock{now: time.Now()})
	ctx := context.Background()

	_, _, err := l.CompleteChallenge(ctx, " ", "waste-audit")
	assert.ErrorIs(t, err, ErrNoPlayer)

	_, _, err = l.CompleteChallenge(ctx, "ana", "moon-landing")
	assert.ErrorIs(t, err, ErrUnknownChallenge)

	repo.failOn = "CompleteChallenge"
	_, _, err = l.CompleteChallenge(ctx, "ana", "waste-audit")
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, repo.activities)
}

func TestChallengeBadge(t *testing.T) {
	repo := newMemRepo()
	c := &clock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	l := challengeLedger(repo, c, WithBadges([]Badge{
		{ID: "first-challenge", Name: "Green Beginner", Criterion: Criterion{CriterionChallenges, 1}},
		{ID: "three-challenges", Name: "Regular", Criterion: Criterion{CriterionChallenges, 3}},
	}))
	ctx := context.Background()

	_, res, err := l.CompleteChallenge(ctx, "ana", "plastic-free-day")
	require.NoError(t, err)
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "first-challenge", res.NewBadges[0].ID)

	for _, day := range []int{1, 2} {
		c.now = c.now.AddDate(0, 0, day)
		_, res, err = l.CompleteChallenge(ctx, "ana", "plastic-free-day")
		require.NoError(t, err)
	}
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "three-challenges", res.NewBadges[0].ID)
}

func TestChallengeBoard(t *testing.T) {
	repo := newMemRepo()
	c := &clock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	l := challengeLedger(repo, c)
	ctx := context.Background()

	_, _, err := l.CompleteChallenge(ctx, "ana", "plastic-free-day")
	require.NoError(t, err)
	_, _, err = l.CompleteChallenge(ctx, "ana", "waste-audit")
	require.NoError(t, err)

	c.now = c.now.AddDate(0, 0, 1)
	board, err := l.ChallengeBoard(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, board, len(DefaultChallenges()))

	byID := map[string]ChallengeStatus{}
	for _, st := range board {
		byID[st.ID] = st
	}
	assert.False(t, byID["plastic-free-day"].Completed, "daily challenge resets the next day")
	assert.Equal(t, 1, byID["plastic-free-day"].Times)
	assert.True(t, byID["waste-audit"].Completed, "monthly challenge holds for the month")
	assert.False(t, byID["zero-waste-week"].Completed)

	_, err = l.ChallengeBoard(ctx, "")
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestRedeem(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	_, err := l.Credit(ctx, "ana", SourceChallenge, 450, "")
	require.NoError(t, err)

	r, balance, err := l.Redeem(ctx, "ana", "cloth-bags")
	require.NoError(t, err)
	assert.Equal(t, "Cloth Shopping Bag Set", r.Name)
	assert.Equal(t, 150, balance)
	assert.Equal(t, SourceRedemption, repo.activities[len(repo.activities)-1].Source)
	assert.Equal(t, -300, repo.activities[len(repo.activities)-1].Points)

	_, balance, err = l.Redeem(ctx, "ana", "cloth-bags")
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 150, balance)

	_, _, err = l.Redeem(ctx, "ana", "compost-bin")
	assert.ErrorIs(t, err, ErrRewardUnavailable)

	_, _, err = l.Redeem(ctx, "ana", "yacht")
	assert.ErrorIs(t, err, ErrUnknownReward)

	_, _, err = l.Redeem(ctx, "", "cloth-bags")
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestRedeemLowersLevelKeepsBadges(t *testing.T) {
	repo := newMemRepo()
	l := quietLedger(repo)
	ctx := context.Background()

	_, err := l.Credit(ctx, "ana", SourceChallenge, 1000, "")
	require.NoError(t, err)
	awarded, err := l.CheckBadges(ctx, "ana")
	require.NoError(t, err)
	require.NotEmpty(t, awarded)

	_, _, err = l.Redeem(ctx, "ana", "plant-a-tree")
	require.NoError(t, err)

	p, err := l.Profile(ctx, "ana")
	require.NoError(t, err)
	assert.Zero(t, p.Balance)
	assert.Equal(t, 1, p.Level)
	assert.Len(t, p.Badges, len(awarded))
}
