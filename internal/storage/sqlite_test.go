package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/sorting"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func round(id, player string, final, streak, correct int) points.RoundRecord {
	return points.RoundRecord{
		RoundID:    id,
		Player:     player,
		Score:      final,
		FinalScore: final,
		MaxStreak:  streak,
		Correct:    correct,
		Duration:   60 * time.Second,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created with its parent directory")
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 40, 2, 4), points.Activity{}))

	high, err := store.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, high)
}

func TestStoreSaveAndTopRounds(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 100, 3, 9), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r2", "ben", 50, 1, 5), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r3", "ana", 200, 6, 15), points.Activity{}))

	top, err := store.TopRounds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int{200, 100, 50}, []int{top[0].FinalScore, top[1].FinalScore, top[2].FinalScore})
	assert.Equal(t, "r3", top[0].RoundID)
	assert.Equal(t, 60*time.Second, top[0].Duration)
	assert.False(t, top[0].CreatedAt.IsZero())

	limited, err := store.TopRounds(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStoreDuplicateRoundRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 10, 1, 1), points.Activity{}))
	assert.Error(t, store.SaveRound(ctx, round("r1", "ana", 10, 1, 1), points.Activity{}))
}

func TestStorePlayerRounds(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 10, 1, 1), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r2", "ben", 20, 2, 2), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r3", "ana", 30, 3, 3), points.Activity{}))

	rounds, err := store.PlayerRounds(ctx, "ana", 0)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "r3", rounds[0].RoundID, "most recent first")
	assert.Equal(t, "r1", rounds[1].RoundID)
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	high, err := store.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, high, "empty store")

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 70, 1, 7), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r2", "ben", 90, 1, 9), points.Activity{}))

	high, err = store.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, high)
}

func TestStoreRoundStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.RoundStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, points.RoundStats{}, empty)

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 60, 4, 6), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r2", "ana", 85, 2, 8), points.Activity{}))

	st, err := store.RoundStats(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, points.RoundStats{Rounds: 2, BestScore: 85, BestStreak: 4, Sorted: 14}, st)
}

func TestStoreActivitiesAndBalance(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	balance, err := store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	id1, err := store.AddActivity(ctx, points.Activity{Player: "ana", Source: points.SourceSortingRound, Points: 65, Note: "round"})
	require.NoError(t, err)
	id2, err := store.AddActivity(ctx, points.Activity{Player: "ana", Source: points.SourceWasteLookup, Points: 15})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	_, err = store.AddActivity(ctx, points.Activity{Player: "ben", Source: points.SourceChallenge, Points: 5})
	require.NoError(t, err)

	balance, err = store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 80, balance)

	acts, err := store.Activities(ctx, "ana", 10)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, points.SourceWasteLookup, acts[0].Source)
	assert.Equal(t, "round", acts[1].Note)
}

func TestStoreStandings(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, a := range []points.Activity{
		{Player: "ana", Source: points.SourceSortingRound, Points: 120},
		{Player: "ben", Source: points.SourceSortingRound, Points: 300},
		{Player: "ana", Source: points.SourceWasteLookup, Points: 20},
		{Player: "cid", Source: points.SourceSortingRound, Points: 140},
	} {
		_, err := store.AddActivity(ctx, a)
		require.NoError(t, err)
	}

	rows, err := store.Standings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ben", rows[0].Player)
	// ana and cid tie at 140; ties break by name
	assert.Equal(t, "ana", rows[1].Player)
	assert.Equal(t, 140, rows[1].Balance)
	assert.Equal(t, "cid", rows[2].Player)
}

func TestStoreAwardBadgeOnce(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	isNew, err := store.AwardBadge(ctx, "ana", "green-beginner")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.AwardBadge(ctx, "ana", "green-beginner")
	require.NoError(t, err)
	assert.False(t, isNew, "second award is ignored")

	isNew, err = store.AwardBadge(ctx, "ben", "green-beginner")
	require.NoError(t, err)
	assert.True(t, isNew, "badges are per player")

	badges, err := store.Badges(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "green-beginner", badges[0].BadgeID)
}

func TestStoreClearPlayer(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 10, 1, 1), points.Activity{}))
	require.NoError(t, store.SaveRound(ctx, round("r2", "ben", 20, 1, 2), points.Activity{}))
	_, err := store.AddActivity(ctx, points.Activity{Player: "ana", Source: points.SourceChallenge, Points: 10})
	require.NoError(t, err)
	_, err = store.AwardBadge(ctx, "ana", "green-beginner")
	require.NoError(t, err)
	_, err = store.CompleteChallenge(ctx,
		points.ChallengeCompletion{Player: "ana", ChallengeID: "waste-audit", Points: 200, CompletedAt: time.Now()},
		time.Now().Add(-time.Hour), points.Activity{})
	require.NoError(t, err)

	require.NoError(t, store.ClearPlayer(ctx, "ana"))

	st, err := store.RoundStats(ctx, "ana")
	require.NoError(t, err)
	assert.Zero(t, st.Rounds)
	balance, err := store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Zero(t, balance)
	badges, err := store.Badges(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, badges)
	done, err := store.ChallengeCompletions(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, done)

	other, err := store.RoundStats(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, 1, other.Rounds)
}

func TestStoreCanceledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.SaveRound(ctx, round("r1", "ana", 10, 1, 1), points.Activity{}))
}

func TestStoreBacksLedger(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	ledger := points.NewLedger(store)

	summary := sorting.Summary{
		RoundID:    "r-ledger",
		Score:      110,
		TimeBonus:  0,
		FinalScore: 110,
		MaxStreak:  7,
		Correct:    9,
		Incorrect:  1,
		Duration:   time.Minute,
	}
	res, err := ledger.RecordRound(ctx, "ana", summary)
	require.NoError(t, err)
	assert.Equal(t, 110, res.Balance)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LevelUp)

	ids := make([]string, 0, len(res.NewBadges))
	for _, b := range res.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"green-beginner", "clean-streak"}, ids)

	profile, err := ledger.Profile(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Stats.Rounds)
	assert.Len(t, profile.Badges, 2)
	assert.False(t, profile.Certificate)
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.greensort/test.db")
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(home, ".greensort", "test.db"))
	assert.NoError(t, err)
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestStoreSaveRoundWithCredit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	credit := points.Activity{Player: "ana", Source: points.SourceSortingRound, Points: 40, Note: "round r1"}
	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 40, 3, 4), credit))

	balance, err := store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Equal(t, 1, countRows(t, store, "rounds"))
}

func TestStoreSaveRoundRollsBackWhenCreditFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`CREATE TRIGGER reject_activity BEFORE INSERT ON activities
		BEGIN SELECT RAISE(ABORT, 'activity rejected'); END`)
	require.NoError(t, err)

	credit := points.Activity{Player: "ana", Source: points.SourceSortingRound, Points: 40}
	err = store.SaveRound(ctx, round("r1", "ana", 40, 3, 4), credit)
	require.Error(t, err)

	assert.Zero(t, countRows(t, store, "rounds"), "round must not be saved without its credit")
	st, err := store.RoundStats(ctx, "ana")
	require.NoError(t, err)
	assert.Zero(t, st.Rounds)

	// The same round can be saved once the credit goes through
	_, err = store.db.Exec("DROP TRIGGER reject_activity")
	require.NoError(t, err)
	require.NoError(t, store.SaveRound(ctx, round("r1", "ana", 40, 3, 4), credit))
}

func TestStoreCompleteChallengeWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	done := points.ChallengeCompletion{Player: "ana", ChallengeID: "plastic-free-day", Points: 50, CompletedAt: monday}
	credit := points.Activity{Player: "ana", Source: points.SourceChallenge, Points: 50}

	stored, err := store.CompleteChallenge(ctx, done, points.FrequencyDaily.WindowStart(monday), credit)
	require.NoError(t, err)
	assert.True(t, stored)

	later := monday.Add(6 * time.Hour)
	done.CompletedAt = later
	stored, err = store.CompleteChallenge(ctx, done, points.FrequencyDaily.WindowStart(later), credit)
	require.NoError(t, err)
	assert.False(t, stored, "same day")

	tuesday := monday.AddDate(0, 0, 1)
	done.CompletedAt = tuesday
	stored, err = store.CompleteChallenge(ctx, done, points.FrequencyDaily.WindowStart(tuesday), credit)
	require.NoError(t, err)
	assert.True(t, stored, "next day")

	balance, err := store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	list, err := store.ChallengeCompletions(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, monday.Equal(list[0].CompletedAt))
	assert.True(t, tuesday.Equal(list[1].CompletedAt))
}

func TestStoreSpend(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.AddActivity(ctx, points.Activity{Player: "ana", Source: points.SourceChallenge, Points: 350})
	require.NoError(t, err)

	ok, err := store.Spend(ctx, points.Activity{Player: "ana", Source: points.SourceRedemption, Points: -300})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Spend(ctx, points.Activity{Player: "ana", Source: points.SourceRedemption, Points: -300})
	require.NoError(t, err)
	assert.False(t, ok, "balance of 50 does not cover 300")

	balance, err := store.Balance(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	_, err = store.Spend(ctx, points.Activity{Player: "ana", Points: 10})
	assert.Error(t, err)
}
