// Package storage provides SQLite-based persistence for sorting rounds,
// the Green Points ledger and badges.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/greensort/internal/points"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store implements the ledger's repository
var _ points.Repository = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; SSH sessions share the store. Also keeps :memory: on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if dbPath != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: cannot set WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot set busy timeout: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			time_bonus INTEGER NOT NULL DEFAULT 0,
			final_score INTEGER NOT NULL,
			max_streak INTEGER NOT NULL DEFAULT 0,
			correct INTEGER NOT NULL DEFAULT 0,
			incorrect INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player);
		CREATE INDEX IF NOT EXISTS idx_rounds_top ON rounds(final_score DESC);

		CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			source TEXT NOT NULL,
			points INTEGER NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_activities_player ON activities(player);

		CREATE TABLE IF NOT EXISTS badges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			badge_id TEXT NOT NULL,
			earned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(player, badge_id)
		);

		CREATE TABLE IF NOT EXISTS challenge_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			challenge_id TEXT NOT NULL,
			points INTEGER NOT NULL,
			completed_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_challenges_player ON challenge_completions(player, challenge_id, completed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles DATETIME columns returned as time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRound records a finished round together with its credit, if the
// credit is positive, in one transaction.
func (s *Store) SaveRound(ctx context.Context, rec points.RoundRecord, credit points.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds
		 (round_id, player, score, time_bonus, final_score, max_streak, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RoundID,
		rec.Player,
		rec.Score,
		rec.TimeBonus,
		rec.FinalScore,
		rec.MaxStreak,
		rec.Correct,
		rec.Incorrect,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save round: %w", err)
	}

	if credit.Points > 0 {
		if _, err := insertActivity(ctx, tx, credit); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// TopRounds retrieves the best rounds across all players, ordered by final score.
func (s *Store) TopRounds(ctx context.Context, limit int) ([]points.RoundRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRounds(ctx,
		`SELECT round_id, player, score, time_bonus, final_score, max_streak, correct, incorrect, duration_ms, created_at
		 FROM rounds
		 ORDER BY final_score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// PlayerRounds retrieves a player's most recent rounds.
func (s *Store) PlayerRounds(ctx context.Context, player string, limit int) ([]points.RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRounds(ctx,
		`SELECT round_id, player, score, time_bonus, final_score, max_streak, correct, incorrect, duration_ms, created_at
		 FROM rounds
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryRounds(ctx context.Context, query string, args ...any) ([]points.RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var out []points.RoundRecord
	for rows.Next() {
		var r points.RoundRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.RoundID,
			&r.Player,
			&r.Score,
			&r.TimeBonus,
			&r.FinalScore,
			&r.MaxStreak,
			&r.Correct,
			&r.Incorrect,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// HighScore returns the best final score across all players.
// Returns 0 if no rounds exist.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(final_score) FROM rounds").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// RoundStats aggregates a player's rounds.
func (s *Store) RoundStats(ctx context.Context, player string) (points.RoundStats, error) {
	var st points.RoundStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(final_score), 0), COALESCE(MAX(max_streak), 0), COALESCE(SUM(correct), 0)
		 FROM rounds WHERE player = ?`,
		player,
	).Scan(&st.Rounds, &st.BestScore, &st.BestStreak, &st.Sorted)
	if err != nil {
		return st, fmt.Errorf("storage: cannot get round stats: %w", err)
	}
	return st, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AddActivity appends a ledger entry and returns its ID.
func (s *Store) AddActivity(ctx context.Context, a points.Activity) (int64, error) {
	return insertActivity(ctx, s.db, a)
}

func insertActivity(ctx context.Context, db execer, a points.Activity) (int64, error) {
	res, err := db.ExecContext(ctx,
		"INSERT INTO activities (player, source, points, note) VALUES (?, ?, ?, ?)",
		a.Player, string(a.Source), a.Points, a.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot add activity: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Activities returns a player's most recent ledger entries.
func (s *Store) Activities(ctx context.Context, player string, limit int) ([]points.Activity, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, source, points, note, created_at
		 FROM activities
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query activities: %w", err)
	}
	defer rows.Close()

	var out []points.Activity
	for rows.Next() {
		var a points.Activity
		var source string
		var createdAt any
		if err := rows.Scan(&a.ID, &a.Player, &source, &a.Points, &a.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.Source = points.Source(source)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Balance returns the player's points: everything earned minus
// everything spent.
func (s *Store) Balance(ctx context.Context, player string) (int, error) {
	return balance(ctx, s.db, player)
}

func balance(ctx context.Context, db execer, player string) (int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(points), 0) FROM activities WHERE player = ?",
		player,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query balance: %w", err)
	}
	return total, nil
}

// Standings returns players ordered by balance.
func (s *Store) Standings(ctx context.Context, limit int) ([]points.Standing, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player, SUM(points) AS balance
		 FROM activities
		 GROUP BY player
		 ORDER BY balance DESC, player ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query standings: %w", err)
	}
	defer rows.Close()

	var out []points.Standing
	for rows.Next() {
		var st points.Standing
		if err := rows.Scan(&st.Player, &st.Balance); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// AwardBadge records a badge for player. It returns false if the player
// already held it.
func (s *Store) AwardBadge(ctx context.Context, player, badgeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO badges (player, badge_id) VALUES (?, ?)",
		player, badgeID,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot award badge: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// Badges returns the player's badges in award order.
func (s *Store) Badges(ctx context.Context, player string) ([]points.EarnedBadge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, badge_id, earned_at
		 FROM badges
		 WHERE player = ?
		 ORDER BY id ASC`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query badges: %w", err)
	}
	defer rows.Close()

	var out []points.EarnedBadge
	for rows.Next() {
		var b points.EarnedBadge
		var earnedAt any
		if err := rows.Scan(&b.Player, &b.BadgeID, &earnedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		b.EarnedAt = parseTime(earnedAt)
		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearPlayer deletes every round, activity, badge and challenge
// completion of a player.
func (s *Store) ClearPlayer(ctx context.Context, player string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"rounds", "activities", "badges", "challenge_completions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE player = ?", player); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// CompleteChallenge stores a challenge completion and its credit unless
// the player completed the same challenge at or after since.
func (s *Store) CompleteChallenge(ctx context.Context, c points.ChallengeCompletion, since time.Time, credit points.Activity) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM challenge_completions
		 WHERE player = ? AND challenge_id = ? AND completed_at >= ?`,
		c.Player, c.ChallengeID, since.Unix(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot check challenge: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	completedAt := c.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO challenge_completions (player, challenge_id, points, completed_at) VALUES (?, ?, ?, ?)",
		c.Player, c.ChallengeID, c.Points, completedAt.Unix(),
	); err != nil {
		return false, fmt.Errorf("storage: cannot save challenge: %w", err)
	}
	if credit.Points > 0 {
		if _, err := insertActivity(ctx, tx, credit); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return true, nil
}

// ChallengeCompletions returns the player's completed challenges, oldest first.
func (s *Store) ChallengeCompletions(ctx context.Context, player string) ([]points.ChallengeCompletion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, challenge_id, points, completed_at
		 FROM challenge_completions
		 WHERE player = ?
		 ORDER BY id ASC`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query challenges: %w", err)
	}
	defer rows.Close()

	var out []points.ChallengeCompletion
	for rows.Next() {
		var c points.ChallengeCompletion
		var completedAt int64
		if err := rows.Scan(&c.Player, &c.ChallengeID, &c.Points, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CompletedAt = time.Unix(completedAt, 0).UTC()
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Spend appends a debit if the player's balance covers it.
func (s *Store) Spend(ctx context.Context, a points.Activity) (bool, error) {
	if a.Points >= 0 {
		return false, fmt.Errorf("storage: spend needs a negative amount, got %d", a.Points)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	have, err := balance(ctx, tx, a.Player)
	if err != nil {
		return false, err
	}
	if have+a.Points < 0 {
		return false, nil
	}
	if _, err := insertActivity(ctx, tx, a); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return true, nil
}
