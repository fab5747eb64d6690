package sorting

import (
	"errors"
	"time"
)

// Snapshot is a read-only copy of the round state.
type Snapshot struct {
	RoundID   string
	Active    bool
	Score     int
	Streak    int
	MaxStreak int
	TimeLeft  int
	Correct   int
	Incorrect int
	Pool      []WasteItem
}

// Snapshot returns the current round state. The pool is copied.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		RoundID:   e.roundID,
		Active:    e.active,
		Score:     e.score,
		Streak:    e.streak,
		MaxStreak: e.maxStreak,
		TimeLeft:  e.timeLeft,
		Correct:   e.correct,
		Incorrect: e.incorrect,
		Pool:      e.Pool(),
	}
}

// Summary is the end-of-round result handed to the points ledger.
type Summary struct {
	RoundID    string
	Score      int
	TimeBonus  int
	FinalScore int
	MaxStreak  int
	Correct    int
	Incorrect  int
	Duration   time.Duration
	EndedAt    time.Time
}

// Accuracy returns the share of correct attempts in [0, 1].
func (s Summary) Accuracy() float64 {
	total := s.Correct + s.Incorrect
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total)
}

// ClassifyResult is the verdict of a classification attempt.
type ClassifyResult int

const (
	ResultIgnored   ClassifyResult = iota // No-op, see IgnoreReason
	ResultCorrect                         // Item dropped in its bin
	ResultIncorrect                       // Wrong bin, item stays in the pool
)

func (r ClassifyResult) String() string {
	switch r {
	case ResultIgnored:
		return "ignored"
	case ResultCorrect:
		return "correct"
	case ResultIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// IgnoreReason explains why an attempt was a no-op.
type IgnoreReason int

const (
	ReasonNone             IgnoreReason = iota
	ReasonInvalidOperation              // No round in progress
	ReasonUnknownItem                   // Item is not in the pool
	ReasonNoTarget                      // Drop did not resolve to a bin
)

// Sentinel errors matching each IgnoreReason.
var (
	ErrRoundInactive = errors.New("sorting: no round in progress")
	ErrUnknownItem   = errors.New("sorting: item not in pool")
	ErrNoTarget      = errors.New("sorting: no target bin")
)

// Outcome describes what a Classify call did.
type Outcome struct {
	Result  ClassifyResult
	Reason  IgnoreReason
	Item    WasteItem
	Awarded int
	Bonus   int
}

func ignored(reason IgnoreReason) Outcome {
	return Outcome{Result: ResultIgnored, Reason: reason}
}

// Points returns the total points the attempt earned.
func (o Outcome) Points() int {
	return o.Awarded + o.Bonus
}

// Err returns the sentinel for an ignored attempt, nil otherwise.
// Ignored attempts are never fatal; the error exists for logging.
func (o Outcome) Err() error {
	switch o.Reason {
	case ReasonInvalidOperation:
		return ErrRoundInactive
	case ReasonUnknownItem:
		return ErrUnknownItem
	case ReasonNoTarget:
		return ErrNoTarget
	case ReasonNone:
		return nil
	default:
		return nil
	}
}
