package sorting

import (
	"fmt"
	"time"
)

// Rules holds the scoring and timing constants of a round.
type Rules struct {
	RoundSeconds     int           // Countdown length in ticks (one tick is one game second)
	TickInterval     time.Duration // Wall-clock length of one tick
	BatchSize        int           // Items per generated pool
	BaseReward       int           // Points for a correct classification
	StreakThreshold  int           // Streak at which the bonus starts applying
	StreakBonus      int           // Extra points per correct classification at or above threshold
	TimeBonusDivisor int           // timeBonus = timeLeft / divisor
}

// DefaultRules returns the classic 60 second round.
func DefaultRules() Rules {
	return Rules{
		RoundSeconds:     60,
		TickInterval:     time.Second,
		BatchSize:        6,
		BaseReward:       10,
		StreakThreshold:  3,
		StreakBonus:      5,
		TimeBonusDivisor: 5,
	}
}

// Validate checks that every rule is usable.
func (r Rules) Validate() error {
	switch {
	case r.RoundSeconds <= 0:
		return fmt.Errorf("sorting: round_seconds must be positive, got %d", r.RoundSeconds)
	case r.TickInterval <= 0:
		return fmt.Errorf("sorting: tick_interval must be positive, got %s", r.TickInterval)
	case r.BatchSize <= 0:
		return fmt.Errorf("sorting: batch_size must be positive, got %d", r.BatchSize)
	case r.BaseReward <= 0:
		return fmt.Errorf("sorting: base_reward must be positive, got %d", r.BaseReward)
	case r.StreakThreshold <= 0:
		return fmt.Errorf("sorting: streak_threshold must be positive, got %d", r.StreakThreshold)
	case r.StreakBonus < 0:
		return fmt.Errorf("sorting: streak_bonus must not be negative, got %d", r.StreakBonus)
	case r.TimeBonusDivisor <= 0:
		return fmt.Errorf("sorting: time_bonus_divisor must be positive, got %d", r.TimeBonusDivisor)
	}
	return nil
}

// RoundDuration is the nominal wall-clock length of a round.
func (r Rules) RoundDuration() time.Duration {
	return time.Duration(r.RoundSeconds) * r.TickInterval
}
