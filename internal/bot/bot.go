// Package bot implements a simulated player for the sorting game.
// A bot picks a pool item and sorts it into the right bin with a
// configurable accuracy, pausing a fixed think time between moves.
package bot

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/greensort/internal/sorting"
)

const (
	DefaultAccuracy  = 0.8                    // Chance of choosing the correct bin
	DefaultThinkTime = 700 * time.Millisecond // Pause between moves
)

// Move is a single classification attempt.
type Move struct {
	Item   string
	Target sorting.Category
}

// Bot chooses moves from a round's pool.
type Bot struct {
	rng      *rand.Rand
	accuracy float64
	think    time.Duration
}

// New creates a bot. Accuracy is clamped to [0, 1]; a non-positive think
// time uses DefaultThinkTime.
func New(seed int64, accuracy float64, think time.Duration) *Bot {
	if think <= 0 {
		think = DefaultThinkTime
	}
	return &Bot{
		rng:      rand.New(rand.NewSource(seed)),
		accuracy: min(max(accuracy, 0), 1),
		think:    think,
	}
}

// Accuracy returns the bot's chance of a correct move.
func (b *Bot) Accuracy() float64 {
	return b.accuracy
}

// ThinkTime returns the pause between moves.
func (b *Bot) ThinkTime() time.Duration {
	return b.think
}

// Choose picks a random pool item and a bin for it. It returns false for
// an empty pool.
func (b *Bot) Choose(pool []sorting.WasteItem) (Move, bool) {
	if len(pool) == 0 {
		return Move{}, false
	}

	item := pool[b.rng.Intn(len(pool))]
	move := Move{Item: item.Name, Target: item.Category}

	// Miss: pick one of the other bins
	if b.rng.Float64() >= b.accuracy {
		var wrong []sorting.Category
		for _, c := range sorting.Categories() {
			if c != item.Category {
				wrong = append(wrong, c)
			}
		}
		move.Target = wrong[b.rng.Intn(len(wrong))]
	}
	return move, true
}
