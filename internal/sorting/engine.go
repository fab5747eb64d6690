package sorting

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Engine owns one sorting round at a time.
// It is not safe for concurrent use: a single owner must serialize
// StartRound, Classify, Tick and EndRound, including scheduled ticks.
type Engine struct {
	rules     Rules
	catalog   *Catalog
	rng       *rand.Rand
	scheduler Scheduler
	now       func() time.Time
	newID     func() string
	listeners []Listener

	// Round state
	active    bool
	roundID   string
	score     int
	streak    int
	maxStreak int
	timeLeft  int
	correct   int
	incorrect int
	pool      []WasteItem
	countdown Timer
	startedAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler arms the countdown through s. Without a scheduler the
// owner is expected to call Tick itself once per TickInterval.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithSeed makes pool generation deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock overrides the wall clock used for round durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides round ID generation.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an idle engine over the given catalog and rules.
func NewEngine(catalog *Catalog, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules:   rules,
		catalog: catalog,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.now().UnixNano()))
	}
	return e
}

// Subscribe registers a listener. Listeners are called in registration order.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Catalog returns the item catalog the engine draws from.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Active reports whether a round is in progress.
func (e *Engine) Active() bool {
	return e.active
}

// StartRound begins a fresh round. It returns false and leaves the
// current round untouched if one is already active.
func (e *Engine) StartRound() bool {
	if e.active {
		return false
	}

	e.active = true
	e.roundID = e.newID()
	e.score = 0
	e.streak = 0
	e.maxStreak = 0
	e.correct = 0
	e.incorrect = 0
	e.timeLeft = e.rules.RoundSeconds
	e.startedAt = e.now()
	e.GeneratePool(e.rules.BatchSize)

	if e.scheduler != nil {
		// Ticks posted before Stop took effect must not leak into a later round.
		id := e.roundID
		e.countdown = e.scheduler.Every(e.rules.TickInterval, func() {
			if e.active && e.roundID == id {
				e.Tick()
			}
		})
	}

	e.emit(RoundStartedEvent{RoundID: e.roundID, State: e.Snapshot()})
	return true
}

// GeneratePool replaces the pool with a random subset of the catalog,
// without replacement and in random order. The pool holds
// min(batchSize, catalog size) items; batchSize <= 0 uses the rules' batch size.
func (e *Engine) GeneratePool(batchSize int) []WasteItem {
	if batchSize <= 0 {
		batchSize = e.rules.BatchSize
	}
	e.pool = drawPool(e.rng, e.catalog, batchSize)
	return e.Pool()
}

// drawPool picks n distinct catalog items in random order.
func drawPool(rng *rand.Rand, c *Catalog, batchSize int) []WasteItem {
	n := min(batchSize, c.Len())
	perm := rng.Perm(c.Len())
	pool := make([]WasteItem, n)
	for i := range n {
		pool[i] = c.At(perm[i])
	}
	return pool
}

// Classify attempts to drop the named pool item into target.
// Invalid attempts are no-ops and report why through the Outcome.
func (e *Engine) Classify(itemName string, target Category) Outcome {
	if !e.active {
		return ignored(ReasonInvalidOperation)
	}

	idx := e.poolIndex(itemName)
	if idx < 0 {
		return ignored(ReasonUnknownItem)
	}
	if !target.Valid() {
		return ignored(ReasonNoTarget)
	}

	item := e.pool[idx]
	if item.Category != target {
		e.streak = 0
		e.incorrect++
		out := Outcome{Result: ResultIncorrect, Item: item}
		e.emit(ItemClassifiedEvent{Correct: false, Item: item, Target: target, State: e.Snapshot()})
		return out
	}

	awarded := e.rules.BaseReward
	bonus := 0
	e.streak++
	if e.streak >= e.rules.StreakThreshold {
		bonus = e.rules.StreakBonus
	}
	e.score += awarded + bonus
	e.maxStreak = max(e.maxStreak, e.streak)
	e.correct++

	e.pool = append(e.pool[:idx], e.pool[idx+1:]...)
	if len(e.pool) == 0 {
		e.GeneratePool(e.rules.BatchSize)
	}

	e.emit(ItemClassifiedEvent{
		Correct: true,
		Item:    item,
		Target:  target,
		Awarded: awarded,
		Bonus:   bonus,
		State:   e.Snapshot(),
	})
	return Outcome{Result: ResultCorrect, Item: item, Awarded: awarded, Bonus: bonus}
}

func (e *Engine) poolIndex(name string) int {
	k := key(name)
	if k == "" {
		return -1
	}
	for i, it := range e.pool {
		if key(it.Name) == k {
			return i
		}
	}
	return -1
}

// Tick advances the countdown by one second. When time runs out the
// round ends and its summary is returned with ok set.
// Tick has no effect while idle.
func (e *Engine) Tick() (Summary, bool) {
	if !e.active {
		return Summary{}, false
	}

	e.timeLeft--
	if e.timeLeft > 0 {
		return Summary{}, false
	}
	e.timeLeft = 0
	return e.EndRound()
}

// EndRound finishes the active round, stops the countdown and returns
// the summary. It returns ok=false when no round is active.
//
// The time bonus is computed from the time left at the moment of the call,
// so a round that ends by natural expiry always has a zero bonus.
func (e *Engine) EndRound() (Summary, bool) {
	if !e.active {
		return Summary{}, false
	}

	e.active = false
	e.stopCountdown()

	timeBonus := e.timeLeft / e.rules.TimeBonusDivisor
	endedAt := e.now()
	summary := Summary{
		RoundID:    e.roundID,
		Score:      e.score,
		TimeBonus:  timeBonus,
		FinalScore: e.score + timeBonus,
		MaxStreak:  e.maxStreak,
		Correct:    e.correct,
		Incorrect:  e.incorrect,
		Duration:   endedAt.Sub(e.startedAt),
		EndedAt:    endedAt,
	}
	e.pool = nil

	e.emit(RoundEndedEvent{Summary: summary})
	return summary, true
}

// Discard drops the active round without a summary or event.
// Owners call it when the player leaves mid-round.
func (e *Engine) Discard() {
	if !e.active {
		return
	}
	e.active = false
	e.stopCountdown()
	e.pool = nil
}

func (e *Engine) stopCountdown() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
}

// Pool returns a copy of the items currently available for sorting.
func (e *Engine) Pool() []WasteItem {
	out := make([]WasteItem, len(e.pool))
	copy(out, e.pool)
	return out
}
