package sorting

// Event is a signal emitted by the engine after a state change.
// Rendering and bookkeeping subscribe to events; the engine renders nothing.
type Event interface {
	sortingEvent()
}

// Listener receives engine events synchronously on the caller's goroutine.
type Listener func(Event)

// RoundStartedEvent is emitted once a fresh round is armed.
type RoundStartedEvent struct {
	RoundID string
	State   Snapshot
}

func (RoundStartedEvent) sortingEvent() {}

// ItemClassifiedEvent is emitted for every accepted classification attempt.
// Ignored attempts emit nothing.
type ItemClassifiedEvent struct {
	Correct bool
	Item    WasteItem
	Target  Category
	Awarded int // Base reward, 0 when incorrect
	Bonus   int // Streak bonus, 0 below threshold
	State   Snapshot
}

func (ItemClassifiedEvent) sortingEvent() {}

// RoundEndedEvent carries the final summary of a round.
type RoundEndedEvent struct {
	Summary Summary
}

func (RoundEndedEvent) sortingEvent() {}
