package sorting

import (
	"sync"
	"time"
)

// Timer is a handle to a repeating scheduled task.
// Stop may be called any number of times; only the first call has an effect.
type Timer interface {
	Stop()
}

// Scheduler arms repeating tasks. The engine uses it for the round countdown.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// ManualScheduler fires its timers only when told to.
// It is meant for tests and for owners that already have a frame clock.
type ManualScheduler struct {
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() { t.stopped = true }

// NewManualScheduler creates a scheduler with no timers.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn; it runs on each Advance until stopped.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &manualTimer{interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance fires every live timer n times, in registration order.
func (s *ManualScheduler) Advance(n int) {
	for range n {
		for _, t := range s.timers {
			if !t.stopped {
				t.fn()
			}
		}
	}
}

// Live returns how many timers have not been stopped.
func (s *ManualScheduler) Live() int {
	live := 0
	for _, t := range s.timers {
		if !t.stopped {
			live++
		}
	}
	return live
}

// TickerScheduler runs timers on time.Ticker goroutines.
// Each tick is handed to Post, which must run fn on the owner's loop;
// the engine is not safe for concurrent use. A nil Post runs fn on the
// ticker goroutine directly.
type TickerScheduler struct {
	Post func(fn func())
}

// Every starts a ticker goroutine that lives until the timer is stopped.
func (s TickerScheduler) Every(interval time.Duration, fn func()) Timer {
	post := s.Post
	if post == nil {
		post = func(f func()) { f() }
	}

	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn, post)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) run(fn func(), post func(func())) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			post(fn)
		}
	}
}

// Stop does not wait for the goroutine: it may be the caller.
func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.done) })
}
