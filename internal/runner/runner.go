// Package runner plays unattended sorting rounds: a bot makes the moves
// while a real-time countdown runs, and the result is credited to the
// ledger. It backs the simulate command and soak-tests the engine under
// a live ticker.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/greensort/internal/bot"
	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/sorting"
)

// Runner plays one round at a time for a single player.
type Runner struct {
	player  string
	catalog *sorting.Catalog
	rules   sorting.Rules
	bot     *bot.Bot
	ledger  *points.Ledger
	seed    int64
	logger  *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLedger credits finished rounds to l.
func WithLedger(l *points.Ledger) Option {
	return func(r *Runner) { r.ledger = l }
}

// WithSeed makes pool generation deterministic.
func WithSeed(seed int64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithLogger sets the logger for round events.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a runner for player.
func New(player string, catalog *sorting.Catalog, rules sorting.Rules, b *bot.Bot, opts ...Option) *Runner {
	r := &Runner{
		player:  player,
		catalog: catalog,
		rules:   rules,
		bot:     b,
		seed:    time.Now().UnixNano(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is a finished round and what it changed in the ledger.
type Result struct {
	Player  string
	Summary sorting.Summary
	Ledger  points.RoundResult // Zero without a ledger
}

// Run plays one full round. It blocks until the countdown expires or ctx
// is canceled; a canceled round is discarded and ctx's error returned.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(runCtx)

	// All engine calls happen on the loop goroutine; everything else posts.
	ops := make(chan func())
	post := func(fn func()) {
		select {
		case ops <- fn:
		case <-egCtx.Done():
		}
	}

	engine := sorting.NewEngine(r.catalog, r.rules,
		sorting.WithSeed(r.seed),
		sorting.WithScheduler(sorting.TickerScheduler{Post: post}),
	)

	var (
		summary sorting.Summary
		ended   bool
	)
	engine.Subscribe(func(ev sorting.Event) {
		switch e := ev.(type) {
		case sorting.RoundStartedEvent:
			r.logger.Debug("round started", "player", r.player, "round", e.RoundID, "pool", len(e.State.Pool))
		case sorting.ItemClassifiedEvent:
			r.logger.Debug("item classified",
				"player", r.player,
				"item", e.Item.Name,
				"target", e.Target,
				"correct", e.Correct,
				"score", e.State.Score,
				"streak", e.State.Streak,
			)
		case sorting.RoundEndedEvent:
			summary, ended = e.Summary, true
		}
	})

	eg.Go(func() error {
		defer cancel()
		engine.StartRound()
		for {
			select {
			case <-egCtx.Done():
				engine.Discard()
				return egCtx.Err()
			case fn := <-ops:
				fn()
				if !engine.Active() {
					return nil
				}
			}
		}
	})

	eg.Go(func() error {
		ticker := time.NewTicker(r.bot.ThinkTime())
		defer ticker.Stop()
		for {
			select {
			case <-egCtx.Done():
				return nil
			case <-ticker.C:
				post(func() {
					if m, ok := r.bot.Choose(engine.Pool()); ok {
						engine.Classify(m.Item, m.Target)
					}
				})
			}
		}
	})

	err := eg.Wait()
	if !ended {
		if ctx.Err() != nil {
			err = ctx.Err()
		} else if err == nil {
			err = errors.New("runner: round stopped before the countdown expired")
		}
		r.logger.Info("round abandoned", "player", r.player, "err", err)
		return Result{Player: r.player}, err
	}

	res := Result{Player: r.player, Summary: summary}
	r.logger.Info("round finished",
		"player", r.player,
		"round", summary.RoundID,
		"score", summary.Score,
		"final", summary.FinalScore,
		"max_streak", summary.MaxStreak,
		"accuracy", fmt.Sprintf("%.0f%%", summary.Accuracy()*100),
	)

	if r.ledger != nil {
		lr, err := r.ledger.RecordRound(ctx, r.player, summary)
		if err != nil {
			return res, fmt.Errorf("runner: record round: %w", err)
		}
		res.Ledger = lr
	}
	return res, nil
}

// RunMany plays rounds back to back until n rounds finish or ctx is canceled.
func (r *Runner) RunMany(ctx context.Context, n int) ([]Result, error) {
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		res, err := r.Run(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		r.seed++
	}
	return results, nil
}
