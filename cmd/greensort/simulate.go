package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/greensort/internal/bot"
	"github.com/vovakirdan/greensort/internal/runner"
)

var (
	flagBots     int
	flagRounds   int
	flagAccuracy float64
	flagThink    time.Duration
	flagSpeed    float64
	flagPrefix   string
	flagNoSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let bots play sorting rounds",
	Long: `Run bots that play full rounds against a real countdown.

Every bot plays on its own engine. --speed shortens the game second so a
60 second round at --speed 20 takes 3 seconds of wall time; think time
is not scaled. Results are credited to the bots' Green Points unless
--no-save is set.

Examples:
  greensort simulate
  greensort simulate --bots 4 --rounds 3 --speed 30
  greensort simulate --accuracy 0.5 --think 200ms --no-save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagBots, "bots", 1, "Number of bots playing at once")
	simulateCmd.Flags().IntVar(&flagRounds, "rounds", 1, "Rounds per bot")
	simulateCmd.Flags().Float64Var(&flagAccuracy, "accuracy", bot.DefaultAccuracy, "Chance of a correct drop (0-1)")
	simulateCmd.Flags().DurationVar(&flagThink, "think", bot.DefaultThinkTime, "Pause between drops")
	simulateCmd.Flags().Float64Var(&flagSpeed, "speed", 10, "Game seconds per wall-clock second")
	simulateCmd.Flags().StringVar(&flagPrefix, "prefix", "bot", "Bot player name prefix")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record rounds in the database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	if flagBots < 1 || flagRounds < 1 {
		fail("--bots and --rounds must be at least 1")
	}
	if flagSpeed <= 0 {
		fail("--speed must be positive")
	}

	logger, err := newLogger("greensort-sim")
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		fail("%v", err)
	}
	rules := cfg.SortingRules()
	rules.TickInterval = time.Duration(float64(rules.TickInterval) / flagSpeed)
	if rules.TickInterval <= 0 {
		rules.TickInterval = time.Millisecond
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var opts []runner.Option
	if !flagNoSave {
		store, ledger, err := openLedger(cfg, logger)
		if err != nil {
			fail("opening database: %v", err)
		}
		defer store.Close()
		opts = append(opts, runner.WithLedger(ledger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Simulating %d bot(s) x %d round(s), %s per round\n\n",
		flagBots, flagRounds, rules.RoundDuration().Round(time.Millisecond))

	var (
		mu      sync.Mutex
		results []runner.Result
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 1; i <= flagBots; i++ {
		player := fmt.Sprintf("%s-%d", flagPrefix, i)
		b := bot.New(seed+int64(i)*7919, flagAccuracy, flagThink)
		r := runner.New(player, catalog, rules, b,
			botOptions(opts, runner.WithSeed(seed+int64(i)), runner.WithLogger(logger.With("player", player)))...,
		)

		eg.Go(func() error {
			res, err := r.RunMany(egCtx, flagRounds)
			mu.Lock()
			results = append(results, res...)
			mu.Unlock()
			return err
		})
	}
	err = eg.Wait()

	printResults(results)
	if err != nil {
		fail("simulation stopped: %v", err)
	}
}

// botOptions returns shared options plus one bot's own, in a fresh slice.
func botOptions(shared []runner.Option, own ...runner.Option) []runner.Option {
	return append(slices.Clone(shared), own...)
}

func printResults(results []runner.Result) {
	if len(results) == 0 {
		fmt.Println("No rounds finished.")
		return
	}

	fmt.Printf("  %-12s  %-6s  %-6s  %-6s  %-7s  %-8s  %s\n", "Player", "Score", "Final", "Streak", "Sorted", "Accuracy", "Balance")
	fmt.Printf("  %-12s  %-6s  %-6s  %-6s  %-7s  %-8s  %s\n", "------", "-----", "-----", "------", "------", "--------", "-------")
	for _, res := range results {
		s := res.Summary
		fmt.Printf("  %-12s  %-6d  %-6d  %-6d  %-7d  %-8s  %d\n",
			res.Player, s.Score, s.FinalScore, s.MaxStreak, s.Correct,
			fmt.Sprintf("%.0f%%", s.Accuracy()*100), res.Ledger.Balance)
		for _, b := range res.Ledger.NewBadges {
			fmt.Printf("    new badge: %s\n", b.Name)
		}
	}
}
