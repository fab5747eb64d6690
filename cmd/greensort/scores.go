package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/greensort/internal/platform/tui"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best rounds and top players",
	Long: `Display the best sorting rounds and the Green Points leaderboard.

Examples:
  greensort scores
  greensort scores --limit 20
  greensort scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Rows per table")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, _ []string) {
	logger, err := newLogger("greensort")
	if err != nil {
		fail("%v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	store, ledger, err := openLedger(cfg, logger)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, ledger, width, height); err != nil {
			store.Close()
			fail("%v", err)
		}
		return
	}

	ctx := context.Background()

	rounds, err := store.TopRounds(ctx, flagScoresLimit)
	if err != nil {
		store.Close()
		fail("retrieving rounds: %v", err)
	}
	standings, err := ledger.Leaderboard(ctx, flagScoresLimit)
	if err != nil {
		store.Close()
		fail("retrieving leaderboard: %v", err)
	}

	fmt.Println("Top Rounds")
	fmt.Println()
	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Play 'greensort play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-6s  %s\n", "Rank", "Player", "Final", "Bonus", "Streak", "Date")
		fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-6s  %s\n", "----", "------", "-----", "-----", "------", "----")
		for i, r := range rounds {
			fmt.Printf("  %-4d  %-16s  %-6d  %-6d  %-6d  %s\n",
				i+1, r.Player, r.FinalScore, r.TimeBonus, r.MaxStreak, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Println()
	fmt.Println("Green Points")
	fmt.Println()
	if len(standings) == 0 {
		fmt.Println("No points earned yet.")
		return
	}
	fmt.Printf("  %-4s  %-16s  %-7s  %s\n", "Rank", "Player", "Points", "Level")
	fmt.Printf("  %-4s  %-16s  %-7s  %s\n", "----", "------", "------", "-----")
	for i, s := range standings {
		fmt.Printf("  %-4d  %-16s  %-7d  %d\n", i+1, s.Player, s.Balance, s.Level)
	}
}
