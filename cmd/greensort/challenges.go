package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/greensort/internal/points"
)

var (
	flagComplete  string
	flagFrequency string
)

var challengesCmd = &cobra.Command{
	Use:   "challenges <player>",
	Short: "List and complete eco challenges",
	Long: `List the daily, weekly and monthly challenges with the player's
progress, or mark one as done with --complete. A challenge earns its
points once per day, week (from Monday) or month, in UTC.

Examples:
  greensort challenges ana
  greensort challenges ana --frequency weekly
  greensort challenges ana --complete plastic-free-day`,
	Args: cobra.ExactArgs(1),
	Run:  runChallenges,
}

func init() {
	challengesCmd.Flags().StringVar(&flagComplete, "complete", "", "ID of a challenge to mark as completed")
	challengesCmd.Flags().StringVar(&flagFrequency, "frequency", "", "Only list daily, weekly or monthly challenges")
}

func runChallenges(_ *cobra.Command, args []string) {
	player := args[0]

	var only points.Frequency
	if flagFrequency != "" {
		f, err := points.ParseFrequency(flagFrequency)
		if err != nil {
			fail("%v", err)
		}
		only = f
	}

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

	ctx := context.Background()
	if flagComplete != "" {
		c, res, err := ledger.CompleteChallenge(ctx, player, flagComplete)
		if err != nil {
			store.Close()
			if errors.Is(err, points.ErrChallengeDone) {
				fail("%s is already completed; come back next %s", c.Name, period(c.Frequency))
			}
			fail("%v", err)
		}
		fmt.Printf("Challenge completed: %s\n", c.Name)
		fmt.Printf("+%d Green Points for %s (balance %d, level %d)\n", c.Points, player, res.Balance, res.Level)
		if res.LevelUp {
			fmt.Printf("Level up! %s reached level %d.\n", player, res.Level)
		}
		for _, b := range res.NewBadges {
			fmt.Printf("New badge: %s\n", b.Name)
		}
		return
	}

	board, err := ledger.ChallengeBoard(ctx, player)
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	fmt.Printf("Challenges for %s\n\n", player)
	fmt.Printf("  %-22s  %-26s  %-8s  %-6s  %s\n", "ID", "Name", "Period", "Points", "Status")
	fmt.Printf("  %-22s  %-26s  %-8s  %-6s  %s\n", "--", "----", "------", "------", "------")
	for _, st := range board {
		if only != "" && st.Frequency != only {
			continue
		}
		status := "available"
		if st.Completed {
			status = "done"
		}
		if st.Times > 0 {
			status = fmt.Sprintf("%s (%dx)", status, st.Times)
		}
		fmt.Printf("  %-22s  %-26s  %-8s  %-6d  %s\n", st.ID, st.Name, st.Frequency, st.Points, status)
	}
}

// period names the next window of a frequency.
func period(f points.Frequency) string {
	switch f {
	case points.FrequencyWeekly:
		return "week"
	case points.FrequencyMonthly:
		return "month"
	default:
		return "day"
	}
}
